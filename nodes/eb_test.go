package nodes

import (
	"errors"
	"testing"

	"github.com/goquel/goquel/scope"
)

func testScope(t *testing.T, exprs ...string) scope.Scope {
	t.Helper()
	var s scope.Scope
	for _, e := range exprs {
		ref, err := scope.ParseTableExpr(e)
		if err != nil {
			t.Fatalf("parse %q: %v", e, err)
		}
		s, err = s.WithTable(ref)
		if err != nil {
			t.Fatalf("register %q: %v", e, err)
		}
	}
	return s
}

// --- Ref / Cmp ---

func TestExprBuilderRef(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "users as u"))
	col := eb.Ref("u.name")
	if err := eb.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.Qualifier != "u" || col.Name != "name" {
		t.Errorf("unexpected column: %+v", col)
	}
}

func TestExprBuilderRefLatchesResolutionError(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "users as u"))
	col := eb.Ref("users.name")
	if col == nil {
		t.Fatal("Ref must return a usable placeholder on error")
	}
	if !errors.Is(eb.Err(), scope.ErrAliasExclusivity) {
		t.Errorf("expected ErrAliasExclusivity, got %v", eb.Err())
	}
}

func TestExprBuilderRefRejectsRename(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "users"))
	if col := eb.Ref("name as n"); col == nil {
		t.Fatal("Ref must return a usable placeholder on error")
	}
	if !errors.Is(eb.Err(), scope.ErrMalformedExpression) {
		t.Errorf("expected ErrMalformedExpression, got %v", eb.Err())
	}
}

func TestExprBuilderCmp(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "users"))
	n := eb.Cmp("age", ">=", 18)
	if err := eb.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmp, ok := n.(*ComparisonNode)
	if !ok {
		t.Fatalf("expected *ComparisonNode, got %T", n)
	}
	if cmp.Op != OpGtEq {
		t.Errorf("expected OpGtEq, got %d", cmp.Op)
	}
}

func TestExprBuilderCmpUnknownOperator(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "users"))
	if n := eb.Cmp("age", "<>", 18); n == nil {
		t.Fatal("Cmp must return a usable placeholder on error")
	}
	if !errors.Is(eb.Err(), ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand, got %v", eb.Err())
	}
}

func TestExprBuilderKeepsFirstError(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "users"))
	eb.Cmp("age", "<>", 18) // ErrInvalidOperand
	eb.Ref("a.b")           // ErrUnresolvedColumn, must not overwrite
	if !errors.Is(eb.Err(), ErrInvalidOperand) {
		t.Errorf("expected the first error to be kept, got %v", eb.Err())
	}
}

// --- Array / JSONB factories ---

func TestArrayOpsOf(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "events"))
	n := eb.Array("ids").Of("int").Contains()
	node := n.(*ArrayOpNode)
	if node.ElemType() != "int" {
		t.Errorf("expected declared type int, got %q", node.ElemType())
	}
}

func TestArrayOpsDefaultElemType(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "events"))
	n := eb.Array("tags").Contains()
	if node := n.(*ArrayOpNode); node.ElemType() != "text" {
		t.Errorf("expected default type text, got %q", node.ElemType())
	}
}

func TestJSONBOpsRejectsEmptyKeys(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "events"))
	eb.JSONB("payload").HasAnyKey()
	if !errors.Is(eb.Err(), ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand for empty key list, got %v", eb.Err())
	}

	eb2 := NewExprBuilder(testScope(t, "events"))
	eb2.JSONB("payload").Field("")
	if !errors.Is(eb2.Err(), ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand for empty key, got %v", eb2.Err())
	}
}

func TestRawRejectsEmptyFragment(t *testing.T) {
	t.Parallel()
	eb := NewExprBuilder(testScope(t, "users"))
	eb.Raw("")
	if !errors.Is(eb.Err(), ErrInvalidOperand) {
		t.Errorf("expected ErrInvalidOperand, got %v", eb.Err())
	}
}
