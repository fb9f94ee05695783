package nodes

import (
	"errors"
	"testing"
)

// --- ParseCompOp ---

func TestParseCompOp(t *testing.T) {
	t.Parallel()
	cases := map[string]CompOp{
		"=":        OpEq,
		"!=":       OpNotEq,
		"<":        OpLt,
		"<=":       OpLtEq,
		">":        OpGt,
		">=":       OpGtEq,
		"LIKE":     OpLike,
		"ilike":    OpILike,
		"in":       OpIn,
		"NOT   IN": OpNotIn,
		"Is":       OpIs,
		"is  not":  OpIsNot,
	}
	for input, want := range cases {
		got, err := ParseCompOp(input)
		if err != nil {
			t.Errorf("ParseCompOp(%q): unexpected error %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCompOp(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestParseCompOpUnknown(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"==", "<>", "between", ""} {
		if _, err := ParseCompOp(input); !errors.Is(err, ErrInvalidOperand) {
			t.Errorf("ParseCompOp(%q): expected ErrInvalidOperand, got %v", input, err)
		}
	}
}

// --- NewComparison ---

func TestNewComparisonIsRequiresNil(t *testing.T) {
	t.Parallel()
	col := &ColumnRef{Name: "deleted_at"}

	cmp, err := NewComparison(col, OpIs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Right != nil {
		t.Error("IS comparison must have a nil right operand")
	}

	if _, err := NewComparison(col, OpIs, 42); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("IS with non-nil operand: expected ErrInvalidOperand, got %v", err)
	}
	if _, err := NewComparison(col, OpIsNot, "x"); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("IS NOT with non-nil operand: expected ErrInvalidOperand, got %v", err)
	}
}

func TestNewComparisonInBuildsValueList(t *testing.T) {
	t.Parallel()
	col := &ColumnRef{Name: "id"}
	cmp, err := NewComparison(col, OpIn, []any{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := cmp.Right.(*ValueListNode)
	if !ok {
		t.Fatalf("expected *ValueListNode, got %T", cmp.Right)
	}
	if len(list.Values) != 3 {
		t.Errorf("expected 3 values, got %d", len(list.Values))
	}
}

func TestNewComparisonInAcceptsTypedSlices(t *testing.T) {
	t.Parallel()
	col := &ColumnRef{Name: "id"}
	cmp, err := NewComparison(col, OpNotIn, []int{7, 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := cmp.Right.(*ValueListNode)
	if len(list.Values) != 2 || list.Values[0] != 7 {
		t.Errorf("unexpected values: %v", list.Values)
	}
}

func TestNewComparisonInRejectsEmpty(t *testing.T) {
	t.Parallel()
	col := &ColumnRef{Name: "id"}
	if _, err := NewComparison(col, OpIn, []any{}); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("empty IN list: expected ErrInvalidOperand, got %v", err)
	}
}

func TestNewComparisonInRejectsScalar(t *testing.T) {
	t.Parallel()
	col := &ColumnRef{Name: "id"}
	if _, err := NewComparison(col, OpIn, 42); !errors.Is(err, ErrInvalidOperand) {
		t.Errorf("scalar IN operand: expected ErrInvalidOperand, got %v", err)
	}
}

func TestNewComparisonWrapsValue(t *testing.T) {
	t.Parallel()
	col := &ColumnRef{Name: "age"}
	cmp, err := NewComparison(col, OpGtEq, 18)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, ok := cmp.Right.(*ValueNode)
	if !ok {
		t.Fatalf("expected *ValueNode, got %T", cmp.Right)
	}
	if val.Value != 18 {
		t.Errorf("expected 18, got %v", val.Value)
	}
}

func TestNewComparisonPassesNodeOperandThrough(t *testing.T) {
	t.Parallel()
	left := &ColumnRef{Qualifier: "u", Name: "id"}
	right := &ColumnRef{Qualifier: "p", Name: "user_id"}
	cmp, err := NewComparison(left, OpEq, right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Right != Node(right) {
		t.Error("node operand must not be re-wrapped")
	}
}
