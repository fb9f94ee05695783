package scope_test

import (
	"testing"

	"github.com/goquel/goquel/internal/testutil"
	"github.com/goquel/goquel/scope"
)

func mustScope(t *testing.T, exprs ...string) scope.Scope {
	t.Helper()
	var s scope.Scope
	for _, e := range exprs {
		ref, err := scope.ParseTableExpr(e)
		testutil.AssertNoError(t, err)
		s, err = s.WithTable(ref)
		testutil.AssertNoError(t, err)
	}
	return s
}

// --- WithTable ---

func TestWithTableRegistersQualifier(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users")
	if !s.Has("users") {
		t.Error("expected qualifier users in scope")
	}
}

func TestWithTableAliasIsQualifier(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users as u")
	if !s.Has("u") {
		t.Error("expected alias u in scope")
	}
	if s.Has("users") {
		t.Error("aliased table must not register its own name as qualifier")
	}
}

func TestWithTableDuplicateName(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users")
	_, err := s.WithTable(scope.TableRef{Name: "users"})
	testutil.AssertErrorIs(t, err, scope.ErrDuplicateAlias)
}

func TestWithTableDuplicateAlias(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users as u")
	_, err := s.WithTable(scope.TableRef{Name: "orders", Alias: "u"})
	testutil.AssertErrorIs(t, err, scope.ErrDuplicateAlias)
}

func TestWithTableAliasCollidesWithName(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "u")
	_, err := s.WithTable(scope.TableRef{Name: "users", Alias: "u"})
	testutil.AssertErrorIs(t, err, scope.ErrDuplicateAlias)
}

func TestWithTableDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()
	base := mustScope(t, "users")
	_, err := base.WithTable(scope.TableRef{Name: "orders"})
	testutil.AssertNoError(t, err)
	if base.Has("orders") {
		t.Error("WithTable mutated the receiver scope")
	}
}

// --- ResolveColumn ---

func TestResolveColumnBareStaysBare(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users as u")
	qc, err := s.ResolveColumn("id")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, qc, scope.QualifiedColumn{Name: "id"})
}

func TestResolveColumnQualified(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users as u", "posts as p")
	qc, err := s.ResolveColumn("p.title")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, qc, scope.QualifiedColumn{Qualifier: "p", Name: "title"})
}

func TestResolveColumnByTableName(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users")
	qc, err := s.ResolveColumn("users.id")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, qc, scope.QualifiedColumn{Qualifier: "users", Name: "id"})
}

func TestResolveColumnAliasExclusivity(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users as u")
	_, err := s.ResolveColumn("users.id")
	testutil.AssertErrorIs(t, err, scope.ErrAliasExclusivity)
}

func TestResolveColumnUnknownQualifier(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users")
	_, err := s.ResolveColumn("orders.id")
	testutil.AssertErrorIs(t, err, scope.ErrUnresolvedColumn)
}

func TestResolveColumnMalformed(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users")
	for _, ref := range []string{"a.b.c", "users.", ".id"} {
		_, err := s.ResolveColumn(ref)
		testutil.AssertErrorIs(t, err, scope.ErrMalformedExpression)
	}
}

func TestResolveColumnEmpty(t *testing.T) {
	t.Parallel()
	s := mustScope(t, "users")
	_, err := s.ResolveColumn("  ")
	testutil.AssertErrorIs(t, err, scope.ErrEmptyIdentifier)
}

func TestQualifiedColumnString(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, scope.QualifiedColumn{Name: "id"}.String(), "id")
	testutil.AssertEqual(t, scope.QualifiedColumn{Qualifier: "u", Name: "id"}.String(), "u.id")
}
