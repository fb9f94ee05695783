package managers

import (
	"testing"

	"github.com/goquel/goquel/internal/testutil"
	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/scope"
)

func TestUpdateBasic(t *testing.T) {
	t.Parallel()
	q := NewUpdateManager("users", Postgres).
		Set("name", "Ada").
		Set("age", 37).
		Where("id", "=", 1)
	sqlText, params := mustSQL(t, q)
	testutil.AssertEqual(t, sqlText, "UPDATE users SET name = $1, age = $2 WHERE id = $3")
	testutil.AssertParams(t, params, "Ada", 37, 1)
}

func TestUpdateWithoutWhere(t *testing.T) {
	t.Parallel()
	q := NewUpdateManager("users", Postgres).Set("active", false)
	sqlText, params := mustSQL(t, q)
	testutil.AssertEqual(t, sqlText, "UPDATE users SET active = $1")
	testutil.AssertParams(t, params, false)
}

func TestUpdateRequiresAssignments(t *testing.T) {
	t.Parallel()
	q := NewUpdateManager("users", Postgres).Where("id", "=", 1)
	_, _, err := q.ToSQL()
	testutil.AssertErrorIs(t, err, nodes.ErrInvalidOperand)
}

func TestUpdateRejectsQualifiedSetTarget(t *testing.T) {
	t.Parallel()
	q := NewUpdateManager("users", Postgres).Set("u.name", "Ada")
	testutil.AssertErrorIs(t, q.Err(), scope.ErrMalformedExpression)
}

func TestUpdateWheresMerge(t *testing.T) {
	t.Parallel()
	q := NewUpdateManager("users", Postgres).
		Set("name", "Ada").
		Where("id", "=", 1).
		Where("active", "=", true)
	sqlText, params := mustSQL(t, q)
	testutil.AssertEqual(t, sqlText,
		"UPDATE users SET name = $1 WHERE id = $2 AND active = $3")
	testutil.AssertParams(t, params, "Ada", 1, true)
}

func TestUpdateReturning(t *testing.T) {
	t.Parallel()
	q := NewUpdateManager("users", Postgres).
		Set("name", "Ada").
		Where("id", "=", 1).
		Returning("updated_at")
	sqlText, _ := mustSQL(t, q)
	testutil.AssertEqual(t, sqlText,
		"UPDATE users SET name = $1 WHERE id = $2 RETURNING updated_at")
}

func TestUpdateSnapshotsDiverge(t *testing.T) {
	t.Parallel()
	base := NewUpdateManager("users", Postgres).Set("name", "Ada")
	_ = base.Set("age", 37)
	sqlText, _ := mustSQL(t, base)
	testutil.AssertEqual(t, sqlText, "UPDATE users SET name = $1")
}
