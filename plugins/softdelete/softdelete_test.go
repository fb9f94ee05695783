package softdelete

import (
	"testing"

	"github.com/goquel/goquel/internal/testutil"
	"github.com/goquel/goquel/managers"
)

func TestSoftDeleteAddsIsNullCondition(t *testing.T) {
	t.Parallel()
	q := managers.NewSelectManager("users", managers.Postgres).Use(New())
	sqlText, params, err := q.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sqlText, "SELECT * FROM users WHERE users.deleted_at IS NULL")
	testutil.AssertParams(t, params)
}

func TestSoftDeleteUsesAliasQualifier(t *testing.T) {
	t.Parallel()
	q := managers.NewSelectManager("users as u", managers.Postgres).Use(New())
	sqlText, _, err := q.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sqlText, "SELECT * FROM users AS u WHERE u.deleted_at IS NULL")
}

func TestSoftDeleteMergesWithExistingWhere(t *testing.T) {
	t.Parallel()
	q := managers.NewSelectManager("users", managers.Postgres).
		Where("active", "=", true).
		Use(New())
	sqlText, params, err := q.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sqlText,
		"SELECT * FROM users WHERE active = $1 AND users.deleted_at IS NULL")
	testutil.AssertParams(t, params, true)
}

func TestSoftDeleteCoversJoinedTables(t *testing.T) {
	t.Parallel()
	q := managers.NewSelectManager("users as u", managers.Postgres).
		InnerJoin("posts as p", "u.id", "p.user_id").
		Use(New())
	sqlText, _, err := q.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sqlText,
		"SELECT * FROM users AS u INNER JOIN posts AS p ON u.id = p.user_id "+
			"WHERE u.deleted_at IS NULL AND p.deleted_at IS NULL")
}

func TestSoftDeleteWithColumn(t *testing.T) {
	t.Parallel()
	q := managers.NewSelectManager("users", managers.Postgres).Use(New(WithColumn("removed_at")))
	sqlText, _, err := q.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sqlText, "SELECT * FROM users WHERE users.removed_at IS NULL")
}

func TestSoftDeleteWithTables(t *testing.T) {
	t.Parallel()
	q := managers.NewSelectManager("users as u", managers.Postgres).
		InnerJoin("posts as p", "u.id", "p.user_id").
		Use(New(WithTables("users")))
	sqlText, _, err := q.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sqlText,
		"SELECT * FROM users AS u INNER JOIN posts AS p ON u.id = p.user_id "+
			"WHERE u.deleted_at IS NULL")
}

func TestSoftDeleteWithTableColumn(t *testing.T) {
	t.Parallel()
	q := managers.NewSelectManager("users as u", managers.Postgres).
		InnerJoin("posts as p", "u.id", "p.user_id").
		Use(New(
			WithTableColumn("users", "deleted_at"),
			WithTableColumn("posts", "removed_at"),
		))
	sqlText, _, err := q.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sqlText,
		"SELECT * FROM users AS u INNER JOIN posts AS p ON u.id = p.user_id "+
			"WHERE u.deleted_at IS NULL AND p.removed_at IS NULL")
}

func TestSoftDeleteDoesNotStickToTheSnapshot(t *testing.T) {
	t.Parallel()
	base := managers.NewSelectManager("users", managers.Postgres)
	_ = base.Use(New())
	sqlText, _, err := base.ToSQL()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sqlText, "SELECT * FROM users")
}
