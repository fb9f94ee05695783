package visitors

import (
	"testing"

	"github.com/goquel/goquel/internal/testutil"
	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/scope"
)

func TestFormattingSelectMultiline(t *testing.T) {
	t.Parallel()
	where, err := nodes.NewComparison(qcol("u", "age"), nodes.OpGtEq, 18)
	testutil.AssertNoError(t, err)

	core := &nodes.SelectCore{
		From:        scope.TableRef{Name: "users", Alias: "u"},
		Projections: []*nodes.ColumnRef{qcol("u", "id"), qcol("u", "name")},
		Joins: []*nodes.JoinNode{{
			Table: scope.TableRef{Name: "posts", Alias: "p"},
			Kind:  nodes.InnerJoin,
			On:    cmp(t, qcol("u", "id"), nodes.OpEq, qcol("p", "user_id")),
		}},
		Where:  where,
		Orders: []*nodes.OrderingNode{{Column: qcol("u", "name"), Direction: nodes.Desc}},
		Limit:  &nodes.ValueNode{Value: 10},
	}

	f := NewFormattingVisitor(NewPostgresVisitor())
	got := core.Accept(f)
	want := "SELECT u.id, u.name\n" +
		"FROM users AS u\n" +
		"INNER JOIN posts AS p ON u.id = p.user_id\n" +
		"WHERE u.age >= $1\n" +
		"ORDER BY u.name DESC\n" +
		"LIMIT $2"
	testutil.AssertEqual(t, got, want)
	testutil.AssertParams(t, f.Params(), 18, 10)
}

func TestFormattingKeepsRootParenthesization(t *testing.T) {
	t.Parallel()
	core := &nodes.SelectCore{
		From:  scope.TableRef{Name: "users"},
		Where: nodes.And(eq(t, "a"), eq(t, "b")),
	}
	f := NewFormattingVisitor(NewPostgresVisitor())
	got := core.Accept(f)
	testutil.AssertEqual(t, got, "SELECT *\nFROM users\nWHERE a = $1 AND b = $2")
}

func TestFormattingInsertMultiline(t *testing.T) {
	t.Parallel()
	stmt := &nodes.InsertStatement{
		Into:    scope.TableRef{Name: "users"},
		Columns: []*nodes.ColumnRef{col("email"), col("name")},
		Rows: [][]nodes.Node{{
			&nodes.ValueNode{Value: "a@example.com"},
			&nodes.ValueNode{Value: "Ada"},
		}},
		Returning: []*nodes.ColumnRef{col("id")},
	}
	f := NewFormattingVisitor(NewPostgresVisitor())
	got := stmt.Accept(f)
	want := "INSERT INTO users (email, name)\nVALUES ($1, $2)\nRETURNING id"
	testutil.AssertEqual(t, got, want)
}

func TestFormattingRequiresInnerVisitor(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a nil inner visitor")
		}
	}()
	NewFormattingVisitor(nil)
}
