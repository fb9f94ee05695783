package visitors

import (
	"testing"

	"github.com/goquel/goquel/internal/testutil"
	"github.com/goquel/goquel/nodes"
)

func TestPostgresRawRenumbersPlaceholders(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor()

	// Two binds before the fragment shift its $1/$2 to $3/$4.
	_ = (&nodes.ValueNode{Value: "x"}).Accept(v)
	_ = (&nodes.ValueNode{Value: "y"}).Accept(v)

	raw := nodes.NewRaw("lower(name) = $1 OR code = $2", "bob", 7)
	got := raw.Accept(v)
	testutil.AssertEqual(t, got, "lower(name) = $3 OR code = $4")
	testutil.AssertParams(t, v.Params(), "x", "y", "bob", 7)
}

func TestPostgresRawLeavesOutOfRangePlaceholders(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor()
	raw := nodes.NewRaw("a = $1 AND b = $9", 1)
	testutil.AssertSQL(t, v, raw, "a = $1 AND b = $9")
	testutil.AssertParams(t, v.Params(), 1)
}

func TestPostgresRawInlinesWithoutParams(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor(WithoutParams())
	raw := nodes.NewRaw("lower(name) = $1", "O'Brien")
	testutil.AssertSQL(t, v, raw, "lower(name) = 'O''Brien'")
	testutil.AssertParams(t, v.Params())
}

func TestBaseRawAppendsParamsVerbatim(t *testing.T) {
	t.Parallel()
	v := NewMySQLVisitor()
	_ = (&nodes.ValueNode{Value: 1}).Accept(v)
	raw := nodes.NewRaw("lower(name) = ?", "bob")
	testutil.AssertSQL(t, v, raw, "lower(name) = ?")
	testutil.AssertParams(t, v.Params(), 1, "bob")
}

func TestRawWithNoParams(t *testing.T) {
	t.Parallel()
	v := NewPostgresVisitor()
	raw := nodes.NewRaw("created_at > now() - interval '1 day'")
	testutil.AssertSQL(t, v, raw, "created_at > now() - interval '1 day'")
	testutil.AssertParams(t, v.Params())
}
