package visitors

import (
	"testing"

	"github.com/goquel/goquel/nodes"
)

// renderPredicate renders root as a WHERE-clause root, exercising the
// root-aware parenthesization policy.
func renderPredicate(t *testing.T, root nodes.Node) string {
	t.Helper()
	v := NewPostgresVisitor()
	restore := v.setPredicateRoot(root)
	defer restore()
	return root.Accept(v)
}

func eq(t *testing.T, name string) nodes.Node {
	t.Helper()
	n, err := nodes.NewComparison(&nodes.ColumnRef{Name: name}, nodes.OpEq, 1)
	if err != nil {
		t.Fatalf("comparison: %v", err)
	}
	return n
}

func TestPredicateParenthesization(t *testing.T) {
	t.Parallel()

	a, b, c := eq(t, "a"), eq(t, "b"), eq(t, "c")

	cases := []struct {
		name string
		root nodes.Node
		want string
	}{
		{
			name: "bare comparison root",
			root: a,
			want: "a = $1",
		},
		{
			name: "two-child AND root unwrapped",
			root: nodes.And(a, b),
			want: "a = $1 AND b = $2",
		},
		{
			name: "two-child OR root unwrapped",
			root: nodes.Or(a, b),
			want: "a = $1 OR b = $2",
		},
		{
			name: "three-child AND root wrapped",
			root: nodes.And(a, b, c),
			want: "(a = $1 AND b = $2 AND c = $3)",
		},
		{
			name: "nested combinator wraps both levels",
			root: nodes.And(nodes.Or(a, b), c),
			want: "((a = $1 OR b = $2) AND c = $3)",
		},
		{
			name: "NOT parenthesizes its child",
			root: nodes.Not(a),
			want: "NOT (a = $1)",
		},
		{
			name: "NOT over a combinator adds one set of parens",
			root: nodes.Not(nodes.And(a, b)),
			want: "NOT (a = $1 AND b = $2)",
		},
		{
			name: "empty conjunction is TRUE",
			root: nodes.And(),
			want: "TRUE",
		},
		{
			name: "empty disjunction is FALSE",
			root: nodes.Or(),
			want: "FALSE",
		},
		{
			name: "non-root empty combinator keeps its identity",
			root: nodes.And(nodes.Or(), a),
			want: "(FALSE AND a = $1)",
		},
		{
			name: "deep nesting",
			root: nodes.Or(nodes.And(a, b), nodes.Not(c)),
			want: "((a = $1 AND b = $2) OR NOT (c = $3))",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := renderPredicate(t, tc.root); got != tc.want {
				t.Errorf("expected:\n  %s\ngot:\n  %s", tc.want, got)
			}
		})
	}
}
