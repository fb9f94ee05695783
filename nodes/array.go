package nodes

// ArrayOpKind selects the array operator of an ArrayOpNode.
type ArrayOpKind int

const (
	ArrayContains    ArrayOpKind = iota // col @> ARRAY[...]
	ArrayContainedBy                    // col <@ ARRAY[...]
	ArrayOverlaps                       // col && ARRAY[...]
	ArrayHasAny                         // $n = ANY(col)
	ArrayHasAll                         // $n = ALL(col)
)

// ArrayOpNode represents a predicate over an array-typed column.
// Elems carries the operand list for Contains/ContainedBy/Overlaps;
// Elem carries the single operand for HasAny/HasAll. An empty Elems
// list is legal and renders a typed empty array literal.
type ArrayOpNode struct {
	Column *ColumnRef
	Kind   ArrayOpKind
	Elems  []any
	Elem   any
}

func (n *ArrayOpNode) Accept(v Visitor) string { return v.VisitArrayOp(n) }

// ElemType returns the declared element type of the column, used for
// the cast on empty array literals. Defaults to text.
func (n *ArrayOpNode) ElemType() string {
	if n.Column != nil && n.Column.TypeName != "" {
		return n.Column.TypeName
	}
	return "text"
}
