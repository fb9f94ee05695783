package nodes

// LogicalKind selects the combinator of a LogicalNode.
type LogicalKind int

const (
	KindAnd LogicalKind = iota
	KindOr
)

// LogicalNode represents an AND/OR combinator over zero or more
// children. The empty conjunction compiles to TRUE and the empty
// disjunction to FALSE, the identity elements of each combinator.
type LogicalNode struct {
	Kind     LogicalKind
	Children []Node
}

func (n *LogicalNode) Accept(v Visitor) string { return v.VisitLogical(n) }

// And combines children into a conjunction.
func And(children ...Node) *LogicalNode {
	return &LogicalNode{Kind: KindAnd, Children: children}
}

// Or combines children into a disjunction.
func Or(children ...Node) *LogicalNode {
	return &LogicalNode{Kind: KindOr, Children: children}
}

// NotNode represents a logical negation. Its child is always rendered
// inside parentheses.
type NotNode struct {
	Child Node
}

func (n *NotNode) Accept(v Visitor) string { return v.VisitNot(n) }

// Not negates a predicate.
func Not(child Node) *NotNode {
	return &NotNode{Child: child}
}

// MergeWhere combines an existing WHERE root with an additional
// condition. The first condition becomes the root unwrapped; once the
// root is a conjunction, further conditions are appended to a copy of
// its child list so earlier snapshots keep their tree intact.
func MergeWhere(root, cond Node) Node {
	if root == nil {
		return cond
	}
	if and, ok := root.(*LogicalNode); ok && and.Kind == KindAnd {
		children := make([]Node, len(and.Children), len(and.Children)+1)
		copy(children, and.Children)
		return &LogicalNode{Kind: KindAnd, Children: append(children, cond)}
	}
	return &LogicalNode{Kind: KindAnd, Children: []Node{root, cond}}
}
