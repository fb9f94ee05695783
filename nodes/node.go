// Package nodes defines the AST node types used to represent SQL query elements.
package nodes

import "errors"

// ErrInvalidOperand is returned when an operator is given an operand of
// the wrong shape: an unknown operator name, a non-sequence value for
// IN, a non-nil value for IS, or a malformed raw fragment.
var ErrInvalidOperand = errors.New("invalid operand")

// Node is the interface that all AST nodes implement. Nodes are
// immutable value objects; construction never performs I/O.
type Node interface {
	Accept(visitor Visitor) string
}

// Visitor defines the interface for walking the AST and producing SQL
// text. Concrete visitors (e.g., Postgres, MySQL) implement this
// interface; each operator family is a closed enum handled exhaustively.
type Visitor interface {
	VisitColumn(node *ColumnRef) string
	VisitValue(node *ValueNode) string
	VisitValueList(node *ValueListNode) string
	VisitComparison(node *ComparisonNode) string
	VisitLogical(node *LogicalNode) string
	VisitNot(node *NotNode) string
	VisitArrayOp(node *ArrayOpNode) string
	VisitJSONBOp(node *JSONBOpNode) string
	VisitRaw(node *RawNode) string
	VisitOrdering(node *OrderingNode) string
	VisitSelectCore(node *SelectCore) string
	VisitInsertStatement(node *InsertStatement) string
	VisitUpdateStatement(node *UpdateStatement) string
	VisitDeleteStatement(node *DeleteStatement) string
	VisitAssignment(node *AssignmentNode) string
	VisitOnConflict(node *OnConflictNode) string
}

// Parameterizer is implemented by visitors that support parameterized
// queries. Callers use type assertion to extract collected parameters
// after SQL generation.
type Parameterizer interface {
	Params() []any
	Reset()
}

// ValueNode wraps a raw Go value destined for the parameter list.
type ValueNode struct {
	Value any
}

func (n *ValueNode) Accept(v Visitor) string { return v.VisitValue(n) }

// NewValue creates a ValueNode. If val already implements Node, it is
// returned as-is.
func NewValue(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	return &ValueNode{Value: val}
}

// ValueListNode holds the operand sequence of an IN / NOT IN predicate.
type ValueListNode struct {
	Values []any
}

func (n *ValueListNode) Accept(v Visitor) string { return v.VisitValueList(n) }
