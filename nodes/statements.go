package nodes

import "github.com/goquel/goquel/scope"

// JoinKind represents the type of SQL JOIN.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
)

// String returns the SQL keywords for this join kind.
func (k JoinKind) String() string {
	if k == LeftJoin {
		return "LEFT JOIN"
	}
	return "INNER JOIN"
}

// JoinNode represents one JOIN clause: the joined table and its ON
// predicate.
type JoinNode struct {
	Table scope.TableRef
	Kind  JoinKind
	On    Node
}

// SelectCore is the data container for a SELECT statement snapshot.
// The fluent API for building queries lives in the managers package.
type SelectCore struct {
	From        scope.TableRef
	Projections []*ColumnRef
	Joins       []*JoinNode
	Where       Node // nil when no predicate was ever added
	Groups      []*ColumnRef
	Having      Node
	Orders      []*OrderingNode
	Limit       Node // nil or *ValueNode
	Offset      Node // nil or *ValueNode
	Distinct    bool
}

func (n *SelectCore) Accept(v Visitor) string { return v.VisitSelectCore(n) }

// AssignmentNode represents a column = value pair in SET clauses.
type AssignmentNode struct {
	Column *ColumnRef
	Value  Node
}

func (n *AssignmentNode) Accept(v Visitor) string { return v.VisitAssignment(n) }

// OnConflictAction specifies the action for ON CONFLICT clauses.
type OnConflictAction int

const (
	DoNothing OnConflictAction = iota
	DoUpdate
)

// OnConflictNode represents ON CONFLICT (...) DO NOTHING / DO UPDATE SET ...
type OnConflictNode struct {
	Columns     []*ColumnRef
	Action      OnConflictAction
	Assignments []*AssignmentNode
	Where       Node
}

func (n *OnConflictNode) Accept(v Visitor) string { return v.VisitOnConflict(n) }

// InsertStatement represents INSERT INTO ... VALUES.
type InsertStatement struct {
	Into       scope.TableRef
	Columns    []*ColumnRef
	Rows       [][]Node // rows of *ValueNode
	Returning  []*ColumnRef
	OnConflict *OnConflictNode
}

func (n *InsertStatement) Accept(v Visitor) string { return v.VisitInsertStatement(n) }

// UpdateStatement represents UPDATE ... SET ... WHERE.
type UpdateStatement struct {
	Table       scope.TableRef
	Assignments []*AssignmentNode
	Where       Node
	Returning   []*ColumnRef
}

func (n *UpdateStatement) Accept(v Visitor) string { return v.VisitUpdateStatement(n) }

// DeleteStatement represents DELETE FROM ... WHERE.
type DeleteStatement struct {
	From      scope.TableRef
	Where     Node
	Returning []*ColumnRef
}

func (n *DeleteStatement) Accept(v Visitor) string { return v.VisitDeleteStatement(n) }
