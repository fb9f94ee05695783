package nodes

// ColumnRef is a resolved reference to a column: an optional qualifier
// (table name or alias), the column name, an optional output rename
// (SELECT list only), and an optional declared SQL type used by typed
// array operations.
type ColumnRef struct {
	Qualifier string
	Name      string
	Alias     string
	TypeName  string
}

func (n *ColumnRef) Accept(v Visitor) string { return v.VisitColumn(n) }

// Typed returns a copy of the reference carrying a declared element
// type for array casts.
func (n *ColumnRef) Typed(typeName string) *ColumnRef {
	c := *n
	c.TypeName = typeName
	return &c
}

// OrderDirection is the sort direction of an ORDER BY term.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// String returns the SQL keyword for the direction.
func (d OrderDirection) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// OrderingNode is one ORDER BY term: a column and its direction.
type OrderingNode struct {
	Column    *ColumnRef
	Direction OrderDirection
}

func (n *OrderingNode) Accept(v Visitor) string { return v.VisitOrdering(n) }
