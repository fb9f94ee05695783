package nodes

// RawNode represents a caller-supplied SQL fragment spliced into the
// compiled output verbatim. Placeholders inside the fragment are
// written $1-relative to the fragment itself; the compiler renumbers
// them to fit the surrounding positional sequence.
//
// SECURITY: the SQL field is rendered directly into the output without
// escaping. Never pass user-controlled input as the fragment text; use
// the parameter list for all values.
type RawNode struct {
	SQL    string
	Params []any
}

func (n *RawNode) Accept(v Visitor) string { return v.VisitRaw(n) }

// NewRaw creates a RawNode with its own parameter list.
func NewRaw(sql string, params ...any) *RawNode {
	return &RawNode{SQL: sql, Params: params}
}
