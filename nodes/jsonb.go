package nodes

// JSONBOpKind selects the operator of a JSONBOpNode.
type JSONBOpKind int

const (
	JSONBContains    JSONBOpKind = iota // col @> $n
	JSONBContainedBy                    // col <@ $n
	JSONBHasKey                         // col ? 'k'
	JSONBHasAnyKey                      // col ?| ARRAY[...]
	JSONBHasAllKeys                     // col ?& ARRAY[...]
	JSONBFieldEquals                    // col->>'k' = $n / col#>>'{a,b}' = $n
	JSONBFieldExists                    // col ? 'k' / col#>'{a,b}' IS NOT NULL
	JSONBFieldIsNull                    // col->>'k' IS NULL / col#>>'{a,b}' IS NULL
)

// JSONBOpNode represents a predicate over a document-typed column.
// Path holds the key(s) addressed by key-existence and field/path
// operators; Operand holds the containment document or the field
// comparison value. Each node contributes at most one parameter.
type JSONBOpNode struct {
	Column  *ColumnRef
	Kind    JSONBOpKind
	Path    []string
	Operand any
}

func (n *JSONBOpNode) Accept(v Visitor) string { return v.VisitJSONBOp(n) }
