package visitors

import (
	"github.com/goquel/goquel/internal/quoting"
	"github.com/goquel/goquel/nodes"
)

// MySQLVisitor generates MySQL-dialect SQL with ? placeholders.
// Irregular identifiers are quoted with backticks.
type MySQLVisitor struct {
	*baseVisitor
}

// NewMySQLVisitor creates a MySQLVisitor ready for use.
// Parameterized mode is enabled by default.
func NewMySQLVisitor(opts ...Option) *MySQLVisitor {
	v := &MySQLVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:        v,
		quote:        quoting.Backtick,
		placeholder:  func(_ int) string { return "?" },
		parameterize: true,
	}
	v.applyOptions(opts)
	return v
}

// VisitComparison renders ILIKE as LIKE; MySQL's LIKE is already
// case-insensitive under the default collations.
func (v *MySQLVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	if n.Op == nodes.OpILike {
		return n.Left.Accept(v) + " LIKE " + n.Right.Accept(v)
	}
	return v.baseVisitor.VisitComparison(n)
}
