package visitors

import (
	"github.com/goquel/goquel/internal/quoting"
	"github.com/goquel/goquel/nodes"
)

// SQLiteVisitor generates SQLite-dialect SQL with ? placeholders.
// Irregular identifiers are quoted with double quotes (ANSI SQL).
type SQLiteVisitor struct {
	*baseVisitor
}

// NewSQLiteVisitor creates a SQLiteVisitor ready for use.
// Parameterized mode is enabled by default.
func NewSQLiteVisitor(opts ...Option) *SQLiteVisitor {
	v := &SQLiteVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:        v,
		quote:        quoting.DoubleQuote,
		placeholder:  func(_ int) string { return "?" },
		parameterize: true,
	}
	v.applyOptions(opts)
	return v
}

// VisitComparison renders ILIKE as LIKE; SQLite's LIKE is
// case-insensitive for ASCII by default.
func (v *SQLiteVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	if n.Op == nodes.OpILike {
		return n.Left.Accept(v) + " LIKE " + n.Right.Accept(v)
	}
	return v.baseVisitor.VisitComparison(n)
}
