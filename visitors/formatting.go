package visitors

import (
	"strings"

	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/scope"
)

// FormattingVisitor wraps a dialect visitor and produces human-readable
// multi-line SQL: each major clause of a statement renders on its own
// line. Expression-level nodes delegate to the wrapped visitor, so
// placeholders, quoting and parameter collection behave exactly as in
// the single-line output.
type FormattingVisitor struct {
	inner nodes.Visitor
}

var _ nodes.Visitor = (*FormattingVisitor)(nil)
var _ nodes.Parameterizer = (*FormattingVisitor)(nil)

// tableRenderer is satisfied by the dialect visitors in this package.
type tableRenderer interface {
	renderTableRef(scope.TableRef) string
	setPredicateRoot(nodes.Node) func()
}

// NewFormattingVisitor constructs a FormattingVisitor wrapping the
// given dialect visitor.
func NewFormattingVisitor(inner nodes.Visitor) *FormattingVisitor {
	if inner == nil {
		panic("goquel: FormattingVisitor requires a non-nil inner visitor")
	}
	return &FormattingVisitor{inner: inner}
}

// Params delegates to the inner visitor if it collects parameters.
func (f *FormattingVisitor) Params() []any {
	if p, ok := f.inner.(nodes.Parameterizer); ok {
		return p.Params()
	}
	return nil
}

// Reset delegates to the inner visitor if it collects parameters.
func (f *FormattingVisitor) Reset() {
	if p, ok := f.inner.(nodes.Parameterizer); ok {
		p.Reset()
	}
}

func (f *FormattingVisitor) VisitColumn(n *nodes.ColumnRef) string { return f.inner.VisitColumn(n) }
func (f *FormattingVisitor) VisitValue(n *nodes.ValueNode) string  { return f.inner.VisitValue(n) }
func (f *FormattingVisitor) VisitValueList(n *nodes.ValueListNode) string {
	return f.inner.VisitValueList(n)
}
func (f *FormattingVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	return f.inner.VisitComparison(n)
}
func (f *FormattingVisitor) VisitLogical(n *nodes.LogicalNode) string {
	return f.inner.VisitLogical(n)
}
func (f *FormattingVisitor) VisitNot(n *nodes.NotNode) string { return f.inner.VisitNot(n) }
func (f *FormattingVisitor) VisitArrayOp(n *nodes.ArrayOpNode) string {
	return f.inner.VisitArrayOp(n)
}
func (f *FormattingVisitor) VisitJSONBOp(n *nodes.JSONBOpNode) string {
	return f.inner.VisitJSONBOp(n)
}
func (f *FormattingVisitor) VisitRaw(n *nodes.RawNode) string { return f.inner.VisitRaw(n) }
func (f *FormattingVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	return f.inner.VisitOrdering(n)
}
func (f *FormattingVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	return f.inner.VisitAssignment(n)
}
func (f *FormattingVisitor) VisitOnConflict(n *nodes.OnConflictNode) string {
	return f.inner.VisitOnConflict(n)
}

func (f *FormattingVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	tr := f.inner.(tableRenderer)
	var lines []string

	head := "SELECT "
	if n.Distinct {
		head += "DISTINCT "
	}
	if len(n.Projections) == 0 {
		head += "*"
	} else {
		parts := make([]string, len(n.Projections))
		for i, p := range n.Projections {
			parts[i] = p.Accept(f)
			if p.Alias != "" {
				parts[i] += " AS " + p.Alias
			}
		}
		head += strings.Join(parts, ", ")
	}
	lines = append(lines, head)
	lines = append(lines, "FROM "+tr.renderTableRef(n.From))

	for _, j := range n.Joins {
		line := j.Kind.String() + " " + tr.renderTableRef(j.Table)
		if j.On != nil {
			line += " ON " + j.On.Accept(f)
		}
		lines = append(lines, line)
	}
	lines = f.appendPredicate(lines, "WHERE ", n.Where)
	if len(n.Groups) > 0 {
		parts := make([]string, len(n.Groups))
		for i, g := range n.Groups {
			parts[i] = g.Accept(f)
		}
		lines = append(lines, "GROUP BY "+strings.Join(parts, ", "))
	}
	lines = f.appendPredicate(lines, "HAVING ", n.Having)
	if len(n.Orders) > 0 {
		parts := make([]string, len(n.Orders))
		for i, o := range n.Orders {
			parts[i] = o.Accept(f)
		}
		lines = append(lines, "ORDER BY "+strings.Join(parts, ", "))
	}
	if n.Limit != nil {
		lines = append(lines, "LIMIT "+n.Limit.Accept(f))
	}
	if n.Offset != nil {
		lines = append(lines, "OFFSET "+n.Offset.Accept(f))
	}

	return strings.Join(lines, "\n")
}

// appendPredicate renders a predicate clause on its own line, keeping
// the inner visitor's root-aware parenthesization intact.
func (f *FormattingVisitor) appendPredicate(lines []string, keyword string, root nodes.Node) []string {
	if root == nil {
		return lines
	}
	restore := f.inner.(tableRenderer).setPredicateRoot(root)
	defer restore()
	return append(lines, keyword+root.Accept(f))
}

func (f *FormattingVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	tr := f.inner.(tableRenderer)
	var lines []string

	head := "INSERT INTO " + tr.renderTableRef(n.Into)
	if len(n.Columns) > 0 {
		parts := make([]string, len(n.Columns))
		for i, c := range n.Columns {
			parts[i] = c.Name
		}
		head += " (" + strings.Join(parts, ", ") + ")"
	}
	lines = append(lines, head)

	if len(n.Rows) > 0 {
		rows := make([]string, len(n.Rows))
		for i, row := range n.Rows {
			vals := make([]string, len(row))
			for j, v := range row {
				vals[j] = v.Accept(f)
			}
			rows[i] = "(" + strings.Join(vals, ", ") + ")"
		}
		lines = append(lines, "VALUES "+strings.Join(rows, ", "))
	}
	if n.OnConflict != nil {
		lines = append(lines, n.OnConflict.Accept(f))
	}
	lines = f.appendReturning(lines, n.Returning)

	return strings.Join(lines, "\n")
}

func (f *FormattingVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	tr := f.inner.(tableRenderer)
	lines := []string{"UPDATE " + tr.renderTableRef(n.Table)}

	if len(n.Assignments) > 0 {
		parts := make([]string, len(n.Assignments))
		for i, a := range n.Assignments {
			parts[i] = a.Accept(f)
		}
		lines = append(lines, "SET "+strings.Join(parts, ", "))
	}
	lines = f.appendPredicate(lines, "WHERE ", n.Where)
	lines = f.appendReturning(lines, n.Returning)

	return strings.Join(lines, "\n")
}

func (f *FormattingVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	tr := f.inner.(tableRenderer)
	lines := []string{"DELETE FROM " + tr.renderTableRef(n.From)}
	lines = f.appendPredicate(lines, "WHERE ", n.Where)
	lines = f.appendReturning(lines, n.Returning)
	return strings.Join(lines, "\n")
}

func (f *FormattingVisitor) appendReturning(lines []string, cols []*nodes.ColumnRef) []string {
	if len(cols) == 0 {
		return lines
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.Accept(f)
	}
	return append(lines, "RETURNING "+strings.Join(parts, ", "))
}
