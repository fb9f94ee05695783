// Package visitors provides SQL dialect generators that walk the AST.
package visitors

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goquel/goquel/internal/quoting"
	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/scope"
)

// Operator SQL strings for CompOp values with a right-hand operand.
// IS / IS NOT / IN / NOT IN render through dedicated paths.
var compOpSQL = [...]string{
	nodes.OpEq:    "=",
	nodes.OpNotEq: "!=",
	nodes.OpLt:    "<",
	nodes.OpLtEq:  "<=",
	nodes.OpGt:    ">",
	nodes.OpGtEq:  ">=",
	nodes.OpLike:  "LIKE",
	nodes.OpILike: "ILIKE",
}

// Operator SQL strings for array containment kinds.
var arrayOpSQL = [...]string{
	nodes.ArrayContains:    "@>",
	nodes.ArrayContainedBy: "<@",
	nodes.ArrayOverlaps:    "&&",
}

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithParams enables parameterized query mode (the default): values are
// replaced with bind placeholders and collected for separate retrieval.
func WithParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = true
	}
}

// WithoutParams disables parameterized query mode.
//
// When disabled, values are interpolated into the SQL string with basic
// escaping only. Intended for debugging output; production code should
// keep parameterized mode for all user-provided values.
func WithoutParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = false
	}
}

// WithQuotedIdents quotes every identifier in the dialect's quoting
// style. By default identifiers that are plain words render bare and
// only irregular identifiers are quoted.
func WithQuotedIdents() Option {
	return func(b *baseVisitor) {
		b.quoteAll = true
	}
}

// baseVisitor implements the shared SQL generation logic used by all
// dialects. Dialect-specific visitors embed *baseVisitor and set the
// outer field to themselves, enabling correct virtual dispatch through
// the Visitor interface.
type baseVisitor struct {
	// outer is the concrete dialect visitor. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer nodes.Visitor

	// quote quotes a SQL identifier in the dialect's style.
	quote func(string) string

	// quoteAll forces quoting of every identifier, not just irregular ones.
	quoteAll bool

	// parameterize enables bind-parameter mode.
	parameterize bool

	// params accumulates bind parameter values during SQL generation.
	params []any

	// paramIndex tracks the next parameter number (1-based).
	paramIndex int

	// placeholder returns the bind placeholder for a parameter index.
	// PostgreSQL uses $1, $2; MySQL/SQLite use ?.
	placeholder func(int) string

	// predicateRoot is the root node of the predicate currently being
	// rendered (WHERE or HAVING). The parenthesization policy treats
	// the root logical combinator specially.
	predicateRoot nodes.Node
}

// applyOptions applies functional options to the baseVisitor.
func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

// Params returns the collected bind parameters from the last SQL generation.
func (b *baseVisitor) Params() []any {
	return b.params
}

// Reset clears collected parameters for reuse.
func (b *baseVisitor) Reset() {
	b.params = nil
	b.paramIndex = 0
	b.predicateRoot = nil
}

// ident renders an identifier: bare when it is a plain word, quoted
// otherwise. A name that is empty after parsing is a programmer error
// upstream; rendering it quoted keeps the output syntactically visible.
func (b *baseVisitor) ident(s string) string {
	if !b.quoteAll && scope.ValidIdent(s) {
		return s
	}
	return b.quote(s)
}

// bind emits the next placeholder for val and records it, or renders
// the inline literal when parameterization is off.
func (b *baseVisitor) bind(val any) string {
	if b.parameterize {
		b.paramIndex++
		b.params = append(b.params, val)
		return b.placeholder(b.paramIndex)
	}
	return b.literalToSQL(val)
}

func (b *baseVisitor) literalToSQL(val any) string {
	if val == nil {
		return "NULL"
	}
	switch v := val.(type) {
	case string:
		return "'" + quoting.EscapeString(v) + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	default:
		panic(fmt.Sprintf("goquel: unsupported literal type %T", v))
	}
}

func (b *baseVisitor) VisitColumn(n *nodes.ColumnRef) string {
	if n.Qualifier == "" {
		return b.ident(n.Name)
	}
	return b.ident(n.Qualifier) + "." + b.ident(n.Name)
}

func (b *baseVisitor) VisitValue(n *nodes.ValueNode) string {
	if n.Value == nil {
		return "NULL"
	}
	return b.bind(n.Value)
}

func (b *baseVisitor) VisitValueList(n *nodes.ValueListNode) string {
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = b.bind(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (b *baseVisitor) VisitComparison(n *nodes.ComparisonNode) string {
	left := n.Left.Accept(b.outer)
	switch n.Op {
	case nodes.OpIs:
		return left + " IS NULL"
	case nodes.OpIsNot:
		return left + " IS NOT NULL"
	case nodes.OpIn:
		return left + " IN " + n.Right.Accept(b.outer)
	case nodes.OpNotIn:
		return left + " NOT IN " + n.Right.Accept(b.outer)
	case nodes.OpEq, nodes.OpNotEq, nodes.OpLt, nodes.OpLtEq,
		nodes.OpGt, nodes.OpGtEq, nodes.OpLike, nodes.OpILike:
		return left + " " + compOpSQL[n.Op] + " " + n.Right.Accept(b.outer)
	default:
		panic(fmt.Sprintf("goquel: unhandled comparison operator %d", n.Op))
	}
}

// VisitLogical renders an AND/OR combinator under the parenthesization
// policy: the empty conjunction/disjunction renders its identity
// element; a combinator with more than two children, or one that is not
// the root of its predicate, is wrapped; a two-child root is wrapped
// only when one of its children is itself a combinator.
func (b *baseVisitor) VisitLogical(n *nodes.LogicalNode) string {
	isRoot := nodes.Node(n) == b.predicateRoot

	if len(n.Children) == 0 {
		if n.Kind == nodes.KindAnd {
			return "TRUE"
		}
		return "FALSE"
	}

	sep := " AND "
	if n.Kind == nodes.KindOr {
		sep = " OR "
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.Accept(b.outer)
	}
	joined := strings.Join(parts, sep)

	wrap := len(n.Children) > 2 || !isRoot
	if !wrap && len(n.Children) == 2 {
		for _, c := range n.Children {
			if _, ok := c.(*nodes.LogicalNode); ok {
				wrap = true
				break
			}
		}
	}
	if wrap {
		return "(" + joined + ")"
	}
	return joined
}

// VisitNot renders NOT (child). The surrounding parentheses come from
// the NOT itself, so the child is rendered as if it were a predicate
// root to avoid doubled wrapping.
func (b *baseVisitor) VisitNot(n *nodes.NotNode) string {
	saved := b.predicateRoot
	b.predicateRoot = n.Child
	inner := n.Child.Accept(b.outer)
	b.predicateRoot = saved
	return "NOT (" + inner + ")"
}

func (b *baseVisitor) VisitArrayOp(n *nodes.ArrayOpNode) string {
	col := n.Column.Accept(b.outer)
	switch n.Kind {
	case nodes.ArrayContains, nodes.ArrayContainedBy, nodes.ArrayOverlaps:
		return col + " " + arrayOpSQL[n.Kind] + " " + b.arrayLiteral(n)
	case nodes.ArrayHasAny:
		return b.bind(n.Elem) + " = ANY(" + col + ")"
	case nodes.ArrayHasAll:
		return b.bind(n.Elem) + " = ALL(" + col + ")"
	default:
		panic(fmt.Sprintf("goquel: unhandled array operator %d", n.Kind))
	}
}

// arrayLiteral renders ARRAY[$n, ...]. The empty operand list renders a
// typed empty array so the statement stays well-formed; its semantics
// (contains matches all rows, overlaps matches none) belong to the
// backend and are not special-cased here.
func (b *baseVisitor) arrayLiteral(n *nodes.ArrayOpNode) string {
	if len(n.Elems) == 0 {
		typeName := n.ElemType()
		validateSQLTypeName(typeName)
		return "ARRAY[]::" + typeName + "[]"
	}
	parts := make([]string, len(n.Elems))
	for i, e := range n.Elems {
		parts[i] = b.bind(e)
	}
	return "ARRAY[" + strings.Join(parts, ", ") + "]"
}

func (b *baseVisitor) VisitJSONBOp(n *nodes.JSONBOpNode) string {
	col := n.Column.Accept(b.outer)
	switch n.Kind {
	case nodes.JSONBContains:
		return col + " @> " + b.bind(jsonOperand(n.Operand))
	case nodes.JSONBContainedBy:
		return col + " <@ " + b.bind(jsonOperand(n.Operand))
	case nodes.JSONBHasKey:
		return col + " ? " + keyLiteral(n.Path[0])
	case nodes.JSONBHasAnyKey:
		return col + " ?| ARRAY[" + keyList(n.Path) + "]"
	case nodes.JSONBHasAllKeys:
		return col + " ?& ARRAY[" + keyList(n.Path) + "]"
	case nodes.JSONBFieldEquals:
		return b.jsonbExtractText(col, n.Path) + " = " + b.bind(n.Operand)
	case nodes.JSONBFieldExists:
		if len(n.Path) == 1 {
			return col + " ? " + keyLiteral(n.Path[0])
		}
		return col + " #> " + pathLiteral(n.Path) + " IS NOT NULL"
	case nodes.JSONBFieldIsNull:
		return b.jsonbExtractText(col, n.Path) + " IS NULL"
	default:
		panic(fmt.Sprintf("goquel: unhandled jsonb operator %d", n.Kind))
	}
}

// jsonbExtractText renders the text-form extraction of a field or path.
func (b *baseVisitor) jsonbExtractText(col string, path []string) string {
	if len(path) == 1 {
		return col + "->>" + keyLiteral(path[0])
	}
	return col + " #>> " + pathLiteral(path)
}

// jsonOperand serializes a containment operand to its JSON text form.
// Strings are passed through as pre-serialized JSON.
func jsonOperand(doc any) any {
	if s, ok := doc.(string); ok {
		return s
	}
	out, err := json.Marshal(doc)
	if err != nil {
		panic(fmt.Sprintf("goquel: unserializable jsonb operand: %v", err))
	}
	return string(out)
}

func keyLiteral(key string) string {
	return "'" + quoting.EscapeString(key) + "'"
}

func keyList(keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = keyLiteral(k)
	}
	return strings.Join(parts, ", ")
}

func pathLiteral(path []string) string {
	return "'{" + quoting.EscapeString(strings.Join(path, ",")) + "}'"
}

// VisitRaw splices a raw fragment. The base behavior emits the fragment
// verbatim and appends its binds in order; the Postgres visitor
// overrides this to renumber $N placeholders into the surrounding
// positional sequence.
func (b *baseVisitor) VisitRaw(n *nodes.RawNode) string {
	if b.parameterize && len(n.Params) > 0 {
		b.params = append(b.params, n.Params...)
		b.paramIndex += len(n.Params)
	}
	return n.SQL
}

func (b *baseVisitor) VisitOrdering(n *nodes.OrderingNode) string {
	return n.Column.Accept(b.outer) + " " + n.Direction.String()
}

// renderTableRef renders "name" or "name AS alias"; AS is always
// uppercase and surrounded by single spaces regardless of the source
// expression's spelling.
func (b *baseVisitor) renderTableRef(ref scope.TableRef) string {
	if ref.Alias == "" {
		return b.ident(ref.Name)
	}
	return b.ident(ref.Name) + " AS " + b.ident(ref.Alias)
}

func (b *baseVisitor) VisitSelectCore(n *nodes.SelectCore) string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	b.writeProjections(&sb, n.Projections)
	sb.WriteString(" FROM ")
	sb.WriteString(b.renderTableRef(n.From))
	for _, j := range n.Joins {
		sb.WriteString(" ")
		sb.WriteString(j.Kind.String())
		sb.WriteString(" ")
		sb.WriteString(b.renderTableRef(j.Table))
		if j.On != nil {
			sb.WriteString(" ON ")
			sb.WriteString(j.On.Accept(b.outer))
		}
	}
	b.writePredicate(&sb, " WHERE ", n.Where)
	b.writeColumnClause(&sb, " GROUP BY ", n.Groups)
	b.writePredicate(&sb, " HAVING ", n.Having)
	if len(n.Orders) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, o := range n.Orders {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(o.Accept(b.outer))
		}
	}
	b.writeNodeClause(&sb, " LIMIT ", n.Limit)
	b.writeNodeClause(&sb, " OFFSET ", n.Offset)

	return sb.String()
}

// writeProjections renders the SELECT list, or * when it is empty.
// A column rename ("col as alias") renders here and nowhere else.
func (b *baseVisitor) writeProjections(sb *strings.Builder, projections []*nodes.ColumnRef) {
	if len(projections) == 0 {
		sb.WriteString("*")
		return
	}
	for i, p := range projections {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Accept(b.outer))
		if p.Alias != "" {
			sb.WriteString(" AS ")
			sb.WriteString(b.ident(p.Alias))
		}
	}
}

// setPredicateRoot marks the root of the predicate being rendered and
// returns a func restoring the previous root. Used by the formatting
// wrapper, which assembles clauses itself.
func (b *baseVisitor) setPredicateRoot(n nodes.Node) func() {
	saved := b.predicateRoot
	b.predicateRoot = n
	return func() { b.predicateRoot = saved }
}

// writePredicate renders a WHERE/HAVING clause, marking its root for
// the parenthesization policy. The clause is omitted entirely when no
// predicate was ever added.
func (b *baseVisitor) writePredicate(sb *strings.Builder, keyword string, root nodes.Node) {
	if root == nil {
		return
	}
	saved := b.predicateRoot
	b.predicateRoot = root
	sb.WriteString(keyword)
	sb.WriteString(root.Accept(b.outer))
	b.predicateRoot = saved
}

func (b *baseVisitor) writeColumnClause(sb *strings.Builder, keyword string, cols []*nodes.ColumnRef) {
	if len(cols) == 0 {
		return
	}
	sb.WriteString(keyword)
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Accept(b.outer))
	}
}

// writeNodeClause writes "keyword node" if node is non-nil.
func (b *baseVisitor) writeNodeClause(sb *strings.Builder, keyword string, n nodes.Node) {
	if n != nil {
		sb.WriteString(keyword)
		sb.WriteString(n.Accept(b.outer))
	}
}

func (b *baseVisitor) VisitInsertStatement(n *nodes.InsertStatement) string {
	var sb strings.Builder

	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.renderTableRef(n.Into))

	if len(n.Columns) > 0 {
		sb.WriteString(" (")
		for i, c := range n.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(b.ident(c.Name))
		}
		sb.WriteString(")")
	}

	if len(n.Rows) > 0 {
		sb.WriteString(" VALUES ")
		for i, row := range n.Rows {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(")
			for j, v := range row {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(v.Accept(b.outer))
			}
			sb.WriteString(")")
		}
	}

	if n.OnConflict != nil {
		sb.WriteString(" ")
		sb.WriteString(n.OnConflict.Accept(b.outer))
	}
	b.writeReturning(&sb, n.Returning)

	return sb.String()
}

func (b *baseVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) string {
	var sb strings.Builder

	sb.WriteString("UPDATE ")
	sb.WriteString(b.renderTableRef(n.Table))

	if len(n.Assignments) > 0 {
		sb.WriteString(" SET ")
		for i, a := range n.Assignments {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.Accept(b.outer))
		}
	}
	b.writePredicate(&sb, " WHERE ", n.Where)
	b.writeReturning(&sb, n.Returning)

	return sb.String()
}

func (b *baseVisitor) VisitDeleteStatement(n *nodes.DeleteStatement) string {
	var sb strings.Builder

	sb.WriteString("DELETE FROM ")
	sb.WriteString(b.renderTableRef(n.From))
	b.writePredicate(&sb, " WHERE ", n.Where)
	b.writeReturning(&sb, n.Returning)

	return sb.String()
}

func (b *baseVisitor) VisitAssignment(n *nodes.AssignmentNode) string {
	return b.ident(n.Column.Name) + " = " + n.Value.Accept(b.outer)
}

func (b *baseVisitor) VisitOnConflict(n *nodes.OnConflictNode) string {
	var sb strings.Builder

	sb.WriteString("ON CONFLICT")
	if len(n.Columns) > 0 {
		sb.WriteString(" (")
		for i, c := range n.Columns {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(b.ident(c.Name))
		}
		sb.WriteString(")")
	}

	if n.Action == nodes.DoNothing {
		sb.WriteString(" DO NOTHING")
		return sb.String()
	}

	sb.WriteString(" DO UPDATE SET ")
	for i, a := range n.Assignments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.Accept(b.outer))
	}
	b.writePredicate(&sb, " WHERE ", n.Where)
	return sb.String()
}

func (b *baseVisitor) writeReturning(sb *strings.Builder, cols []*nodes.ColumnRef) {
	if len(cols) == 0 {
		return
	}
	sb.WriteString(" RETURNING ")
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Accept(b.outer))
	}
}

// validateSQLTypeName panics if the type name contains characters
// outside the set of letters, digits, spaces, parentheses, commas and
// underscores. This prevents SQL injection through crafted type names.
func validateSQLTypeName(name string) {
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			(c < '0' || c > '9') && c != ' ' && c != '(' &&
			c != ')' && c != ',' && c != '_' {
			panic(fmt.Sprintf("goquel: invalid SQL type name character %q in %q", string(c), name))
		}
	}
}
