package managers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/plugins"
	"github.com/goquel/goquel/scope"
)

// SelectManager builds SELECT statements. Every method returns a new
// snapshot layering the change onto the previous one; a query can be
// branched into divergent continuations from a shared prefix.
type SelectManager struct {
	treeManager
	core  nodes.SelectCore
	scope scope.Scope
}

// NewSelectManager starts a SELECT query from a table expression
// ("users" or "users as u").
func NewSelectManager(table string, dialect Dialect) *SelectManager {
	m := &SelectManager{treeManager: newTreeManager(dialect)}
	ref, err := scope.ParseTableExpr(table)
	if err != nil {
		m.err = err
		return m
	}
	s, err := scope.Scope{}.WithTable(ref)
	if err != nil {
		m.err = err
		return m
	}
	m.core.From = ref
	m.scope = s
	return m
}

// clone returns a snapshot copy. Slice headers are re-copied so that
// appends on the new snapshot never leak into the old one; node trees
// are immutable and shared structurally.
func (m *SelectManager) clone() *SelectManager {
	c := &SelectManager{treeManager: m.treeManager.fork(), core: m.core, scope: m.scope}

	c.core.Projections = make([]*nodes.ColumnRef, len(m.core.Projections))
	copy(c.core.Projections, m.core.Projections)

	c.core.Joins = make([]*nodes.JoinNode, len(m.core.Joins))
	copy(c.core.Joins, m.core.Joins)

	c.core.Groups = make([]*nodes.ColumnRef, len(m.core.Groups))
	copy(c.core.Groups, m.core.Groups)

	c.core.Orders = make([]*nodes.OrderingNode, len(m.core.Orders))
	copy(c.core.Orders, m.core.Orders)

	return c
}

// resolveColumn parses and resolves a column expression against the
// query's scope, preserving a SELECT-list rename when allowAlias is set.
func (m *SelectManager) resolveColumn(expr string, allowAlias bool) (*nodes.ColumnRef, error) {
	parsed, err := scope.ParseColumnExpr(expr)
	if err != nil {
		return nil, err
	}
	if parsed.Alias != "" && !allowAlias {
		return nil, fmt.Errorf("%w: column rename not allowed here: %q", scope.ErrMalformedExpression, expr)
	}
	qc, err := m.scope.ResolveColumn(parsed.String())
	if err != nil {
		return nil, err
	}
	return &nodes.ColumnRef{Qualifier: qc.Qualifier, Name: qc.Name, Alias: parsed.Alias}, nil
}

// Select sets the projection list, replacing any existing projections.
// Each entry is a column expression, optionally qualified and
// optionally renamed ("id", "u.name", "name as n"). An empty list
// compiles to SELECT *.
func (m *SelectManager) Select(columns ...string) *SelectManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	projections := make([]*nodes.ColumnRef, 0, len(columns))
	for _, expr := range columns {
		col, err := c.resolveColumn(expr, true)
		if err != nil {
			c.err = err
			return c
		}
		projections = append(projections, col)
	}
	c.core.Projections = projections
	return c
}

// Distinct enables the DISTINCT modifier on the SELECT clause.
func (m *SelectManager) Distinct() *SelectManager {
	c := m.clone()
	c.core.Distinct = true
	return c
}

// InnerJoin adds an INNER JOIN with an equality ON condition between
// two column references, resolved after the joined table enters scope.
func (m *SelectManager) InnerJoin(table, leftColumn, rightColumn string) *SelectManager {
	return m.join(nodes.InnerJoin, table, leftColumn, rightColumn)
}

// LeftJoin adds a LEFT JOIN with an equality ON condition.
func (m *SelectManager) LeftJoin(table, leftColumn, rightColumn string) *SelectManager {
	return m.join(nodes.LeftJoin, table, leftColumn, rightColumn)
}

func (m *SelectManager) join(kind nodes.JoinKind, table, leftColumn, rightColumn string) *SelectManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	ref, err := scope.ParseTableExpr(table)
	if err != nil {
		c.err = err
		return c
	}
	s, err := c.scope.WithTable(ref)
	if err != nil {
		c.err = err
		return c
	}
	c.scope = s

	left, err := c.resolveColumn(leftColumn, false)
	if err != nil {
		c.err = err
		return c
	}
	right, err := c.resolveColumn(rightColumn, false)
	if err != nil {
		c.err = err
		return c
	}
	on := &nodes.ComparisonNode{Left: left, Op: nodes.OpEq, Right: right}
	c.core.Joins = append(c.core.Joins, &nodes.JoinNode{Table: ref, Kind: kind, On: on})
	return c
}

// Where adds a comparison predicate: column op value. Successive Where
// calls are combined with AND; the first call becomes the root of the
// WHERE tree unwrapped.
func (m *SelectManager) Where(column, operator string, value any) *SelectManager {
	return m.WhereFunc(func(eb *nodes.ExprBuilder) nodes.Node {
		return eb.Cmp(column, operator, value)
	})
}

// WhereFunc adds the predicate built by fn, which receives an
// expression builder bound to the query's scope. The builder only
// constructs AST nodes; no SQL runs until the query is compiled.
func (m *SelectManager) WhereFunc(fn func(eb *nodes.ExprBuilder) nodes.Node) *SelectManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	eb := nodes.NewExprBuilder(c.scope)
	cond := fn(eb)
	if err := eb.Err(); err != nil {
		c.err = err
		return c
	}
	if cond == nil {
		c.err = fmt.Errorf("%w: nil predicate", nodes.ErrInvalidOperand)
		return c
	}
	c.core.Where = nodes.MergeWhere(c.core.Where, cond)
	return c
}

// GroupBy appends columns to the GROUP BY clause.
func (m *SelectManager) GroupBy(columns ...string) *SelectManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	for _, expr := range columns {
		col, err := c.resolveColumn(expr, false)
		if err != nil {
			c.err = err
			return c
		}
		c.core.Groups = append(c.core.Groups, col)
	}
	return c
}

// Having adds a comparison predicate to the HAVING clause; calls merge
// with AND like Where.
func (m *SelectManager) Having(column, operator string, value any) *SelectManager {
	return m.HavingFunc(func(eb *nodes.ExprBuilder) nodes.Node {
		return eb.Cmp(column, operator, value)
	})
}

// HavingFunc adds the HAVING predicate built by fn.
func (m *SelectManager) HavingFunc(fn func(eb *nodes.ExprBuilder) nodes.Node) *SelectManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	eb := nodes.NewExprBuilder(c.scope)
	cond := fn(eb)
	if err := eb.Err(); err != nil {
		c.err = err
		return c
	}
	if cond == nil {
		c.err = fmt.Errorf("%w: nil predicate", nodes.ErrInvalidOperand)
		return c
	}
	c.core.Having = nodes.MergeWhere(c.core.Having, cond)
	return c
}

// OrderBy appends one ORDER BY term. Direction is "asc" or "desc",
// case-insensitive; empty means ascending. Multiple calls append
// rather than replace.
func (m *SelectManager) OrderBy(column, direction string) *SelectManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	col, err := c.resolveColumn(column, false)
	if err != nil {
		c.err = err
		return c
	}
	dir, err := parseDirection(direction)
	if err != nil {
		c.err = err
		return c
	}
	c.core.Orders = append(c.core.Orders, &nodes.OrderingNode{Column: col, Direction: dir})
	return c
}

func parseDirection(s string) (nodes.OrderDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return nodes.Asc, nil
	case "desc":
		return nodes.Desc, nil
	default:
		return 0, fmt.Errorf("%w: order direction %q", nodes.ErrInvalidOperand, s)
	}
}

// Limit sets the LIMIT value.
func (m *SelectManager) Limit(n int) *SelectManager {
	c := m.clone()
	c.core.Limit = &nodes.ValueNode{Value: n}
	return c
}

// Offset sets the OFFSET value.
func (m *SelectManager) Offset(n int) *SelectManager {
	c := m.clone()
	c.core.Offset = &nodes.ValueNode{Value: n}
	return c
}

// Use registers a transformer plugin applied at compile time.
func (m *SelectManager) Use(t plugins.Transformer) *SelectManager {
	c := m.clone()
	c.transformers = append(c.transformers, t)
	return c
}

// Err returns the latched construction error, if any.
func (m *SelectManager) Err() error {
	return m.err
}

// generate applies transformers to a copy of the core and renders it.
func (m *SelectManager) generate(v nodes.Visitor) (string, error) {
	core := m.core
	for _, t := range m.transformers {
		next, err := t.TransformSelect(&core)
		if err != nil {
			return "", err
		}
		core = *next
	}
	return core.Accept(v), nil
}

// Compile renders the snapshot into SQL text plus bind parameters.
// The result is memoized per snapshot; repeated calls return the same
// CompiledQuery and are safe from concurrent goroutines.
func (m *SelectManager) Compile() (*CompiledQuery, error) {
	return m.compile(m.generate)
}

// ToSQL compiles the snapshot and returns SQL with its parameters.
func (m *SelectManager) ToSQL() (string, []any, error) {
	compiled, err := m.Compile()
	if err != nil {
		return "", nil, err
	}
	return compiled.SQL, compiled.Parameters, nil
}

// DebugSQL renders the statement with inline literals for logging.
func (m *SelectManager) DebugSQL() (string, error) {
	return m.debugSQL(m.generate)
}

// Query compiles the snapshot and runs it on the given executor,
// propagating rows or failure untouched.
func (m *SelectManager) Query(ctx context.Context, db Queryer) (*sql.Rows, error) {
	compiled, err := m.Compile()
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, compiled.SQL, compiled.Parameters...)
}

// QueryRow compiles the snapshot and runs it expecting a single row.
// Compilation failures are reported here, not deferred to Scan.
func (m *SelectManager) QueryRow(ctx context.Context, db RowQueryer) (*sql.Row, error) {
	compiled, err := m.Compile()
	if err != nil {
		return nil, err
	}
	return db.QueryRowContext(ctx, compiled.SQL, compiled.Parameters...), nil
}
