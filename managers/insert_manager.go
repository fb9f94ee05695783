package managers

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/plugins"
	"github.com/goquel/goquel/scope"
)

// InsertManager builds INSERT statements. Like SelectManager, every
// method returns a new snapshot.
type InsertManager struct {
	treeManager
	stmt  nodes.InsertStatement
	scope scope.Scope
}

// NewInsertManager starts an INSERT targeting the given table.
func NewInsertManager(table string, dialect Dialect) *InsertManager {
	m := &InsertManager{treeManager: newTreeManager(dialect)}
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
	m.stmt.Into = ref
	m.scope = s
	return m
}

func (m *InsertManager) clone() *InsertManager {
	c := &InsertManager{treeManager: m.treeManager.fork(), stmt: m.stmt, scope: m.scope}

	c.stmt.Columns = make([]*nodes.ColumnRef, len(m.stmt.Columns))
	copy(c.stmt.Columns, m.stmt.Columns)

	c.stmt.Rows = make([][]nodes.Node, len(m.stmt.Rows))
	copy(c.stmt.Rows, m.stmt.Rows)

	c.stmt.Returning = make([]*nodes.ColumnRef, len(m.stmt.Returning))
	copy(c.stmt.Returning, m.stmt.Returning)

	return c
}

// bareColumn parses a column name that must be unqualified and
// unrenamed (INSERT column lists and SET targets).
func bareColumn(expr string) (*nodes.ColumnRef, error) {
	parsed, err := scope.ParseColumnExpr(expr)
	if err != nil {
		return nil, err
	}
	if parsed.Qualifier != "" || parsed.Alias != "" {
		return nil, fmt.Errorf("%w: expected a bare column name, got %q", scope.ErrMalformedExpression, expr)
	}
	return &nodes.ColumnRef{Name: parsed.Name}, nil
}

// Columns sets the column list, replacing any existing one.
func (m *InsertManager) Columns(columns ...string) *InsertManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	cols := make([]*nodes.ColumnRef, 0, len(columns))
	for _, expr := range columns {
		col, err := bareColumn(expr)
		if err != nil {
			c.err = err
			return c
		}
		cols = append(cols, col)
	}
	c.stmt.Columns = cols
	return c
}

// Values appends one row of values. The arity must match the column
// list when one was given.
func (m *InsertManager) Values(values ...any) *InsertManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	if len(c.stmt.Columns) > 0 && len(values) != len(c.stmt.Columns) {
		c.err = fmt.Errorf("%w: %d values for %d columns", nodes.ErrInvalidOperand, len(values), len(c.stmt.Columns))
		return c
	}
	row := make([]nodes.Node, len(values))
	for i, v := range values {
		row[i] = nodes.NewValue(v)
	}
	c.stmt.Rows = append(c.stmt.Rows, row)
	return c
}

// Returning sets the RETURNING clause columns.
func (m *InsertManager) Returning(columns ...string) *InsertManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	cols := make([]*nodes.ColumnRef, 0, len(columns))
	for _, expr := range columns {
		col, err := bareColumn(expr)
		if err != nil {
			c.err = err
			return c
		}
		cols = append(cols, col)
	}
	c.stmt.Returning = cols
	return c
}

// OnConflict begins an ON CONFLICT clause targeting the given columns.
// The returned context selects the action.
func (m *InsertManager) OnConflict(columns ...string) *OnConflictContext {
	c := m.clone()
	node := &nodes.OnConflictNode{}
	for _, expr := range columns {
		col, err := bareColumn(expr)
		if err != nil {
			if c.err == nil {
				c.err = err
			}
			break
		}
		node.Columns = append(node.Columns, col)
	}
	c.stmt.OnConflict = node
	return &OnConflictContext{manager: c, node: node}
}

// OnConflictContext guides ON CONFLICT clause construction. Each
// action method derives a fresh snapshot, so a retained context can
// select actions repeatedly without touching managers it already
// returned.
type OnConflictContext struct {
	manager *InsertManager
	node    *nodes.OnConflictNode
}

// DoNothing sets the action to DO NOTHING.
func (c *OnConflictContext) DoNothing() *InsertManager {
	m := c.manager.clone()
	node := *c.node
	node.Action = nodes.DoNothing
	m.stmt.OnConflict = &node
	return m
}

// DoUpdate sets the action to DO UPDATE with the given assignments.
// Columns are rendered in sorted order so compilation stays
// deterministic.
func (c *OnConflictContext) DoUpdate(set map[string]any) *InsertManager {
	m := c.manager.clone()
	node := *c.node
	node.Action = nodes.DoUpdate
	node.Assignments = nil
	m.stmt.OnConflict = &node
	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, expr := range cols {
		col, err := bareColumn(expr)
		if err != nil {
			if m.err == nil {
				m.err = err
			}
			return m
		}
		node.Assignments = append(node.Assignments, &nodes.AssignmentNode{
			Column: col,
			Value:  nodes.NewValue(set[expr]),
		})
	}
	return m
}

// Use registers a transformer plugin applied at compile time.
func (m *InsertManager) Use(t plugins.Transformer) *InsertManager {
	c := m.clone()
	c.transformers = append(c.transformers, t)
	return c
}

// Err returns the latched construction error, if any.
func (m *InsertManager) Err() error {
	return m.err
}

func (m *InsertManager) generate(v nodes.Visitor) (string, error) {
	stmt := m.stmt
	for _, t := range m.transformers {
		next, err := t.TransformInsert(&stmt)
		if err != nil {
			return "", err
		}
		stmt = *next
	}
	if len(stmt.Rows) == 0 {
		return "", fmt.Errorf("%w: INSERT requires at least one row", nodes.ErrInvalidOperand)
	}
	return stmt.Accept(v), nil
}

// Compile renders the snapshot into SQL text plus bind parameters.
func (m *InsertManager) Compile() (*CompiledQuery, error) {
	return m.compile(m.generate)
}

// ToSQL compiles the snapshot and returns SQL with its parameters.
func (m *InsertManager) ToSQL() (string, []any, error) {
	compiled, err := m.Compile()
	if err != nil {
		return "", nil, err
	}
	return compiled.SQL, compiled.Parameters, nil
}

// DebugSQL renders the statement with inline literals for logging.
func (m *InsertManager) DebugSQL() (string, error) {
	return m.debugSQL(m.generate)
}

// Exec compiles the snapshot and runs it on the given executor.
func (m *InsertManager) Exec(ctx context.Context, db Execer) (sql.Result, error) {
	compiled, err := m.Compile()
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, compiled.SQL, compiled.Parameters...)
}
