package managers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/plugins"
	"github.com/goquel/goquel/scope"
)

// UpdateManager builds UPDATE statements.
type UpdateManager struct {
	treeManager
	stmt  nodes.UpdateStatement
	scope scope.Scope
}

// NewUpdateManager starts an UPDATE targeting the given table.
func NewUpdateManager(table string, dialect Dialect) *UpdateManager {
	m := &UpdateManager{treeManager: newTreeManager(dialect)}
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
	m.stmt.Table = ref
	m.scope = s
	return m
}

func (m *UpdateManager) clone() *UpdateManager {
	c := &UpdateManager{treeManager: m.treeManager.fork(), stmt: m.stmt, scope: m.scope}

	c.stmt.Assignments = make([]*nodes.AssignmentNode, len(m.stmt.Assignments))
	copy(c.stmt.Assignments, m.stmt.Assignments)

	c.stmt.Returning = make([]*nodes.ColumnRef, len(m.stmt.Returning))
	copy(c.stmt.Returning, m.stmt.Returning)

	return c
}

// Set appends one assignment. The target must be a bare column name;
// SET lists never qualify their targets.
func (m *UpdateManager) Set(column string, value any) *UpdateManager {
	c := m.clone()
	if c.err != nil {
		return c
	}
	col, err := bareColumn(column)
	if err != nil {
		c.err = err
		return c
	}
	c.stmt.Assignments = append(c.stmt.Assignments, &nodes.AssignmentNode{
		Column: col,
		Value:  nodes.NewValue(value),
	})
	return c
}

// Where adds a comparison predicate; successive calls merge with AND.
func (m *UpdateManager) Where(column, operator string, value any) *UpdateManager {
	return m.WhereFunc(func(eb *nodes.ExprBuilder) nodes.Node {
		return eb.Cmp(column, operator, value)
	})
}

// WhereFunc adds the predicate built by fn against the update's scope.
func (m *UpdateManager) WhereFunc(fn func(eb *nodes.ExprBuilder) nodes.Node) *UpdateManager {
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
	c.stmt.Where = nodes.MergeWhere(c.stmt.Where, cond)
	return c
}

// Returning sets the RETURNING clause columns.
func (m *UpdateManager) Returning(columns ...string) *UpdateManager {
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

// Use registers a transformer plugin applied at compile time.
func (m *UpdateManager) Use(t plugins.Transformer) *UpdateManager {
	c := m.clone()
	c.transformers = append(c.transformers, t)
	return c
}

// Err returns the latched construction error, if any.
func (m *UpdateManager) Err() error {
	return m.err
}

func (m *UpdateManager) generate(v nodes.Visitor) (string, error) {
	stmt := m.stmt
	for _, t := range m.transformers {
		next, err := t.TransformUpdate(&stmt)
		if err != nil {
			return "", err
		}
		stmt = *next
	}
	if len(stmt.Assignments) == 0 {
		return "", fmt.Errorf("%w: UPDATE requires at least one assignment", nodes.ErrInvalidOperand)
	}
	return stmt.Accept(v), nil
}

// Compile renders the snapshot into SQL text plus bind parameters.
func (m *UpdateManager) Compile() (*CompiledQuery, error) {
	return m.compile(m.generate)
}

// ToSQL compiles the snapshot and returns SQL with its parameters.
func (m *UpdateManager) ToSQL() (string, []any, error) {
	compiled, err := m.Compile()
	if err != nil {
		return "", nil, err
	}
	return compiled.SQL, compiled.Parameters, nil
}

// DebugSQL renders the statement with inline literals for logging.
func (m *UpdateManager) DebugSQL() (string, error) {
	return m.debugSQL(m.generate)
}

// Exec compiles the snapshot and runs it on the given executor.
func (m *UpdateManager) Exec(ctx context.Context, db Execer) (sql.Result, error) {
	compiled, err := m.Compile()
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, compiled.SQL, compiled.Parameters...)
}
