package managers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/plugins"
	"github.com/goquel/goquel/scope"
)

// DeleteManager builds DELETE statements.
type DeleteManager struct {
	treeManager
	stmt  nodes.DeleteStatement
	scope scope.Scope
}

// NewDeleteManager starts a DELETE targeting the given table.
func NewDeleteManager(table string, dialect Dialect) *DeleteManager {
	m := &DeleteManager{treeManager: newTreeManager(dialect)}
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
	m.stmt.From = ref
	m.scope = s
	return m
}

func (m *DeleteManager) clone() *DeleteManager {
	c := &DeleteManager{treeManager: m.treeManager.fork(), stmt: m.stmt, scope: m.scope}

	c.stmt.Returning = make([]*nodes.ColumnRef, len(m.stmt.Returning))
	copy(c.stmt.Returning, m.stmt.Returning)

	return c
}

// Where adds a comparison predicate; successive calls merge with AND.
func (m *DeleteManager) Where(column, operator string, value any) *DeleteManager {
	return m.WhereFunc(func(eb *nodes.ExprBuilder) nodes.Node {
		return eb.Cmp(column, operator, value)
	})
}

// WhereFunc adds the predicate built by fn against the delete's scope.
func (m *DeleteManager) WhereFunc(fn func(eb *nodes.ExprBuilder) nodes.Node) *DeleteManager {
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
func (m *DeleteManager) Returning(columns ...string) *DeleteManager {
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
func (m *DeleteManager) Use(t plugins.Transformer) *DeleteManager {
	c := m.clone()
	c.transformers = append(c.transformers, t)
	return c
}

// Err returns the latched construction error, if any.
func (m *DeleteManager) Err() error {
	return m.err
}

func (m *DeleteManager) generate(v nodes.Visitor) (string, error) {
	stmt := m.stmt
	for _, t := range m.transformers {
		next, err := t.TransformDelete(&stmt)
		if err != nil {
			return "", err
		}
		stmt = *next
	}
	return stmt.Accept(v), nil
}

// Compile renders the snapshot into SQL text plus bind parameters.
func (m *DeleteManager) Compile() (*CompiledQuery, error) {
	return m.compile(m.generate)
}

// ToSQL compiles the snapshot and returns SQL with its parameters.
func (m *DeleteManager) ToSQL() (string, []any, error) {
	compiled, err := m.Compile()
	if err != nil {
		return "", nil, err
	}
	return compiled.SQL, compiled.Parameters, nil
}

// DebugSQL renders the statement with inline literals for logging.
func (m *DeleteManager) DebugSQL() (string, error) {
	return m.debugSQL(m.generate)
}

// Exec compiles the snapshot and runs it on the given executor.
func (m *DeleteManager) Exec(ctx context.Context, db Execer) (sql.Result, error) {
	compiled, err := m.Compile()
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, compiled.SQL, compiled.Parameters...)
}
