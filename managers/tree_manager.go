// Package managers provides the fluent, immutable-per-call query builders.
//
// Every builder method returns a new snapshot; the receiver is never
// modified, so earlier snapshots stay valid and independently
// compilable. Construction and resolution errors are latched on the
// snapshot and surfaced by Compile/ToSQL, never as partial SQL.
package managers

import (
	"context"
	"database/sql"
	"sync"

	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/plugins"
	"github.com/goquel/goquel/visitors"
)

// Dialect selects the SQL dialect a builder compiles to.
type Dialect int

const (
	Postgres Dialect = iota
	MySQL
	SQLite
)

// visitor constructs a fresh dialect visitor. Visitors carry the
// parameter counter, so each compilation gets its own.
func (d Dialect) visitor(opts ...visitors.Option) nodes.Visitor {
	switch d {
	case MySQL:
		return visitors.NewMySQLVisitor(opts...)
	case SQLite:
		return visitors.NewSQLiteVisitor(opts...)
	default:
		return visitors.NewPostgresVisitor(opts...)
	}
}

// CompiledQuery is the compiled form of a builder snapshot: SQL text
// with positional placeholders and the parameter values in placeholder
// order. parameters[i] is the value bound at placeholder i+1.
type CompiledQuery struct {
	SQL        string
	Parameters []any
}

// Queryer is the row-returning execution collaborator; *sql.DB and
// *sql.Tx satisfy it. The builders hand over the compiled query and
// propagate the result untouched.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// RowQueryer is the single-row execution collaborator; *sql.DB and
// *sql.Tx satisfy it.
type RowQueryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Execer is the row-count execution collaborator for INSERT, UPDATE
// and DELETE statements.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// treeManager holds the state shared by all builder kinds: the target
// dialect, the transformer pipeline, the latched construction error,
// and the per-snapshot compilation cache. Snapshots are immutable, so
// the cache never needs invalidation; the sync.Once lets independent
// goroutines compile the same snapshot safely.
type treeManager struct {
	dialect      Dialect
	transformers []plugins.Transformer
	err          error

	once     *sync.Once
	compiled *CompiledQuery
	compeErr error
}

func newTreeManager(dialect Dialect) treeManager {
	return treeManager{dialect: dialect, once: new(sync.Once)}
}

// fork prepares the shared state of a new snapshot: same dialect and
// error, a copied transformer list, and a fresh compilation cache.
func (tm treeManager) fork() treeManager {
	transformers := make([]plugins.Transformer, len(tm.transformers))
	copy(transformers, tm.transformers)
	return treeManager{
		dialect:      tm.dialect,
		transformers: transformers,
		err:          tm.err,
		once:         new(sync.Once),
	}
}

// compile memoizes the result of generate for this snapshot.
func (tm *treeManager) compile(generate func(nodes.Visitor) (string, error)) (*CompiledQuery, error) {
	tm.once.Do(func() {
		if tm.err != nil {
			tm.compeErr = tm.err
			return
		}
		v := tm.dialect.visitor()
		sqlText, err := generate(v)
		if err != nil {
			tm.compeErr = err
			return
		}
		compiled := &CompiledQuery{SQL: sqlText}
		if p, ok := v.(nodes.Parameterizer); ok {
			compiled.Parameters = p.Params()
		}
		tm.compiled = compiled
	})
	return tm.compiled, tm.compeErr
}

// debugSQL renders the statement with inline literals instead of
// placeholders. Uncached; intended for logging and the REPL.
func (tm *treeManager) debugSQL(generate func(nodes.Visitor) (string, error)) (string, error) {
	if tm.err != nil {
		return "", tm.err
	}
	return generate(tm.dialect.visitor(visitors.WithoutParams()))
}
