// Package goquel provides a fluent, immutable SQL query builder for Go.
//
// Queries are assembled from string column and table expressions,
// validated and scope-resolved at construction time, and compiled to
// parameterized SQL plus an ordered list of bind values. Every builder
// method returns a new snapshot, so a query can be branched into
// divergent continuations from a shared prefix.
//
// This package re-exports commonly used types and functions from
// subpackages for convenience. Advanced users can import subpackages
// directly:
//   - github.com/goquel/goquel/managers (query builders)
//   - github.com/goquel/goquel/nodes (AST nodes, expression builder)
//   - github.com/goquel/goquel/visitors (SQL generation)
//   - github.com/goquel/goquel/scope (identifier parsing, table scope)
//   - github.com/goquel/goquel/plugins (query transformers)
package goquel

import (
	"github.com/goquel/goquel/managers"
	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/scope"
	"github.com/goquel/goquel/visitors"
)

// --- Dialects ---

// Dialect selects the SQL dialect a builder compiles to.
type Dialect = managers.Dialect

const (
	Postgres = managers.Postgres
	MySQL    = managers.MySQL
	SQLite   = managers.SQLite
)

// --- Manager Types ---

// SelectManager provides a fluent API for building SELECT queries.
type SelectManager = managers.SelectManager

// InsertManager provides a fluent API for building INSERT queries.
type InsertManager = managers.InsertManager

// UpdateManager provides a fluent API for building UPDATE queries.
type UpdateManager = managers.UpdateManager

// DeleteManager provides a fluent API for building DELETE queries.
type DeleteManager = managers.DeleteManager

// CompiledQuery is SQL text plus its bind parameters in placeholder order.
type CompiledQuery = managers.CompiledQuery

// --- Manager Constructors ---

// SelectFrom starts a PostgreSQL SELECT query from a table expression
// ("users" or "users as u").
func SelectFrom(table string) *managers.SelectManager {
	return managers.NewSelectManager(table, managers.Postgres)
}

// InsertInto starts a PostgreSQL INSERT targeting the given table.
func InsertInto(table string) *managers.InsertManager {
	return managers.NewInsertManager(table, managers.Postgres)
}

// Update starts a PostgreSQL UPDATE targeting the given table.
func Update(table string) *managers.UpdateManager {
	return managers.NewUpdateManager(table, managers.Postgres)
}

// DeleteFrom starts a PostgreSQL DELETE targeting the given table.
func DeleteFrom(table string) *managers.DeleteManager {
	return managers.NewDeleteManager(table, managers.Postgres)
}

// --- Expression Building ---

// Node is the base interface all AST nodes implement.
type Node = nodes.Node

// ExprBuilder builds predicate trees inside WhereFunc/HavingFunc callbacks.
type ExprBuilder = nodes.ExprBuilder

// Raw wraps a trusted SQL fragment with positional parameters.
//
// SECURITY: the fragment is emitted verbatim. Never build it from
// untrusted input; pass untrusted values through params instead.
func Raw(sql string, params ...any) *nodes.RawNode {
	return nodes.NewRaw(sql, params...)
}

// --- Errors ---

var (
	ErrEmptyIdentifier     = scope.ErrEmptyIdentifier
	ErrMalformedExpression = scope.ErrMalformedExpression
	ErrDuplicateAlias      = scope.ErrDuplicateAlias
	ErrAliasExclusivity    = scope.ErrAliasExclusivity
	ErrUnresolvedColumn    = scope.ErrUnresolvedColumn
	ErrInvalidOperand      = nodes.ErrInvalidOperand
)

// --- Visitor Options ---

// WithQuotedIdents makes visitors quote every identifier, not just the
// ones that need it.
func WithQuotedIdents() visitors.Option {
	return visitors.WithQuotedIdents()
}

// WithoutParams disables parameterized query mode, inlining values as
// SQL literals.
//
// WARNING: disables SQL injection protection. Only use for debugging
// output; production code should never compile with this option.
func WithoutParams() visitors.Option {
	return visitors.WithoutParams()
}
