package scope

import "errors"

// Errors reported by the identifier parser and the scope registry.
// All are programmer errors raised synchronously at construction or
// compile time; none are retryable.
var (
	// ErrEmptyIdentifier is returned when a table or column expression
	// is empty or whitespace-only.
	ErrEmptyIdentifier = errors.New("empty identifier")

	// ErrMalformedExpression is returned when a table or column
	// expression cannot be parsed: a dangling AS keyword, a missing
	// base name, or an alias that is not a valid identifier or that
	// collides with a reserved SQL keyword.
	ErrMalformedExpression = errors.New("malformed expression")

	// ErrDuplicateAlias is returned when a table is added to a scope
	// under a qualifier that is already registered.
	ErrDuplicateAlias = errors.New("duplicate alias")

	// ErrAliasExclusivity is returned when a column is qualified by a
	// table's original name after that table was given an alias. Once
	// aliased, the alias is the only legal qualifier.
	ErrAliasExclusivity = errors.New("alias excludes table name as qualifier")

	// ErrUnresolvedColumn is returned when a column's qualifier does
	// not match any table or alias in scope.
	ErrUnresolvedColumn = errors.New("unresolved column")
)
