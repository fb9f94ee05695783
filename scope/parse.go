// Package scope parses table/column expressions and tracks which tables
// and aliases are visible to a query under construction.
package scope

import (
	"fmt"
	"strings"
)

// reservedWords are SQL keywords that may never be used as an alias.
// The set is fixed at startup and never mutated.
var reservedWords = map[string]struct{}{
	"select": {}, "from": {}, "where": {}, "join": {}, "on": {},
	"as": {}, "and": {}, "or": {}, "not": {}, "in": {}, "is": {},
	"null": {}, "true": {}, "false": {}, "like": {}, "ilike": {},
	"order": {}, "by": {}, "group": {}, "having": {}, "limit": {},
	"offset": {}, "inner": {}, "left": {}, "right": {}, "outer": {},
	"full": {}, "cross": {}, "union": {}, "insert": {}, "into": {},
	"values": {}, "update": {}, "set": {}, "delete": {}, "returning": {},
	"distinct": {}, "table": {}, "between": {}, "exists": {}, "case": {},
	"when": {}, "then": {}, "else": {}, "end": {}, "asc": {}, "desc": {},
}

// TableRef is a parsed table expression: a table name and an optional alias.
// Immutable once created.
type TableRef struct {
	Name  string
	Alias string // empty when the table is not aliased
}

// Qualifier returns the identifier that qualifies columns of this table:
// the alias if one was given, otherwise the table name.
func (r TableRef) Qualifier() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.Name
}

// ColumnExpr is a parsed column expression: a possibly qualified column
// name and an optional output alias.
type ColumnExpr struct {
	Qualifier string // table name or alias, empty for bare columns
	Name      string
	Alias     string // SELECT-list rename, empty when absent
}

// String renders the qualifier.name form, or the bare name when
// unqualified. The rename alias is not part of the reference.
func (c ColumnExpr) String() string {
	if c.Qualifier == "" {
		return c.Name
	}
	return c.Qualifier + "." + c.Name
}

// ParseTableExpr parses "table" or "table as alias" into a TableRef.
// The AS keyword is case-insensitive and tolerates any amount of
// surrounding whitespace.
func ParseTableExpr(input string) (TableRef, error) {
	name, alias, err := splitAs(input)
	if err != nil {
		return TableRef{}, err
	}
	return TableRef{Name: name, Alias: alias}, nil
}

// ParseColumnExpr parses "column", "qualifier.column" or either form
// followed by "as alias" into a ColumnExpr.
func ParseColumnExpr(input string) (ColumnExpr, error) {
	name, alias, err := splitAs(input)
	if err != nil {
		return ColumnExpr{}, err
	}
	col := ColumnExpr{Name: name, Alias: alias}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		col.Qualifier = name[:i]
		col.Name = name[i+1:]
		if col.Qualifier == "" || col.Name == "" || strings.ContainsRune(col.Name, '.') {
			return ColumnExpr{}, fmt.Errorf("%w: %q", ErrMalformedExpression, input)
		}
	}
	return col, nil
}

// splitAs splits an identifier expression on a case-insensitive AS
// keyword surrounded by whitespace. Returns the trimmed base name and
// alias; the alias is empty when no AS keyword is present.
func splitAs(input string) (name, alias string, err error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: %q", ErrEmptyIdentifier, input)
	}

	fields := strings.Fields(trimmed)
	asIndex := -1
	for i, f := range fields {
		if strings.EqualFold(f, "as") {
			asIndex = i
			break
		}
	}
	if asIndex < 0 {
		if len(fields) != 1 {
			return "", "", fmt.Errorf("%w: unexpected whitespace in %q", ErrMalformedExpression, input)
		}
		return fields[0], "", nil
	}
	if asIndex == 0 {
		return "", "", fmt.Errorf("%w: missing name before AS in %q", ErrMalformedExpression, input)
	}
	if asIndex != len(fields)-2 {
		return "", "", fmt.Errorf("%w: dangling AS in %q", ErrMalformedExpression, input)
	}

	name = strings.Join(fields[:asIndex], " ")
	if len(fields[:asIndex]) != 1 {
		return "", "", fmt.Errorf("%w: unexpected whitespace in name %q", ErrMalformedExpression, name)
	}
	alias = fields[len(fields)-1]
	if !ValidIdent(alias) {
		return "", "", fmt.Errorf("%w: invalid alias %q", ErrMalformedExpression, alias)
	}
	if _, reserved := reservedWords[strings.ToLower(alias)]; reserved {
		return "", "", fmt.Errorf("%w: alias %q is a reserved word", ErrMalformedExpression, alias)
	}
	return name, alias, nil
}

// ValidIdent reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func ValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
