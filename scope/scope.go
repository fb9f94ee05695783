package scope

import (
	"fmt"
	"strings"
)

// entry records one table registered in a scope.
type entry struct {
	table   string
	aliased bool
}

// Scope maps column qualifiers (table name, or alias when the table is
// aliased) to their underlying tables for one query snapshot. A Scope is
// an immutable value: WithTable returns a new Scope and read operations
// never mutate. The zero value is an empty scope.
type Scope struct {
	// entries is shared between snapshots and never written after
	// construction; WithTable copies it before inserting.
	entries map[string]entry

	// tables maps each underlying table name to whether it was
	// registered under an alias, for alias-exclusivity checks.
	tables map[string]bool
}

// QualifiedColumn is a column reference resolved against a scope.
// Qualifier is empty for bare columns, which render without a prefix.
type QualifiedColumn struct {
	Qualifier string
	Name      string
}

// String renders the canonical qualifier.column form, or the bare
// column name when no qualifier applies.
func (q QualifiedColumn) String() string {
	if q.Qualifier == "" {
		return q.Name
	}
	return q.Qualifier + "." + q.Name
}

// WithTable returns a new Scope extended with ref. The table's alias, or
// its name when unaliased, becomes the qualifier key for its columns.
// Fails with ErrDuplicateAlias when that qualifier is already taken.
func (s Scope) WithTable(ref TableRef) (Scope, error) {
	qualifier := ref.Qualifier()
	if _, exists := s.entries[qualifier]; exists {
		return Scope{}, fmt.Errorf("%w: %q", ErrDuplicateAlias, qualifier)
	}

	entries := make(map[string]entry, len(s.entries)+1)
	for k, v := range s.entries {
		entries[k] = v
	}
	entries[qualifier] = entry{table: ref.Name, aliased: ref.Alias != ""}

	tables := make(map[string]bool, len(s.tables)+1)
	for k, v := range s.tables {
		tables[k] = v
	}
	tables[ref.Name] = ref.Alias != ""

	return Scope{entries: entries, tables: tables}, nil
}

// Has reports whether qualifier is registered in this scope.
func (s Scope) Has(qualifier string) bool {
	_, ok := s.entries[qualifier]
	return ok
}

// ResolveColumn resolves a dot-qualified or bare column reference.
//
// Qualified references are checked against the registered qualifiers;
// qualifying by a table's original name after the table was aliased is
// an ErrAliasExclusivity violation. Bare column names are never
// auto-qualified: they resolve to themselves with an empty qualifier,
// and disambiguation is the caller's responsibility.
func (s Scope) ResolveColumn(ref string) (QualifiedColumn, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return QualifiedColumn{}, fmt.Errorf("%w: column reference", ErrEmptyIdentifier)
	}

	i := strings.IndexByte(ref, '.')
	if i < 0 {
		return QualifiedColumn{Name: ref}, nil
	}

	qualifier, name := ref[:i], ref[i+1:]
	if qualifier == "" || name == "" || strings.ContainsRune(name, '.') {
		return QualifiedColumn{}, fmt.Errorf("%w: %q", ErrMalformedExpression, ref)
	}
	if _, ok := s.entries[qualifier]; !ok {
		if s.tables[qualifier] {
			return QualifiedColumn{}, fmt.Errorf("%w: table %q is aliased, use the alias to qualify %q", ErrAliasExclusivity, qualifier, name)
		}
		return QualifiedColumn{}, fmt.Errorf("%w: no table or alias %q in scope", ErrUnresolvedColumn, qualifier)
	}
	return QualifiedColumn{Qualifier: qualifier, Name: name}, nil
}
