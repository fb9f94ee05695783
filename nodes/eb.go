package nodes

import (
	"fmt"

	"github.com/goquel/goquel/scope"
)

// ExprBuilder is the factory handed to WhereFunc/HavingFunc callbacks.
// It resolves column references against the query's scope at
// construction time and records the first failure; builder methods
// never execute SQL. The first latched error is surfaced when the
// owning query compiles.
type ExprBuilder struct {
	scope scope.Scope
	err   error
}

// NewExprBuilder creates an ExprBuilder bound to a scope.
func NewExprBuilder(s scope.Scope) *ExprBuilder {
	return &ExprBuilder{scope: s}
}

// Err returns the first error recorded by any builder method, or nil.
func (eb *ExprBuilder) Err() error {
	return eb.err
}

func (eb *ExprBuilder) fail(err error) {
	if eb.err == nil {
		eb.err = err
	}
}

// Ref resolves a qualified or bare column reference into a ColumnRef.
// Rename expressions are rejected: predicates name columns, they do
// not relabel them.
func (eb *ExprBuilder) Ref(column string) *ColumnRef {
	parsed, err := scope.ParseColumnExpr(column)
	if err != nil {
		eb.fail(err)
		return &ColumnRef{Name: column}
	}
	if parsed.Alias != "" {
		eb.fail(fmt.Errorf("%w: column rename not allowed here: %q", scope.ErrMalformedExpression, column))
		return &ColumnRef{Name: parsed.Name}
	}
	qc, err := eb.scope.ResolveColumn(parsed.String())
	if err != nil {
		eb.fail(err)
		return &ColumnRef{Name: column}
	}
	return &ColumnRef{Qualifier: qc.Qualifier, Name: qc.Name}
}

// Cmp builds a comparison predicate: column op value. The operator is
// one of =, !=, <, <=, >, >=, like, ilike, in, not in, is, is not.
// Pass a *ColumnRef (from Ref) as value for column-to-column
// comparisons.
func (eb *ExprBuilder) Cmp(column, operator string, value any) Node {
	col := eb.Ref(column)
	op, err := ParseCompOp(operator)
	if err != nil {
		eb.fail(err)
		return And()
	}
	cmp, err := NewComparison(col, op, value)
	if err != nil {
		eb.fail(err)
		return And()
	}
	return cmp
}

// And combines predicates into a conjunction. And() with no arguments
// compiles to TRUE.
func (eb *ExprBuilder) And(children ...Node) Node { return And(children...) }

// Or combines predicates into a disjunction. Or() with no arguments
// compiles to FALSE.
func (eb *ExprBuilder) Or(children ...Node) Node { return Or(children...) }

// Not negates a predicate.
func (eb *ExprBuilder) Not(child Node) Node { return Not(child) }

// Raw splices a SQL fragment with its own parameter list into the
// predicate tree. Placeholders in the fragment are $1-relative to the
// fragment and renumbered by the compiler.
func (eb *ExprBuilder) Raw(sql string, params ...any) Node {
	if sql == "" {
		eb.fail(fmt.Errorf("%w: empty raw fragment", ErrInvalidOperand))
	}
	return NewRaw(sql, params...)
}

// Array returns the array-operator factory for a column.
func (eb *ExprBuilder) Array(column string) ArrayOps {
	return ArrayOps{eb: eb, col: eb.Ref(column)}
}

// JSONB returns the document-operator factory for a column.
func (eb *ExprBuilder) JSONB(column string) JSONBOps {
	return JSONBOps{eb: eb, col: eb.Ref(column)}
}

// ArrayOps builds predicates over an array-typed column.
type ArrayOps struct {
	eb  *ExprBuilder
	col *ColumnRef
}

// Of declares the column's element type, used to cast empty array
// literals (default text).
func (a ArrayOps) Of(typeName string) ArrayOps {
	return ArrayOps{eb: a.eb, col: a.col.Typed(typeName)}
}

// Contains builds col @> ARRAY[...]. An empty list is legal: a column
// is a superset of the empty array, so the predicate matches every row.
func (a ArrayOps) Contains(elems ...any) Node {
	return &ArrayOpNode{Column: a.col, Kind: ArrayContains, Elems: elems}
}

// ContainedBy builds col <@ ARRAY[...].
func (a ArrayOps) ContainedBy(elems ...any) Node {
	return &ArrayOpNode{Column: a.col, Kind: ArrayContainedBy, Elems: elems}
}

// Overlaps builds col && ARRAY[...]. An empty list is legal: the
// intersection with the empty array is always empty, so the predicate
// matches no row.
func (a ArrayOps) Overlaps(elems ...any) Node {
	return &ArrayOpNode{Column: a.col, Kind: ArrayOverlaps, Elems: elems}
}

// HasAny builds $n = ANY(col).
func (a ArrayOps) HasAny(elem any) Node {
	return &ArrayOpNode{Column: a.col, Kind: ArrayHasAny, Elem: elem}
}

// HasAll builds $n = ALL(col).
func (a ArrayOps) HasAll(elem any) Node {
	return &ArrayOpNode{Column: a.col, Kind: ArrayHasAll, Elem: elem}
}

// JSONBOps builds predicates over a document-typed column.
type JSONBOps struct {
	eb  *ExprBuilder
	col *ColumnRef
}

// Contains builds col @> doc. The operand is serialized to its JSON
// form and bound as a single parameter.
func (j JSONBOps) Contains(doc any) Node {
	return &JSONBOpNode{Column: j.col, Kind: JSONBContains, Operand: doc}
}

// ContainedBy builds col <@ doc.
func (j JSONBOps) ContainedBy(doc any) Node {
	return &JSONBOpNode{Column: j.col, Kind: JSONBContainedBy, Operand: doc}
}

// HasKey builds the key-existence predicate col ? 'key'.
func (j JSONBOps) HasKey(key string) Node {
	j.checkKeys(key)
	return &JSONBOpNode{Column: j.col, Kind: JSONBHasKey, Path: []string{key}}
}

// HasAnyKey builds col ?| ARRAY[...].
func (j JSONBOps) HasAnyKey(keys ...string) Node {
	j.checkKeys(keys...)
	return &JSONBOpNode{Column: j.col, Kind: JSONBHasAnyKey, Path: keys}
}

// HasAllKeys builds col ?& ARRAY[...].
func (j JSONBOps) HasAllKeys(keys ...string) Node {
	j.checkKeys(keys...)
	return &JSONBOpNode{Column: j.col, Kind: JSONBHasAllKeys, Path: keys}
}

// Field returns a handle on a top-level document field.
func (j JSONBOps) Field(name string) JSONBField {
	j.checkKeys(name)
	return JSONBField{ops: j, path: []string{name}}
}

// Path returns a handle on a nested document path.
func (j JSONBOps) Path(keys ...string) JSONBField {
	j.checkKeys(keys...)
	return JSONBField{ops: j, path: keys}
}

func (j JSONBOps) checkKeys(keys ...string) {
	if len(keys) == 0 {
		j.eb.fail(fmt.Errorf("%w: document path requires at least one key", ErrInvalidOperand))
	}
	for _, k := range keys {
		if k == "" {
			j.eb.fail(fmt.Errorf("%w: empty document key", ErrInvalidOperand))
		}
	}
}

// JSONBField is a handle on an extracted document field or path.
type JSONBField struct {
	ops  JSONBOps
	path []string
}

// Equals builds an equality check against the extracted field's text
// form, contributing exactly one parameter.
func (f JSONBField) Equals(val any) Node {
	return &JSONBOpNode{Column: f.ops.col, Kind: JSONBFieldEquals, Path: f.path, Operand: val}
}

// Exists builds an existence check on the field or path.
func (f JSONBField) Exists() Node {
	return &JSONBOpNode{Column: f.ops.col, Kind: JSONBFieldExists, Path: f.path}
}

// IsNull builds a null check on the extracted field.
func (f JSONBField) IsNull() Node {
	return &JSONBOpNode{Column: f.ops.col, Kind: JSONBFieldIsNull, Path: f.path}
}
