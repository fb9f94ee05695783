package nodes

import (
	"fmt"
	"reflect"
	"strings"
)

// CompOp represents a binary comparison operator.
type CompOp int

const (
	OpEq CompOp = iota
	OpNotEq
	OpLt
	OpLtEq
	OpGt
	OpGtEq
	OpLike
	OpILike
	OpIn
	OpNotIn
	OpIs
	OpIsNot
)

// compOpNames maps the operator spellings accepted by the builder to
// CompOp values. Initialized once, never mutated.
var compOpNames = map[string]CompOp{
	"=":      OpEq,
	"!=":     OpNotEq,
	"<":      OpLt,
	"<=":     OpLtEq,
	">":      OpGt,
	">=":     OpGtEq,
	"like":   OpLike,
	"ilike":  OpILike,
	"in":     OpIn,
	"not in": OpNotIn,
	"is":     OpIs,
	"is not": OpIsNot,
}

// ParseCompOp parses an operator string, case-insensitively and with
// interior whitespace collapsed ("NOT   IN" parses as "not in").
func ParseCompOp(s string) (CompOp, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(s), " "))
	op, ok := compOpNames[normalized]
	if !ok {
		return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidOperand, s)
	}
	return op, nil
}

// ComparisonNode represents a binary comparison: Left Op Right.
// Right is nil for IS / IS NOT (they compile to IS [NOT] NULL), a
// *ValueListNode for IN / NOT IN, and a *ValueNode or *ColumnRef for
// every other operator.
type ComparisonNode struct {
	Left  Node
	Op    CompOp
	Right Node
}

func (n *ComparisonNode) Accept(v Visitor) string { return v.VisitComparison(n) }

// NewComparison builds a ComparisonNode, validating the operand shape
// for the given operator.
func NewComparison(left Node, op CompOp, value any) (*ComparisonNode, error) {
	switch op {
	case OpIs, OpIsNot:
		if value != nil {
			return nil, fmt.Errorf("%w: IS accepts only nil, got %T", ErrInvalidOperand, value)
		}
		return &ComparisonNode{Left: left, Op: op}, nil
	case OpIn, OpNotIn:
		vals, err := toValueSlice(value)
		if err != nil {
			return nil, err
		}
		if len(vals) == 0 {
			return nil, fmt.Errorf("%w: IN requires a non-empty sequence", ErrInvalidOperand)
		}
		return &ComparisonNode{Left: left, Op: op, Right: &ValueListNode{Values: vals}}, nil
	default:
		return &ComparisonNode{Left: left, Op: op, Right: NewValue(value)}, nil
	}
}

// toValueSlice converts any slice or array value into []any.
func toValueSlice(value any) ([]any, error) {
	if vals, ok := value.([]any); ok {
		return vals, nil
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, fmt.Errorf("%w: IN requires a sequence, got %T", ErrInvalidOperand, value)
	}
	vals := make([]any, rv.Len())
	for i := range vals {
		vals[i] = rv.Index(i).Interface()
	}
	return vals, nil
}
