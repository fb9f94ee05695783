package visitors

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/goquel/goquel/internal/quoting"
	"github.com/goquel/goquel/nodes"
)

// PostgresVisitor generates PostgreSQL-dialect SQL with $1, $2, ...
// placeholders. Irregular identifiers are quoted with double quotes.
type PostgresVisitor struct {
	*baseVisitor
}

// NewPostgresVisitor creates a PostgresVisitor ready for use.
// Parameterized mode is enabled by default.
func NewPostgresVisitor(opts ...Option) *PostgresVisitor {
	v := &PostgresVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:        v,
		quote:        quoting.DoubleQuote,
		placeholder:  func(i int) string { return fmt.Sprintf("$%d", i) },
		parameterize: true,
	}
	v.applyOptions(opts)
	return v
}

var rawPlaceholderPattern = regexp.MustCompile(`\$(\d+)`)

// VisitRaw splices a raw fragment, renumbering its $N placeholders
// (written $1-relative to the fragment) into the surrounding positional
// sequence.
func (v *PostgresVisitor) VisitRaw(n *nodes.RawNode) string {
	if !v.parameterize {
		return rawPlaceholderPattern.ReplaceAllStringFunc(n.SQL, func(m string) string {
			k, err := strconv.Atoi(m[1:])
			if err != nil || k < 1 || k > len(n.Params) {
				return m
			}
			return v.literalToSQL(n.Params[k-1])
		})
	}

	base := v.paramIndex
	out := rawPlaceholderPattern.ReplaceAllStringFunc(n.SQL, func(m string) string {
		k, err := strconv.Atoi(m[1:])
		if err != nil || k < 1 || k > len(n.Params) {
			return m
		}
		return fmt.Sprintf("$%d", base+k)
	})
	v.params = append(v.params, n.Params...)
	v.paramIndex += len(n.Params)
	return out
}
