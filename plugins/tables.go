package plugins

import (
	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/scope"
)

// CollectTables returns all table references in a SelectCore: the FROM
// table followed by every JOIN target, in clause order.
func CollectTables(core *nodes.SelectCore) []scope.TableRef {
	refs := make([]scope.TableRef, 0, 1+len(core.Joins))
	refs = append(refs, core.From)
	for _, j := range core.Joins {
		refs = append(refs, j.Table)
	}
	return refs
}
