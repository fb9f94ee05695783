package plugins

import (
	"testing"

	"github.com/goquel/goquel/nodes"
	"github.com/goquel/goquel/scope"
)

func TestCollectTables(t *testing.T) {
	t.Parallel()
	core := &nodes.SelectCore{
		From: scope.TableRef{Name: "users", Alias: "u"},
		Joins: []*nodes.JoinNode{
			{Table: scope.TableRef{Name: "posts", Alias: "p"}},
			{Table: scope.TableRef{Name: "comments"}},
		},
	}
	refs := CollectTables(core)
	if len(refs) != 3 {
		t.Fatalf("expected 3 table refs, got %d", len(refs))
	}
	if refs[0].Name != "users" || refs[0].Qualifier() != "u" {
		t.Errorf("unexpected FROM ref: %+v", refs[0])
	}
	if refs[1].Name != "posts" || refs[2].Qualifier() != "comments" {
		t.Errorf("unexpected join refs: %+v", refs[1:])
	}
}

func TestBaseTransformerIsNoOp(t *testing.T) {
	t.Parallel()
	var bt BaseTransformer
	core := &nodes.SelectCore{From: scope.TableRef{Name: "users"}}
	out, err := bt.TransformSelect(core)
	if err != nil || out != core {
		t.Errorf("expected untouched core, got %v (err %v)", out, err)
	}
	stmt := &nodes.DeleteStatement{From: scope.TableRef{Name: "users"}}
	outDel, err := bt.TransformDelete(stmt)
	if err != nil || outDel != stmt {
		t.Errorf("expected untouched statement, got %v (err %v)", outDel, err)
	}
}
