package registry

import (
	"testing"

	"github.com/codeassociates/wyncc/types"
)

func TestGenericsInstantiateIsIdempotent(t *testing.T) {
	g := NewGenerics()
	name1 := g.Instantiate("identity", []*types.Type{types.IntType})
	name2 := g.Instantiate("identity", []*types.Type{types.IntType})
	if name1 != name2 {
		t.Fatalf("expected idempotent mangled name, got %q and %q", name1, name2)
	}
	if g.Len() != 1 {
		t.Fatalf("expected 1 instantiation, got %d", g.Len())
	}
}

func TestGenericsDistinctArgTypesProduceDistinctNames(t *testing.T) {
	g := NewGenerics()
	nameInt := g.Instantiate("identity", []*types.Type{types.IntType})
	nameStr := g.Instantiate("identity", []*types.Type{types.StringType})
	if nameInt == nameStr {
		t.Fatalf("expected distinct mangled names, both got %q", nameInt)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 instantiations, got %d", g.Len())
	}
}

func TestGenericsAllPreservesFirstSeenOrder(t *testing.T) {
	g := NewGenerics()
	g.Instantiate("f", []*types.Type{types.IntType})
	g.Instantiate("f", []*types.Type{types.StringType})
	g.Instantiate("g", []*types.Type{types.BoolType})
	all := g.All()
	if len(all) != 3 || all[0].FuncName != "f" || all[2].FuncName != "g" {
		t.Fatalf("unexpected order: %#v", all)
	}
}

func TestClosuresLiftAssignsIncrementingNames(t *testing.T) {
	c := NewClosures("")
	first := c.Lift([]string{"b", "a"})
	second := c.Lift(nil)
	if first.LiftedName == second.LiftedName {
		t.Fatalf("expected distinct lifted names")
	}
	if len(first.Captures) != 2 || first.Captures[0] != "a" || first.Captures[1] != "b" {
		t.Fatalf("expected sorted, deduped captures, got %#v", first.Captures)
	}
	if len(c.All()) != 2 {
		t.Fatalf("expected 2 recorded closures, got %d", len(c.All()))
	}
}

func TestClosuresDedupesCaptures(t *testing.T) {
	c := NewClosures("lam")
	entry := c.Lift([]string{"x", "x", "y"})
	if len(entry.Captures) != 2 {
		t.Fatalf("expected captures deduped to 2, got %#v", entry.Captures)
	}
}
