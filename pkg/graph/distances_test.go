package graph

import (
	"errors"
	"testing"
)

func TestDistancesFromRoot(t *testing.T) {
	// a -> b -> d, a -> c; e unreachable.
	g := New(true, false)
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	d := g.AddNode("d")
	e := g.AddNode("e")
	for _, pair := range [][2]NodeID{{a, b}, {b, d}, {a, c}} {
		if err := g.AddEdge(pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}

	if err := g.SetRoot(a); err != nil {
		t.Fatal(err)
	}

	depths := g.DistancesFromRoot()
	want := map[int]NodeSet{
		0: NewNodeSet(a),
		1: NewNodeSet(b, c),
		2: NewNodeSet(d),
	}
	if len(depths) != len(want) {
		t.Fatalf("depth buckets = %d, want %d", len(depths), len(want))
	}
	for depth, ws := range want {
		if !depths[depth].Equal(ws) {
			t.Errorf("depth %d = %v, want %v", depth, depths[depth].Members(), ws.Members())
		}
	}
	for depth, s := range depths {
		if s.Has(e) {
			t.Errorf("unreachable node appears at depth %d", depth)
		}
	}
}

func TestDistancesEachNodeOnce(t *testing.T) {
	// Diamond plus a shortcut: a->b, a->c, b->d, c->d, a->d. d is
	// reachable at depths 1 and 2 but must be bucketed once, at its
	// shortest depth.
	g := New(true, false)
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	d := g.AddNode("d")
	for _, pair := range [][2]NodeID{{a, b}, {a, c}, {b, d}, {c, d}, {a, d}} {
		if err := g.AddEdge(pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.SetRoot(a); err != nil {
		t.Fatal(err)
	}

	depths := g.DistancesFromRoot()
	seen := 0
	for _, s := range depths {
		if s.Has(d) {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("node d appears in %d buckets, want 1", seen)
	}
	if !depths[1].Has(d) {
		t.Error("d must be bucketed at its shortest depth 1")
	}
}

func TestDistancesFollowDirection(t *testing.T) {
	g := New(true, false)
	a := g.AddNode("a")
	b := g.AddNode("b")
	if err := g.AddEdge(b, a); err != nil {
		t.Fatal(err)
	}
	if err := g.SetRoot(a); err != nil {
		t.Fatal(err)
	}

	depths := g.DistancesFromRoot()
	if len(depths) != 1 || !depths[0].Equal(NewNodeSet(a)) {
		t.Errorf("only the root must be reachable against the edge, got %v", depths)
	}
}

func TestDistancesTrackMutations(t *testing.T) {
	g := New(false, false)
	a := g.AddNode("a")
	b := g.AddNode("b")
	if err := g.SetRoot(a); err != nil {
		t.Fatal(err)
	}

	if depths := g.DistancesFromRoot(); len(depths) != 1 {
		t.Fatalf("before edge: %d buckets, want 1", len(depths))
	}

	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	if depths := g.DistancesFromRoot(); !depths[1].Has(b) {
		t.Error("distance map must refresh after structural mutation")
	}
}

func TestRootLifecycle(t *testing.T) {
	g := New(false, false)
	a := g.AddNode("a")

	if _, ok := g.Root(); ok {
		t.Fatal("fresh graph must not have a root")
	}
	if len(g.DistancesFromRoot()) != 0 {
		t.Fatal("no root, distance map must be empty")
	}

	if err := g.SetRoot(NodeID(99)); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("SetRoot(unknown) err = %v, want ErrUnknownNode", err)
	}
	if err := g.SetRoot(a); err != nil {
		t.Fatal(err)
	}
	if root, ok := g.Root(); !ok || root != a {
		t.Fatalf("Root() = %v, %v; want %v, true", root, ok, a)
	}

	// Removing the root node clears the root first.
	if err := g.RemoveNode(a); err != nil {
		t.Fatal(err)
	}
	if _, ok := g.Root(); ok {
		t.Error("root must be cleared when the root node is removed")
	}
	if len(g.DistancesFromRoot()) != 0 {
		t.Error("distance map must be empty after root removal")
	}

	b := g.AddNode("b")
	if err := g.SetRoot(b); err != nil {
		t.Fatal(err)
	}
	g.ClearRoot()
	if _, ok := g.Root(); ok {
		t.Error("ClearRoot must unset the root")
	}
}
