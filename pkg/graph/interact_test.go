package graph

import (
	"errors"
	"testing"

	"github.com/jmerkel/nodepad/pkg/vec"
)

func TestPositions(t *testing.T) {
	g := New(false, false)
	a := g.AddNodeAt("a", vec.New(3, 4))

	pos, err := g.Position(a)
	if err != nil {
		t.Fatal(err)
	}
	if !pos.AlmostEqual(vec.New(3, 4), 0) {
		t.Errorf("Position = %v, want (3, 4)", pos)
	}

	if err := g.SetPosition(a, vec.New(-1, 2)); err != nil {
		t.Fatal(err)
	}
	pos, _ = g.Position(a)
	if !pos.AlmostEqual(vec.New(-1, 2), 0) {
		t.Errorf("Position = %v, want (-1, 2)", pos)
	}

	if _, err := g.Position(NodeID(99)); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestPositionIsACopy(t *testing.T) {
	g := New(false, false)
	a := g.AddNodeAt("a", vec.New(1, 1))
	pos, _ := g.Position(a)
	pos[0] = 99
	again, _ := g.Position(a)
	if again[0] != 1 {
		t.Error("mutating a returned position changed the node")
	}
}

func TestSelection(t *testing.T) {
	g := New(false, false)
	a := g.AddNode("a")
	b := g.AddNode("b")
	g.AddNode("c")

	if err := g.Select(b); err != nil {
		t.Fatal(err)
	}
	if err := g.Select(a); err != nil {
		t.Fatal(err)
	}
	if got := g.Selected(); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Selected = %v, want insertion order [%d %d]", got, a, b)
	}

	if err := g.ToggleSelect(b); err != nil {
		t.Fatal(err)
	}
	if g.IsSelected(b) {
		t.Error("toggle must deselect b")
	}

	g.SelectAll()
	if len(g.Selected()) != 3 {
		t.Error("SelectAll must select every node")
	}
	g.DeselectAll()
	if len(g.Selected()) != 0 {
		t.Error("DeselectAll must clear the selection")
	}

	if err := g.Select(NodeID(99)); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestDragLifecycle(t *testing.T) {
	g := New(false, false)
	a := g.AddNodeAt("a", vec.New(10, 10))

	// Grab the node slightly off-center; it must track the pointer while
	// preserving the offset.
	if err := g.StartDrag(a, vec.New(9, 9)); err != nil {
		t.Fatal(err)
	}
	if !g.Held(a) {
		t.Fatal("node must be held after StartDrag")
	}
	if err := g.Drag(a, vec.New(20, 5)); err != nil {
		t.Fatal(err)
	}
	pos, _ := g.Position(a)
	if !pos.AlmostEqual(vec.New(21, 6), 1e-12) {
		t.Errorf("dragged position = %v, want (21, 6)", pos)
	}

	if err := g.StopDrag(a); err != nil {
		t.Fatal(err)
	}
	if g.Held(a) {
		t.Error("node must be released after StopDrag")
	}

	// Dragging a released node does nothing.
	if err := g.Drag(a, vec.New(0, 0)); err != nil {
		t.Fatal(err)
	}
	pos, _ = g.Position(a)
	if !pos.AlmostEqual(vec.New(21, 6), 1e-12) {
		t.Errorf("drag after release moved the node to %v", pos)
	}
}

func TestDragUnknownHandle(t *testing.T) {
	g := New(false, false)
	if err := g.StartDrag(NodeID(1), vec.Zero(2)); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
	if g.Held(NodeID(1)) {
		t.Error("unknown handle must not be held")
	}
}
