package graph

import "github.com/jmerkel/nodepad/pkg/vec"

// Position returns the node's current world position.
func (g *Graph) Position(id NodeID) (vec.Vector, error) {
	p, ok := g.place[id]
	if !ok {
		return nil, g.check(id)
	}
	return p.Pos.Clone(), nil
}

// SetPosition moves the node to the given world position.
func (g *Graph) SetPosition(id NodeID, pos vec.Vector) error {
	p, ok := g.place[id]
	if !ok {
		return g.check(id)
	}
	p.Pos = pos.Clone()
	return nil
}

// Select adds the node to the selection.
func (g *Graph) Select(id NodeID) error {
	p, ok := g.place[id]
	if !ok {
		return g.check(id)
	}
	p.selected = true
	return nil
}

// Deselect removes the node from the selection.
func (g *Graph) Deselect(id NodeID) error {
	p, ok := g.place[id]
	if !ok {
		return g.check(id)
	}
	p.selected = false
	return nil
}

// ToggleSelect flips the node's selection flag.
func (g *Graph) ToggleSelect(id NodeID) error {
	p, ok := g.place[id]
	if !ok {
		return g.check(id)
	}
	p.selected = !p.selected
	return nil
}

// SelectAll selects every node.
func (g *Graph) SelectAll() {
	for _, p := range g.place {
		p.selected = true
	}
}

// DeselectAll clears the selection.
func (g *Graph) DeselectAll() {
	for _, p := range g.place {
		p.selected = false
	}
}

// IsSelected reports whether the node is selected. Unknown handles report
// false.
func (g *Graph) IsSelected(id NodeID) bool {
	p, ok := g.place[id]
	return ok && p.selected
}

// Selected returns the selected handles in insertion order.
func (g *Graph) Selected() []NodeID {
	var out []NodeID
	for _, id := range g.order {
		if g.place[id].selected {
			out = append(out, id)
		}
	}
	return out
}

// StartDrag marks the node as drag-held and records the offset between its
// position and the pointer, so the node tracks the pointer without
// snapping its center to it. While held, the simulation discards any
// forces queued for the node.
func (g *Graph) StartDrag(id NodeID, pointer vec.Vector) error {
	p, ok := g.place[id]
	if !ok {
		return g.check(id)
	}
	p.held = true
	p.grab = p.Pos.Sub(pointer)
	return nil
}

// Drag moves a held node to follow the pointer, preserving the grab
// offset. Dragging a node that is not held is a no-op.
func (g *Graph) Drag(id NodeID, pointer vec.Vector) error {
	p, ok := g.place[id]
	if !ok {
		return g.check(id)
	}
	if !p.held {
		return nil
	}
	p.Pos = pointer.Add(p.grab)
	return nil
}

// StopDrag releases the node back to the simulation.
func (g *Graph) StopDrag(id NodeID) error {
	p, ok := g.place[id]
	if !ok {
		return g.check(id)
	}
	p.held = false
	p.grab = nil
	return nil
}

// Held reports whether the node is currently drag-held. Unknown handles
// report false.
func (g *Graph) Held(id NodeID) bool {
	p, ok := g.place[id]
	return ok && p.held
}
