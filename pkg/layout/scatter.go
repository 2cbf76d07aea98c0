package layout

import (
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/vec"
)

// DefaultScatterSide is the side length of the square freshly imported
// nodes are scattered over. A compact cluster works better than a wide one
// because the simulation expands it from local information.
const DefaultScatterSide = 1.0

// Placer returns a placement function that drops successive nodes at
// uniformly random points in the square [0, side)². It satisfies the text
// codec's Place hook, so imported graphs do not start as a single
// degenerate stack. A non-positive side falls back to the default.
func (e *Engine) Placer(side float64) func(int) vec.Vector {
	if side <= 0 {
		side = DefaultScatterSide
	}
	return func(int) vec.Vector {
		return vec.New(e.rng.Float64()*side, e.rng.Float64()*side)
	}
}

// Scatter repositions every node of g at a random point in the square
// [0, side)², discarding current positions. Drag-held nodes are left
// where the pointer has them.
func (e *Engine) Scatter(g *graph.Graph, side float64) {
	place := e.Placer(side)
	for i, id := range g.NodeIDs() {
		p, ok := g.Placement(id)
		if !ok || p.Held() {
			continue
		}
		p.Pos = place(i)
	}
}
