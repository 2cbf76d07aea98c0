package pipeline

import (
	"context"
	"fmt"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/layout"
	"github.com/jmerkel/nodepad/pkg/vec"
)

// ComputeLayout scatters g's nodes and runs the force simulation for the
// configured number of iterations. The graph is modified in place; the
// returned positions are in NodeIDs order.
func ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) ([][]float64, error) {
	opts.SetLayoutDefaults()

	eng := layout.New(opts.EngineOptions())
	eng.Scatter(g, opts.ScatterSide)
	if err := eng.Run(ctx, g, opts.Iterations); err != nil {
		return nil, err
	}
	return CollectPositions(g), nil
}

// CollectPositions returns every node position in NodeIDs order.
func CollectPositions(g *graph.Graph) [][]float64 {
	ids := g.NodeIDs()
	out := make([][]float64, 0, len(ids))
	for _, id := range ids {
		pos, err := g.Position(id)
		if err != nil {
			continue
		}
		out = append(out, []float64{pos.X(), pos.Y()})
	}
	return out
}

// ApplyPositions writes positions onto g's nodes in NodeIDs order. The
// count must match the node count exactly, so stale cached layouts are
// rejected rather than applied to the wrong nodes.
func ApplyPositions(g *graph.Graph, positions [][]float64) error {
	ids := g.NodeIDs()
	if len(positions) != len(ids) {
		return fmt.Errorf("position count %d does not match node count %d", len(positions), len(ids))
	}
	for i, id := range ids {
		if len(positions[i]) != 2 {
			return fmt.Errorf("position %d has %d coordinates, want 2", i, len(positions[i]))
		}
		p, ok := g.Placement(id)
		if !ok {
			continue
		}
		p.Pos = vec.New(positions[i][0], positions[i][1])
	}
	return nil
}
