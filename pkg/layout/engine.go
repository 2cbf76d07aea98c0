package layout

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/vec"
)

// Defaults for the force model. The spring rest length and strengths are
// tuned for graphs drawn at world scale, where nodes have unit radius.
const (
	DefaultRestLength         = 8.0
	DefaultRepulsionStrength  = 1.0
	DefaultAttractionStrength = 0.1
	DefaultJitter             = 1.0
)

// Tick is the nominal cadence of an interactive simulation loop.
const Tick = 17 * time.Millisecond

// Options tune the force model.
type Options struct {
	// RestLength is the distance at which the spring between connected
	// nodes is relaxed. Closer pairs are pushed apart, farther pairs
	// pulled together.
	RestLength float64
	// RepulsionStrength scales the inverse-square repulsion applied to
	// every weakly connected pair.
	RepulsionStrength float64
	// AttractionStrength scales the linear spring applied to adjacent
	// pairs.
	AttractionStrength float64
	// Jitter is the magnitude of the random nudge that breaks up pairs
	// sitting at distance zero.
	Jitter float64
	// Seed makes the jitter reproducible. Zero picks a time-derived seed.
	Seed uint64
}

func (o Options) withDefaults() Options {
	if o.RestLength == 0 {
		o.RestLength = DefaultRestLength
	}
	if o.RepulsionStrength == 0 {
		o.RepulsionStrength = DefaultRepulsionStrength
	}
	if o.AttractionStrength == 0 {
		o.AttractionStrength = DefaultAttractionStrength
	}
	if o.Jitter == 0 {
		o.Jitter = DefaultJitter
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
	return o
}

// Engine accumulates pairwise forces over a graph's node placements and
// integrates them into positions. Forces are deferred: a tick queues every
// pair's contribution against a consistent snapshot of positions, and only
// then moves nodes, so pair visiting order never biases the result.
//
// Engine is not safe for concurrent use, matching the single-loop model of
// the graph it drives.
type Engine struct {
	opts    Options
	rng     *rand.Rand
	pending map[graph.NodeID][]vec.Vector
}

// New creates an engine. Zero fields in opts fall back to the defaults.
func New(opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		opts:    opts,
		rng:     rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b9)),
		pending: make(map[graph.NodeID][]vec.Vector),
	}
}

// AddForce queues a force against the node. Nothing moves until the node
// is evaluated.
func (e *Engine) AddForce(id graph.NodeID, f vec.Vector) {
	e.pending[id] = append(e.pending[id], f)
}

// ClearForces drops the node's queued forces.
func (e *Engine) ClearForces(id graph.NodeID) {
	delete(e.pending, id)
}

// ClearAll drops every queued force.
func (e *Engine) ClearAll() {
	e.pending = make(map[graph.NodeID][]vec.Vector)
}

// Evaluate drains the node's queued forces and adds their sum to its
// position. A drag-held node discards its forces unmoved: the simulation
// never fights the pointer.
func (e *Engine) Evaluate(g *graph.Graph, id graph.NodeID) {
	forces := e.pending[id]
	delete(e.pending, id)

	p, ok := g.Placement(id)
	if !ok || p.Held() || len(forces) == 0 {
		return
	}
	sum := vec.Zero(p.Pos.Dim())
	for _, f := range forces {
		sum = sum.Add(f)
	}
	p.Pos = p.Pos.Add(sum)
}

// Step runs one simulation tick: queue forces for every weakly connected
// pair of nodes, then evaluate every node. Disconnected components never
// interact. When enabled is false the tick does nothing, which is how the
// frontend pauses the simulation without tearing the loop down.
func (e *Engine) Step(g *graph.Graph, enabled bool) {
	if !enabled {
		return
	}
	ids := g.NodeIDs()
	for i, a := range ids {
		pa, ok := g.Placement(a)
		if !ok {
			continue
		}
		for _, b := range ids[i+1:] {
			if !g.WeaklyConnected(a, b) {
				continue
			}
			pb, _ := g.Placement(b)
			d := pa.Pos.Dist(pb.Pos)
			if d == 0 {
				// Coincident nodes have no direction to push along.
				// Nudge the first one and let the next tick separate
				// them properly.
				e.AddForce(a, e.jitter())
				continue
			}
			u := pb.Pos.Sub(pa.Pos).Unit()
			e.applyPair(a, b, u, e.opts.RepulsionStrength/(d*d))
			if g.HasEdge(a, b) || g.HasEdge(b, a) {
				e.applyPair(a, b, u, -(d-e.opts.RestLength)*e.opts.AttractionStrength)
			}
		}
	}
	for _, id := range ids {
		e.Evaluate(g, id)
	}
}

// applyPair queues magnitude f along the pair axis u, pushing a and b
// apart for positive f and together for negative f.
func (e *Engine) applyPair(a, b graph.NodeID, u vec.Vector, f float64) {
	e.AddForce(a, u.Scale(-f))
	e.AddForce(b, u.Scale(f))
}

func (e *Engine) jitter() vec.Vector {
	return vec.New(e.rng.Float64()*e.opts.Jitter, e.rng.Float64()*e.opts.Jitter)
}

// RotateGroup rotates every node weakly connected to any pivot node by
// angle radians about the average position of the pivots. Each node moves
// exactly once no matter how many pivots share its component; nodes in
// other components are untouched.
func (e *Engine) RotateGroup(g *graph.Graph, pivots []graph.NodeID, angle float64) error {
	if len(pivots) == 0 {
		return nil
	}
	positions := make([]vec.Vector, len(pivots))
	for i, id := range pivots {
		pos, err := g.Position(id)
		if err != nil {
			return err
		}
		positions[i] = pos
	}
	pivot := vec.Average(positions...)

	for id := range g.ConnectedToAny(pivots...) {
		p, _ := g.Placement(id)
		p.Pos = p.Pos.Rotated(angle, pivot)
	}
	return nil
}

// Run drives Step for a fixed number of iterations without pacing, for
// batch layout. It stops early if ctx is canceled.
func (e *Engine) Run(ctx context.Context, g *graph.Graph, iterations int) error {
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Step(g, true)
	}
	return nil
}
