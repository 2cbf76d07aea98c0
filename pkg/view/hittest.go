package view

import (
	"math"
	"strconv"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/vec"
)

const (
	// NodeRadius is the hit radius of a node in world units.
	NodeRadius = 1.0

	// Weight label boxes are measured in world units. The height and
	// per-character width stand in for the renderer's font metrics.
	labelHeight    = 0.64
	labelCharWidth = 0.32

	// When a directed edge has an antiparallel partner, the drawn
	// endpoints of each swing apart by this angle about their nodes so
	// the two weight labels do not land on top of each other.
	labelSeparation = math.Pi / 7
)

// Offset from a node's center to the label anchor of its self-loop,
// matching where the loop is drawn relative to the node.
var loopLabelOffset = vec.New(0.5, 1).Add(vec.New(0.5, 0).Rotated(math.Pi/4, vec.Zero(2)))

// NodeAt returns the first node whose position lies within [NodeRadius]
// of the world point, scanning in insertion order. A nearer node added
// later never wins over an earlier hit; the stable order keeps repeated
// clicks on overlapping nodes picking the same one.
func NodeAt(g *graph.Graph, world vec.Vector) (graph.NodeID, bool) {
	for _, id := range g.NodeIDs() {
		pos, err := g.Position(id)
		if err != nil {
			continue
		}
		if world.Dist(pos) <= NodeRadius {
			return id, true
		}
	}
	return 0, false
}

// EdgeLabelHit reports whether the world point falls inside the weight
// label box of the given edge record. Only the label is hit-testable,
// not the edge's line segment, and unweighted graphs have no labels at
// all, so the query is always false for them.
func EdgeLabelHit(g *graph.Graph, world vec.Vector, e graph.Edge) bool {
	if !g.IsWeighted() {
		return false
	}
	anchor, ok := labelAnchor(g, e)
	if !ok {
		return false
	}
	w, h := labelExtent(e.Weight)
	d := world.Sub(anchor)
	return math.Abs(d.X()) <= w/2 && math.Abs(d.Y()) <= h/2
}

// EdgeLabelAt returns the first edge record whose weight label box
// contains the world point, in record insertion order.
func EdgeLabelAt(g *graph.Graph, world vec.Vector) (graph.Edge, bool) {
	if !g.IsWeighted() {
		return graph.Edge{}, false
	}
	for _, e := range g.Edges() {
		if EdgeLabelHit(g, world, e) {
			return e, true
		}
	}
	return graph.Edge{}, false
}

// labelAnchor computes the world point a weight label is centered on.
// Regular edges use the midpoint of the drawn segment, whose endpoints
// are inset one node radius from each node. Self-loops hang the label
// off the loop ellipse instead.
func labelAnchor(g *graph.Graph, e graph.Edge) (vec.Vector, bool) {
	from, err := g.Position(e.From)
	if err != nil {
		return nil, false
	}
	if e.From == e.To {
		return from.Sub(loopLabelOffset), true
	}
	to, err := g.Position(e.To)
	if err != nil {
		return nil, false
	}
	u := to.Sub(from).Unit()
	start := from.Add(u)
	end := to.Sub(u)
	if g.IsDirected() && g.HasEdge(e.To, e.From) {
		start = start.Rotated(labelSeparation, from)
		end = end.Rotated(-labelSeparation, to)
	}
	return vec.Average(start, end), true
}

// labelExtent approximates the drawn size of a weight label. The box is
// never narrower than it is tall, so single digits still get a square
// click target.
func labelExtent(weight float64) (w, h float64) {
	text := strconv.FormatFloat(weight, 'f', -1, 64)
	w = float64(len(text)) * labelCharWidth
	if w < labelHeight {
		w = labelHeight
	}
	return w, labelHeight
}
