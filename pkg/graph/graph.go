package graph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jmerkel/nodepad/pkg/vec"
)

var (
	// ErrUnknownNode indicates an operation referenced a node handle that
	// does not exist in the graph.
	ErrUnknownNode = errors.New("unknown node handle")
	// ErrUnknownEdge indicates an operation referenced an edge that does
	// not exist in the graph.
	ErrUnknownEdge = errors.New("unknown edge")
)

// DefaultWeight is the weight assigned to edges created without an explicit
// weight, and to edges re-created by Complement.
const DefaultWeight = 1

// NodeID is a stable handle identifying a node for the lifetime of the
// graph. Handles are never reused and the zero value is never issued, so a
// NodeID can be stored and compared freely by callers. All adjacency is
// keyed on handles, never on labels.
type NodeID int

// Node is the structural record of a graph node. Spatial and interaction
// state lives in the node's [Placement] under the same handle, keeping the
// structural model independent of any particular frontend.
type Node struct {
	ID    NodeID
	Label string
}

// Edge is a directed connection between two nodes. In an undirected graph
// every logical connection is stored as two Edge records, one per
// direction, kept consistent as a unit: queries over either endpoint see
// the connection.
type Edge struct {
	From   NodeID
	To     NodeID
	Weight float64
}

// Placement carries the spatial and pointer-interaction state of a node.
// Pos may be read and written directly by layout code; drag and selection
// flags are only mutated through the Graph methods.
type Placement struct {
	Pos vec.Vector

	selected bool
	held     bool
	grab     vec.Vector
}

// Selected reports whether the node is part of the current selection.
func (p *Placement) Selected() bool { return p.selected }

// Held reports whether the node is currently drag-held by a pointer.
// Simulation code must not write Pos while this is true.
func (p *Placement) Held() bool { return p.held }

// Graph is a dynamic directed or undirected graph with optional edge
// weights. It maintains its weak-component partition and, when a root is
// set, a breadth-first distance map, both recomputed synchronously after
// every structural mutation.
//
// Graph is not safe for concurrent use. The intended model is a single
// driving loop interleaving edits and simulation ticks.
type Graph struct {
	directed bool
	weighted bool

	nextID NodeID
	nodes  map[NodeID]*Node
	place  map[NodeID]*Placement
	order  []NodeID

	edges []*Edge
	adj   map[NodeID]map[NodeID]*Edge
	radj  map[NodeID]map[NodeID]*Edge

	components []NodeSet
	compIndex  map[NodeID]int

	root    NodeID
	rootSet bool
	depths  map[int]NodeSet
}

// New creates an empty graph with the given orientation and weighting.
func New(directed, weighted bool) *Graph {
	return &Graph{
		directed:  directed,
		weighted:  weighted,
		nodes:     make(map[NodeID]*Node),
		place:     make(map[NodeID]*Placement),
		adj:       make(map[NodeID]map[NodeID]*Edge),
		radj:      make(map[NodeID]map[NodeID]*Edge),
		compIndex: make(map[NodeID]int),
	}
}

// IsDirected reports whether edges are oriented.
func (g *Graph) IsDirected() bool { return g.directed }

// IsWeighted reports whether edge weights are meaningful.
func (g *Graph) IsWeighted() bool { return g.weighted }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of directed edge records. An undirected
// connection counts twice, once per direction.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// AddNode appends a new node with the given label at the origin and
// returns its handle.
func (g *Graph) AddNode(label string) NodeID {
	return g.AddNodeAt(label, vec.Zero(2))
}

// AddNodeAt appends a new node with the given label and initial position
// and returns its handle.
func (g *Graph) AddNodeAt(label string, pos vec.Vector) NodeID {
	g.nextID++
	id := g.nextID
	g.nodes[id] = &Node{ID: id, Label: label}
	g.place[id] = &Placement{Pos: pos.Clone()}
	g.order = append(g.order, id)
	g.adj[id] = make(map[NodeID]*Edge)
	g.radj[id] = make(map[NodeID]*Edge)
	g.recomputeDerived()
	return id
}

// RemoveNode removes the node and every incident edge, and drops the node
// from root, selection and drag state. Removing the root node clears the
// root first.
func (g *Graph) RemoveNode(id NodeID) error {
	if err := g.check(id); err != nil {
		return err
	}
	if g.rootSet && g.root == id {
		g.rootSet = false
		g.root = 0
	}
	for to := range g.adj[id] {
		g.removeRecord(id, to)
	}
	for from := range g.radj[id] {
		g.removeRecord(from, id)
	}
	delete(g.nodes, id)
	delete(g.place, id)
	delete(g.adj, id)
	delete(g.radj, id)
	g.order = slices.DeleteFunc(g.order, func(n NodeID) bool { return n == id })
	g.recomputeDerived()
	return nil
}

// Node returns the structural record for the handle.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Placement returns the spatial state for the handle. The returned pointer
// stays valid until the node is removed.
func (g *Graph) Placement(id NodeID) (*Placement, bool) {
	p, ok := g.place[id]
	return p, ok
}

// Nodes returns the structural node records in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// NodeIDs returns all handles in insertion order.
func (g *Graph) NodeIDs() []NodeID {
	return slices.Clone(g.order)
}

// SetLabel replaces the node's label.
func (g *Graph) SetLabel(id NodeID, label string) error {
	if err := g.check(id); err != nil {
		return err
	}
	g.nodes[id].Label = label
	return nil
}

// AddEdge creates the edge a→b with the default weight. See
// [Graph.AddWeightedEdge] for the exact semantics.
func (g *Graph) AddEdge(a, b NodeID) error {
	return g.AddWeightedEdge(a, b, DefaultWeight)
}

// AddWeightedEdge creates the edge a→b. In an undirected graph the reverse
// record b→a is created with the same weight as one atomic unit.
//
// Two cases are policy no-ops, not errors: a self-loop on an undirected
// graph (loops are only meaningful with orientation) and an edge that
// already exists. Both leave the graph unchanged and return nil.
func (g *Graph) AddWeightedEdge(a, b NodeID, weight float64) error {
	if err := g.check(a, b); err != nil {
		return err
	}
	if !g.directed && a == b {
		return nil
	}
	if _, ok := g.adj[a][b]; ok {
		return nil
	}
	g.addRecord(Edge{From: a, To: b, Weight: weight})
	if !g.directed && a != b {
		g.addRecord(Edge{From: b, To: a, Weight: weight})
	}
	g.recomputeDerived()
	return nil
}

// RemoveEdge removes the edge a→b, and b→a as well when the graph is
// undirected. Removing an absent edge is a no-op.
func (g *Graph) RemoveEdge(a, b NodeID) error {
	if err := g.check(a, b); err != nil {
		return err
	}
	if _, ok := g.adj[a][b]; !ok {
		return nil
	}
	g.removeRecord(a, b)
	if !g.directed && a != b {
		g.removeRecord(b, a)
	}
	g.recomputeDerived()
	return nil
}

// ToggleEdge removes the edge a→b if it exists and creates it otherwise.
func (g *Graph) ToggleEdge(a, b NodeID) error {
	if err := g.check(a, b); err != nil {
		return err
	}
	if _, ok := g.adj[a][b]; ok {
		return g.RemoveEdge(a, b)
	}
	return g.AddEdge(a, b)
}

// HasEdge reports whether the edge a→b exists. Unknown handles report
// false.
func (g *Graph) HasEdge(a, b NodeID) bool {
	_, ok := g.adj[a][b]
	return ok
}

// Edges returns a copy of all directed edge records in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = *e
	}
	return out
}

// Adjacent returns the targets of the node's outgoing edges in ascending
// handle order. In an undirected graph this is the full neighborhood,
// since every connection is stored in both directions.
func (g *Graph) Adjacent(id NodeID) []NodeID {
	return g.targets(id)
}

// Weight returns the weight of the edge a→b, or false if no such edge
// exists.
func (g *Graph) Weight(a, b NodeID) (float64, bool) {
	e, ok := g.adj[a][b]
	if !ok {
		return 0, false
	}
	return e.Weight, true
}

// SetWeight updates the weight of the edge a→b. In an undirected graph the
// reverse record is updated as well so the pair stays consistent. Returns
// ErrUnknownEdge if the edge does not exist.
func (g *Graph) SetWeight(a, b NodeID, weight float64) error {
	if err := g.check(a, b); err != nil {
		return err
	}
	e, ok := g.adj[a][b]
	if !ok {
		return fmt.Errorf("edge %d->%d: %w", a, b, ErrUnknownEdge)
	}
	e.Weight = weight
	if !g.directed && a != b {
		g.adj[b][a].Weight = weight
	}
	return nil
}

// SetWeighted flips whether weights are meaningful. Stored weights are
// retained either way so toggling back does not lose information.
func (g *Graph) SetWeighted(weighted bool) {
	g.weighted = weighted
}

// SetDirected flips the graph's orientation. Making an undirected graph
// directed changes no edges. Making a directed graph undirected
// symmetrizes it: self-loops are removed and every one-directional edge
// gains its reverse with the same weight, so every connection becomes
// bidirectional.
func (g *Graph) SetDirected(directed bool) {
	if directed == g.directed {
		return
	}
	if directed {
		g.directed = true
		g.recomputeDerived()
		return
	}
	g.directed = false
	for _, e := range slices.Clone(g.edges) {
		if e.From == e.To {
			g.removeRecord(e.From, e.To)
			continue
		}
		if _, ok := g.adj[e.To][e.From]; !ok {
			g.addRecord(Edge{From: e.To, To: e.From, Weight: e.Weight})
		}
	}
	g.recomputeDerived()
}

// Symmetrize adds the reverse of every one-directional edge, preserving
// its weight, so the edge relation becomes symmetric while the graph
// stays directed. Self-loops are their own reverse and are untouched.
// Undirected graphs are symmetric already, so this is a no-op for them.
func (g *Graph) Symmetrize() {
	if !g.directed {
		return
	}
	changed := false
	for _, e := range slices.Clone(g.edges) {
		if _, ok := g.adj[e.To][e.From]; !ok {
			g.addRecord(Edge{From: e.To, To: e.From, Weight: e.Weight})
			changed = true
		}
	}
	if changed {
		g.recomputeDerived()
	}
}

// Reorient flips every unordered pair that has exactly one of its two
// possible directions present, preserving the edge's weight. Pairs with
// both directions or neither are untouched, as are self-loops. Applying
// Reorient twice restores the original graph.
func (g *Graph) Reorient() {
	type flip struct {
		from, to NodeID
		weight   float64
	}
	var flips []flip
	for _, e := range g.edges {
		if e.From == e.To {
			continue
		}
		if _, ok := g.adj[e.To][e.From]; ok {
			continue
		}
		flips = append(flips, flip{e.From, e.To, e.Weight})
	}
	if len(flips) == 0 {
		return
	}
	for _, f := range flips {
		g.removeRecord(f.from, f.to)
		g.addRecord(Edge{From: f.to, To: f.from, Weight: f.weight})
	}
	g.recomputeDerived()
}

// Complement toggles the edge a→b for every unordered pair of distinct
// nodes; in a directed graph b→a is toggled independently. Self-pairs are
// never toggled. Created edges get the default weight, so on unweighted
// graphs applying Complement twice restores the original graph.
func (g *Graph) Complement() {
	ids := slices.Clone(g.order)
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			g.togglePair(a, b)
			if g.directed {
				g.togglePair(b, a)
			}
		}
	}
	g.recomputeDerived()
}

// togglePair toggles the single record a→b, keeping the reverse record in
// sync when the graph is undirected. Derived state is left stale for the
// caller to recompute once.
func (g *Graph) togglePair(a, b NodeID) {
	if _, ok := g.adj[a][b]; ok {
		g.removeRecord(a, b)
		if !g.directed {
			g.removeRecord(b, a)
		}
		return
	}
	g.addRecord(Edge{From: a, To: b, Weight: DefaultWeight})
	if !g.directed {
		g.addRecord(Edge{From: b, To: a, Weight: DefaultWeight})
	}
}

func (g *Graph) addRecord(e Edge) {
	ptr := &e
	g.edges = append(g.edges, ptr)
	g.adj[e.From][e.To] = ptr
	g.radj[e.To][e.From] = ptr
}

func (g *Graph) removeRecord(from, to NodeID) {
	if _, ok := g.adj[from][to]; !ok {
		return
	}
	delete(g.adj[from], to)
	delete(g.radj[to], from)
	g.edges = slices.DeleteFunc(g.edges, func(e *Edge) bool {
		return e.From == from && e.To == to
	})
}

// targets returns the outgoing neighbors of id in ascending handle order.
func (g *Graph) targets(id NodeID) []NodeID {
	out := make([]NodeID, 0, len(g.adj[id]))
	for to := range g.adj[id] {
		out = append(out, to)
	}
	slices.Sort(out)
	return out
}

// check validates that every handle refers to a live node.
func (g *Graph) check(ids ...NodeID) error {
	for _, id := range ids {
		if _, ok := g.nodes[id]; !ok {
			return fmt.Errorf("node %d: %w", id, ErrUnknownNode)
		}
	}
	return nil
}

// recomputeDerived rebuilds the component partition and, when a root is
// set, the distance map. Every structural mutator calls this as its last
// step.
func (g *Graph) recomputeDerived() {
	g.recomputeComponents()
	g.recomputeDistances()
}
