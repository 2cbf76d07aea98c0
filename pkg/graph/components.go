package graph

import "slices"

// NodeSet is an unordered set of node handles.
type NodeSet map[NodeID]struct{}

// NewNodeSet builds a set from the given handles.
func NewNodeSet(ids ...NodeID) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s NodeSet) Add(id NodeID) { s[id] = struct{}{} }

// Has reports whether id is in the set.
func (s NodeSet) Has(id NodeID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s NodeSet) Len() int { return len(s) }

// Members returns the handles in ascending order.
func (s NodeSet) Members() []NodeID {
	out := make([]NodeID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy of the set.
func (s NodeSet) Clone() NodeSet {
	out := make(NodeSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Intersects reports whether the two sets share at least one member.
func (s NodeSet) Intersects(t NodeSet) bool {
	small, large := s, t
	if len(t) < len(s) {
		small, large = t, s
	}
	for id := range small {
		if large.Has(id) {
			return true
		}
	}
	return false
}

// Union adds every member of t to s and returns s.
func (s NodeSet) Union(t NodeSet) NodeSet {
	for id := range t {
		s[id] = struct{}{}
	}
	return s
}

// Equal reports whether the two sets have exactly the same members.
func (s NodeSet) Equal(t NodeSet) bool {
	if len(s) != len(t) {
		return false
	}
	for id := range s {
		if !t.Has(id) {
			return false
		}
	}
	return true
}

// recomputeComponents rebuilds the weak-component partition by scanning
// nodes in insertion order. Each node contributes the candidate set of
// itself plus its neighborhood ignoring edge direction; every accumulated
// set sharing a member with the candidate is merged into it. The scan
// order affects intermediate merges but not the final partition. Quadratic
// in the node count, which is fine at once per discrete edit.
func (g *Graph) recomputeComponents() {
	components := make([]NodeSet, 0, len(g.order))
	for _, id := range g.order {
		candidate := NewNodeSet(id)
		for nb := range g.adj[id] {
			candidate.Add(nb)
		}
		for nb := range g.radj[id] {
			candidate.Add(nb)
		}
		kept := components[:0]
		for _, c := range components {
			if candidate.Intersects(c) {
				candidate.Union(c)
			} else {
				kept = append(kept, c)
			}
		}
		components = append(kept, candidate)
	}
	g.components = components

	g.compIndex = make(map[NodeID]int, len(g.order))
	for i, c := range components {
		for id := range c {
			g.compIndex[id] = i
		}
	}
}

// WeaklyConnected reports whether a path exists between a and b ignoring
// edge direction. Every node is weakly connected to itself. Unknown
// handles report false.
func (g *Graph) WeaklyConnected(a, b NodeID) bool {
	ia, ok := g.compIndex[a]
	if !ok {
		return false
	}
	ib, ok := g.compIndex[b]
	return ok && ia == ib
}

// Component returns a copy of the weak component containing id, or an
// empty set for an unknown handle.
func (g *Graph) Component(id NodeID) NodeSet {
	i, ok := g.compIndex[id]
	if !ok {
		return NodeSet{}
	}
	return g.components[i].Clone()
}

// Components returns a copy of the full partition. The sets are disjoint
// and together cover every node.
func (g *Graph) Components() []NodeSet {
	out := make([]NodeSet, len(g.components))
	for i, c := range g.components {
		out[i] = c.Clone()
	}
	return out
}

// ConnectedToAny returns the union of the weak components containing any
// of the given handles. Unknown handles contribute nothing.
func (g *Graph) ConnectedToAny(ids ...NodeID) NodeSet {
	out := NodeSet{}
	seen := make(map[int]bool)
	for _, id := range ids {
		i, ok := g.compIndex[id]
		if !ok || seen[i] {
			continue
		}
		seen[i] = true
		out.Union(g.components[i])
	}
	return out
}
