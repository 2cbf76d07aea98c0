package graph

// SetRoot designates the node breadth-first distances are measured from
// and rebuilds the distance map.
func (g *Graph) SetRoot(id NodeID) error {
	if err := g.check(id); err != nil {
		return err
	}
	g.root = id
	g.rootSet = true
	g.recomputeDistances()
	return nil
}

// ClearRoot removes the root designation and empties the distance map.
func (g *Graph) ClearRoot() {
	g.root = 0
	g.rootSet = false
	g.depths = nil
}

// Root returns the current root handle, or false if none is set.
func (g *Graph) Root() (NodeID, bool) {
	return g.root, g.rootSet
}

// DistancesFromRoot returns a copy of the distance map: BFS depth to the
// set of nodes first reached at that depth. Depth 0 holds only the root;
// every reachable node appears in exactly one bucket. Traversal follows
// edge orientation, so on a directed graph nodes with no directed path
// from the root are absent. The map is empty when no root is set.
func (g *Graph) DistancesFromRoot() map[int]NodeSet {
	out := make(map[int]NodeSet, len(g.depths))
	for depth, s := range g.depths {
		out[depth] = s.Clone()
	}
	return out
}

// recomputeDistances rebuilds the depth buckets from the current root.
func (g *Graph) recomputeDistances() {
	g.depths = nil
	if !g.rootSet {
		return
	}
	depths := map[int]NodeSet{0: NewNodeSet(g.root)}
	visited := NewNodeSet(g.root)
	type frontier struct {
		id    NodeID
		depth int
	}
	queue := []frontier{{g.root, 1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range g.targets(cur.id) {
			if visited.Has(nb) {
				continue
			}
			visited.Add(nb)
			if depths[cur.depth] == nil {
				depths[cur.depth] = NodeSet{}
			}
			depths[cur.depth].Add(nb)
			queue = append(queue, frontier{nb, cur.depth + 1})
		}
	}
	g.depths = depths
}
