// Package layout runs the force-directed simulation that turns a graph
// into 2-D positions.
//
// # Force Model
//
// Each tick considers every unordered pair of nodes in the same weak
// component; nodes in different components never exert force on each
// other, so disjoint subgraphs settle independently instead of drifting
// apart forever. For a pair at distance d along unit axis u:
//
//   - every pair repels with magnitude 1/d² (scaled by
//     [Options.RepulsionStrength])
//   - adjacent pairs also feel a linear spring -(d-rest)/10 style pull
//     toward the rest length, applied with the same ±u convention and
//     independent of edge direction
//
// A pair at distance zero has no axis to push along. The engine instead
// nudges the first node with a small random jitter and leaves the pair for
// the next tick to separate.
//
// # Deferred Integration
//
// Forces accumulate in per-node queues while a tick walks the pairs, and
// positions only change once every pair has been visited. Each node's
// motion therefore depends on the sum of forces computed against one
// consistent snapshot of positions, never on a neighbor that already moved
// this tick.
//
// A node that is drag-held discards its accumulated forces in
// [Engine.Evaluate]: while the pointer owns a node, the simulation does
// not fight it.
//
// # Group Rotation
//
// [Engine.RotateGroup] spins every node reachable from a set of pivot
// nodes around their average position. It is the backing operation for
// rotating a selection with the scroll wheel.
//
// # Driving the Simulation
//
// Interactive frontends call [Engine.Step] once per [Tick] and render
// afterwards. Batch callers use [Engine.Run] to iterate flat out, and
// [Engine.Scatter] to give imported graphs a sane starting configuration.
// The simulation has no convergence criterion; it runs while enabled.
package layout
