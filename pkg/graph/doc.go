// Package graph provides the dynamic graph model behind an interactive
// graph editor: nodes referenced by stable handles, directed or undirected
// edges with optional weights, and derived connectivity state maintained
// under live edits.
//
// # Overview
//
// A [Graph] is built incrementally, the way a user draws: nodes appear one
// at a time, edges are toggled between them, whole-graph operations like
// [Graph.Complement] and [Graph.Reorient] rewrite the edge set in place.
// After every structural mutation the graph synchronously recomputes its
// weak-component partition, so connectivity queries are always answered
// from current state and never trigger traversals of their own.
//
// # Handles
//
// Nodes are identified by [NodeID] handles issued from an internal counter.
// Handles are stable for the life of the graph and never reused, which
// makes them safe to hold across arbitrary mutations. Two nodes with the
// same label are still distinct nodes; nothing in the model compares
// labels.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.AddNode], and connect
// them with [Graph.AddEdge]:
//
//	g := graph.New(false, false)
//	a := g.AddNode("A")
//	b := g.AddNode("B")
//	_ = g.AddEdge(a, b)
//
// On an undirected graph every logical connection is stored as two edge
// records, one per direction, kept consistent as a unit. Queries such as
// [Graph.Adjacent] and [Graph.HasEdge] therefore see the connection from
// both endpoints.
//
// # Connectivity
//
// [Graph.WeaklyConnected] answers whether a path exists between two nodes
// ignoring edge direction; [Graph.Components] exposes the full partition.
// Setting a root with [Graph.SetRoot] additionally maintains a
// breadth-first distance map, see [Graph.DistancesFromRoot].
//
// # Interaction State
//
// Each node owns a [Placement] holding its world position, selection flag
// and drag state. The placement lives beside the structural [Node] record
// under the same handle, so the structural model stays free of frontend
// concerns. A drag-held node is excluded from simulation writes; the force
// engine checks [Placement.Held] before applying accumulated forces.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The intended driver is
// a single loop interleaving pointer edits and simulation ticks.
//
// # Related Packages
//
// The [text] subpackage reads and writes the line-based wire format. The
// layout package runs the force simulation over node placements, and the
// view package maps world coordinates to screen coordinates.
//
// [text]: github.com/jmerkel/nodepad/pkg/graph/text
package graph
