// Package text reads and writes the line-based wire format for graphs.
//
// # Format
//
// A graph file is a sequence of edge lines. Blank lines and lines starting
// with '#' are ignored. The first payload line fixes the mode for the
// whole file:
//
//	A B        undirected, unweighted
//	A -> B     directed, unweighted
//	A <- B     directed, the edge runs B to A
//	A B 5      undirected, weighted
//	A -> B 5   directed, weighted
//
// An arrow as the second token means the file is directed; a trailing
// numeric token means it is weighted. Every subsequent line must have the
// same shape as the first, otherwise the load fails. Node names are
// arbitrary whitespace-free tokens; the first occurrence of a name creates
// the node with that name as its label.
//
// # Failure Semantics
//
// Parsing is all-or-nothing. Any malformed line aborts the load with a
// [ParseError] carrying the 1-based line number, and no partially built
// graph is returned.
//
// # Round Trips
//
// [Format] writes any graph the parser can produce back out in canonical
// form: one line per undirected connection, '->' for every directed edge,
// weights only when the graph is weighted. Parsing the output yields an
// equivalent graph. Nodes without labels are assigned small increasing
// integers as placeholder names. Isolated nodes have no representation in
// the format and are dropped on write.
package text
