// Package gio moves graphs between files and the in-memory model.
//
// # Overview
//
// The on-disk representation is the line format documented in
// [github.com/jmerkel/nodepad/pkg/graph/text]: one edge per line, with
// the first payload line fixing whether the file is directed and
// weighted. This package adds the file handling around that codec:
//
//   - [Import] opens and decodes a graph file
//   - [Export] creates or truncates a file and writes a graph out
//
// Both treat the path "-" as standard input or output, so commands can
// sit in a pipeline:
//
//	g, err := gio.Import("-", text.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Errors
//
// File-system failures wrap the underlying error with the path. Decode
// failures are [text.ParseError] values carrying the one-based line
// number of the offending line; nothing is returned for partially valid
// input, the whole load either succeeds or fails.
package gio
