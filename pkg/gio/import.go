package gio

import (
	"fmt"
	"os"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
)

// Import reads the graph file at path in the line format of [text.Parse]
// and returns the decoded graph. The path "-" reads from standard input
// instead.
//
// Import opens the file, decodes it, and closes the file. Open failures
// wrap the underlying cause with the file path for context; decode
// failures carry the offending line number in a [text.ParseError] and can
// be inspected with errors.As.
//
// The returned graph is independent of the file and can be modified
// freely after Import returns.
func Import(path string, opts text.Options) (*graph.Graph, error) {
	if path == "-" {
		return text.Parse(os.Stdin, opts)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return text.Parse(f, opts)
}
