package gio

import (
	"fmt"
	"os"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
)

// Export writes g to the file at path in the line format of
// [text.Format]. The path "-" writes to standard output instead.
// The output can be re-imported with [Import] for round-trip processing.
func Export(path string, g *graph.Graph) error {
	if path == "-" {
		return text.Format(os.Stdout, g)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return text.Format(f, g)
}
