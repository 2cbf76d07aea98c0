package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
)

// Parse builds a graph from the configured source without caching.
func Parse(opts Options) (*graph.Graph, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	src, name, err := loadSource(opts)
	if err != nil {
		return nil, err
	}
	g, err := text.ParseString(src, text.Options{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return g, nil
}

// loadSource returns the wire text together with a short name describing
// where it came from. Inline source wins over a file path.
func loadSource(opts Options) (string, string, error) {
	if opts.Source != "" {
		name := opts.SourceName
		if name == "" {
			name = "inline"
		}
		return opts.Source, name, nil
	}
	if opts.SourcePath == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
	data, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", opts.SourcePath, err)
	}
	return string(data), opts.SourcePath, nil
}
