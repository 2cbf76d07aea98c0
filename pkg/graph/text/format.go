package text

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jmerkel/nodepad/pkg/graph"
)

// Format writes g in canonical wire form: every undirected connection on
// one line, every directed edge as "from -> to", weights appended when the
// graph is weighted. Nodes without labels get small increasing integers as
// placeholder names. Isolated nodes are not representable and are skipped.
//
// Labels containing whitespace or consisting of an arrow token cannot be
// tokenized back and make Format fail.
func Format(w io.Writer, g *graph.Graph) error {
	names, err := Names(g)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	seen := make(map[[2]graph.NodeID]bool)
	for _, e := range g.Edges() {
		if !g.IsDirected() {
			pair := [2]graph.NodeID{min(e.From, e.To), max(e.From, e.To)}
			if seen[pair] {
				continue
			}
			seen[pair] = true
		}

		line := names[e.From] + " " + names[e.To]
		if g.IsDirected() {
			line = names[e.From] + " -> " + names[e.To]
		}
		if g.IsWeighted() {
			line += " " + formatWeight(e.Weight)
		}
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return bw.Flush()
}

// FormatString is a convenience wrapper around [Format].
func FormatString(g *graph.Graph) (string, error) {
	var sb strings.Builder
	if err := Format(&sb, g); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Names maps every handle to its wire token, inventing placeholder names
// for unlabeled nodes without colliding with existing labels. The same
// mapping underlies [Format], so callers that key external data by name
// (session snapshots, API payloads) stay consistent with written files.
func Names(g *graph.Graph) (map[graph.NodeID]string, error) {
	used := make(map[string]bool)
	for _, n := range g.Nodes() {
		if n.Label == "" {
			continue
		}
		if strings.ContainsAny(n.Label, " \t\n") {
			return nil, fmt.Errorf("label %q contains whitespace", n.Label)
		}
		if isArrow(n.Label) {
			return nil, fmt.Errorf("label %q reads as an arrow", n.Label)
		}
		used[n.Label] = true
	}

	names := make(map[graph.NodeID]string, g.NodeCount())
	next := 1
	for _, n := range g.Nodes() {
		if n.Label != "" {
			names[n.ID] = n.Label
			continue
		}
		for used[strconv.Itoa(next)] {
			next++
		}
		names[n.ID] = strconv.Itoa(next)
		used[strconv.Itoa(next)] = true
	}
	return names, nil
}

// formatWeight prints integral weights without a decimal point.
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
