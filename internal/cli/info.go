package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmerkel/nodepad/pkg/gio"
	"github.com/jmerkel/nodepad/pkg/graph/text"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [graph.txt]",
		Short: "Show graph statistics",
		Long: `Parse a graph file and print its node, edge and component counts.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := sourceArg(args)
			logger := loggerFromContext(cmd.Context())

			prog := newProgress(logger)
			g, err := gio.Import(source, text.Options{})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Parsed %d nodes with %d edges", g.NodeCount(), logicalEdges(g)))

			name := source
			if name == "-" {
				name = "stdin"
			}
			mode := "undirected"
			if g.IsDirected() {
				mode = "directed"
			}
			weighted := "no"
			if g.IsWeighted() {
				weighted = "yes"
			}

			printKeyValue("Source", name)
			printKeyValue("Nodes", fmt.Sprintf("%d", g.NodeCount()))
			printKeyValue("Edges", fmt.Sprintf("%d", logicalEdges(g)))
			printKeyValue("Components", fmt.Sprintf("%d", len(g.Components())))
			printKeyValue("Mode", mode)
			printKeyValue("Weighted", weighted)
			return nil
		},
	}
}
