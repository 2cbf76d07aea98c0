package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/jmerkel/nodepad/pkg/errors"
	"github.com/jmerkel/nodepad/pkg/gio"
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
)

// graphNodeByName finds the handle carrying the given wire name.
func graphNodeByName(names map[graph.NodeID]string, name string) (graph.NodeID, bool) {
	for id, n := range names {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// distancesCommand creates the distances command.
func (c *CLI) distancesCommand() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "distances [graph.txt]",
		Short: "Show hop distances from a root node",
		Long: `Run a breadth-first search from the root node and print one line per
distance ring. Traversal follows edge direction, so on a directed
graph nodes with no path from the root do not appear.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				return apperrors.New(apperrors.ErrCodeNoRoot, "no root selected; pass --root <name>")
			}

			g, err := gio.Import(sourceArg(args), text.Options{})
			if err != nil {
				return err
			}
			names, err := text.Names(g)
			if err != nil {
				return err
			}

			rootID, found := graphNodeByName(names, root)
			if !found {
				return apperrors.New(apperrors.ErrCodeNodeNotFound, "node %q", root)
			}
			if err := g.SetRoot(rootID); err != nil {
				return err
			}

			dist := g.DistancesFromRoot()
			rings := make([]int, 0, len(dist))
			for d := range dist {
				rings = append(rings, d)
			}
			sort.Ints(rings)

			w := cmd.OutOrStdout()
			for _, d := range rings {
				parts := make([]string, 0, len(dist[d]))
				for _, id := range dist[d].Members() {
					parts = append(parts, names[id])
				}
				if _, err := fmt.Fprintf(w, "%d: %s\n", d, strings.Join(parts, " ")); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "wire name of the root node")
	return cmd
}
