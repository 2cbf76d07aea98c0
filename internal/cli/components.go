package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmerkel/nodepad/pkg/gio"
	"github.com/jmerkel/nodepad/pkg/graph/text"
)

// componentsCommand creates the components command.
func (c *CLI) componentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "components [graph.txt]",
		Short: "List weakly connected components",
		Long: `Partition the graph into weakly connected components, ignoring edge
direction, and print one component per line with its members in the
order the nodes were introduced.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gio.Import(sourceArg(args), text.Options{})
			if err != nil {
				return err
			}
			names, err := text.Names(g)
			if err != nil {
				return err
			}

			comps := g.Components()
			sort.Slice(comps, func(i, j int) bool {
				return comps[i].Members()[0] < comps[j].Members()[0]
			})

			w := cmd.OutOrStdout()
			for _, comp := range comps {
				parts := make([]string, 0, len(comp))
				for _, id := range comp.Members() {
					parts = append(parts, names[id])
				}
				if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
