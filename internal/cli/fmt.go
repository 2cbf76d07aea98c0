package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmerkel/nodepad/pkg/gio"
	"github.com/jmerkel/nodepad/pkg/graph/text"
)

// fmtCommand creates the fmt command.
func (c *CLI) fmtCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fmt [graph.txt]",
		Short: "Rewrite a graph in canonical form",
		Long: `Parse a graph and write it back in canonical wire form: one edge
per line, duplicate records collapsed, weights trimmed of trailing
zeros. Formatting a file and parsing the result yields the same graph.

Reads from stdin when no file is given; writes to stdout unless -o is
set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gio.Import(sourceArg(args), text.Options{})
			if err != nil {
				return err
			}

			if output == "" {
				return text.Format(cmd.OutOrStdout(), g)
			}
			if err := gio.Export(output, g); err != nil {
				return err
			}
			printSuccess("Formatted graph")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
