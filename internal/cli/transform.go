package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/jmerkel/nodepad/pkg/errors"
	"github.com/jmerkel/nodepad/pkg/gio"
	"github.com/jmerkel/nodepad/pkg/graph/text"
)

// transformCommand creates the transform command.
func (c *CLI) transformCommand() *cobra.Command {
	var (
		output     string
		complement bool
		reorient   bool
		symmetrize bool
		direct     bool
		undirect   bool
	)

	cmd := &cobra.Command{
		Use:   "transform [graph.txt]",
		Short: "Apply whole-graph transformations",
		Long: `Apply one or more transformations to a graph and write the result in
canonical wire form.

Transformations apply in a fixed order: mode changes first (--direct,
--undirect), then --complement, then --reorient, then --symmetrize.
Undirecting keeps one connection per linked pair; reorient and
symmetrize only change directed graphs.

Reads from stdin when no file is given; writes to stdout unless -o is
set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if direct && undirect {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "--direct and --undirect are mutually exclusive")
			}

			g, err := gio.Import(sourceArg(args), text.Options{})
			if err != nil {
				return err
			}

			if !direct && !undirect && !complement && !reorient && !symmetrize {
				loggerFromContext(cmd.Context()).Warn("no transformation selected, output equals input")
			}

			if direct {
				g.SetDirected(true)
			}
			if undirect {
				g.SetDirected(false)
			}
			if complement {
				g.Complement()
			}
			if reorient {
				g.Reorient()
			}
			if symmetrize {
				g.Symmetrize()
			}

			if output == "" {
				return text.Format(cmd.OutOrStdout(), g)
			}
			if err := gio.Export(output, g); err != nil {
				return err
			}
			printSuccess("Transformed graph")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&complement, "complement", false, "invert edge presence between distinct pairs")
	cmd.Flags().BoolVar(&reorient, "reorient", false, "flip the direction of every edge")
	cmd.Flags().BoolVar(&symmetrize, "symmetrize", false, "add the reverse of every edge")
	cmd.Flags().BoolVar(&direct, "direct", false, "make the graph directed")
	cmd.Flags().BoolVar(&undirect, "undirect", false, "make the graph undirected")
	return cmd
}
