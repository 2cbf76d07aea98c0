package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "github.com/jmerkel/nodepad/pkg/errors"
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
	"github.com/jmerkel/nodepad/pkg/layout"
	"github.com/jmerkel/nodepad/pkg/pipeline"
)

// layoutNode is one node of the layout output.
type layoutNode struct {
	Name     string    `json:"name"`
	Position []float64 `json:"position"`
}

// layoutEdge is one connection of the layout output. Undirected
// connections appear once, with endpoints in canonical order.
type layoutEdge struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Weight *float64 `json:"weight,omitempty"`
}

// layoutOutput is the JSON document emitted by the layout command. It
// carries everything a canvas needs to draw the graph.
type layoutOutput struct {
	Directed   bool         `json:"directed"`
	Weighted   bool         `json:"weighted"`
	Nodes      []layoutNode `json:"nodes"`
	Edges      []layoutEdge `json:"edges"`
	Components int          `json:"components"`
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		format    string
		noCache   bool
		sessionID string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.txt]",
		Short: "Run the force simulation and emit node positions",
		Long: `Parse a graph, scatter its nodes and run the force simulation for a
fixed number of iterations, then emit the resulting positions.

The JSON output lists nodes with positions plus the edges between them;
the text output is one "name x y" line per node. Runs are cached by
graph content and simulation parameters, so repeating a layout is
instant. With --session, the positions stored in a saved session are
emitted instead of running the simulation.

Reads from stdin when no file is given; writes to stdout unless -o is
set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "text" {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown format %q (want json or text)", format)
			}
			if sessionID != "" {
				return c.runSessionLayout(cmd, sessionID, output, format)
			}
			opts.SourcePath = sourceArg(args)
			c.overlayLayoutConfig(cmd, &opts)
			return c.runLayout(cmd, opts, noCache, output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or text")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even on a cache hit")
	cmd.Flags().IntVarP(&opts.Iterations, "iterations", "n", pipeline.DefaultIterations, "simulation steps to run")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", pipeline.DefaultSeed, "random seed for scatter and jitter")
	cmd.Flags().Float64Var(&opts.RestLength, "rest-length", layout.DefaultRestLength, "preferred edge length")
	cmd.Flags().Float64Var(&opts.RepulsionStrength, "repulsion", layout.DefaultRepulsionStrength, "node repulsion strength")
	cmd.Flags().Float64Var(&opts.AttractionStrength, "attraction", layout.DefaultAttractionStrength, "edge attraction strength")
	cmd.Flags().Float64Var(&opts.ScatterSide, "scatter", pipeline.DefaultScatterSide, "initial scatter square side")
	cmd.Flags().StringVar(&sessionID, "session", "", "emit the stored layout of a session instead")

	return cmd
}

// overlayLayoutConfig applies config-file layout values for flags the user
// did not set. An explicit flag always wins over the file.
func (c *CLI) overlayLayoutConfig(cmd *cobra.Command, opts *pipeline.Options) {
	lc := c.cfg.Layout
	flags := cmd.Flags()
	if !flags.Changed("iterations") && lc.Iterations > 0 {
		opts.Iterations = lc.Iterations
	}
	if !flags.Changed("seed") && lc.Seed != 0 {
		opts.Seed = lc.Seed
	}
	if !flags.Changed("rest-length") && lc.RestLength > 0 {
		opts.RestLength = lc.RestLength
	}
	if !flags.Changed("repulsion") && lc.Repulsion > 0 {
		opts.RepulsionStrength = lc.Repulsion
	}
	if !flags.Changed("attraction") && lc.Attraction > 0 {
		opts.AttractionStrength = lc.Attraction
	}
	if !flags.Changed("scatter") && lc.Scatter > 0 {
		opts.ScatterSide = lc.Scatter
	}
}

// runLayout executes the pipeline and writes the result.
func (c *CLI) runLayout(cmd *cobra.Command, opts pipeline.Options, noCache bool, output, format string) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = c.Logger

	sp := newSpinnerWithContext(ctx, "Laying out graph...")
	sp.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if sp.Cancelled() {
			sp.Stop()
			return err
		}
		sp.StopWithError("Layout failed")
		return err
	}
	sp.Stop()

	if err := writeLayoutTo(cmd, result.Graph, output, format); err != nil {
		return err
	}
	if output != "" {
		printSuccess("Layout complete")
		printFile(output)
		printStats(result.Stats.NodeCount, logicalEdges(result.Graph), result.Stats.Components, result.CacheInfo.LayoutHit)
		if opts.SourcePath != "-" {
			printNewline()
			printNextStep("Serve it live", fmt.Sprintf("nodepad serve %s", opts.SourcePath))
		}
	}
	return nil
}

// runSessionLayout emits the positions stored in a saved session without
// running the simulation.
func (c *CLI) runSessionLayout(cmd *cobra.Command, sessionID, output, format string) error {
	ctx := cmd.Context()

	if err := apperrors.ValidateSessionID(sessionID); err != nil {
		return err
	}

	store, err := c.newSessionStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return apperrors.New(apperrors.ErrCodeSessionNotFound, "session %s", sessionID)
	}

	g, _, err := sess.Restore()
	if err != nil {
		return err
	}
	return writeLayoutTo(cmd, g, output, format)
}

// writeLayoutTo routes layout output to a file or the command's stdout.
func writeLayoutTo(cmd *cobra.Command, g *graph.Graph, output, format string) error {
	if output == "" {
		return writePositions(cmd.OutOrStdout(), g, format)
	}
	f, err := os.Create(output)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "create %s", output)
	}
	defer f.Close()
	return writePositions(f, g, format)
}

// writePositions emits the laid-out graph on w, either as a JSON document
// or as plain "name x y" lines.
func writePositions(w io.Writer, g *graph.Graph, format string) error {
	names, err := text.Names(g)
	if err != nil {
		return err
	}

	if format == "text" {
		for _, n := range g.Nodes() {
			pos, err := g.Position(n.ID)
			if err != nil {
				return err
			}
			line := names[n.ID]
			for _, v := range pos {
				line += " " + strconv.FormatFloat(v, 'f', -1, 64)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	out := layoutOutput{
		Directed:   g.IsDirected(),
		Weighted:   g.IsWeighted(),
		Nodes:      make([]layoutNode, 0, g.NodeCount()),
		Edges:      make([]layoutEdge, 0, g.EdgeCount()),
		Components: len(g.Components()),
	}
	for _, n := range g.Nodes() {
		pos, err := g.Position(n.ID)
		if err != nil {
			return err
		}
		out.Nodes = append(out.Nodes, layoutNode{
			Name:     names[n.ID],
			Position: append([]float64(nil), pos...),
		})
	}

	seen := make(map[[2]graph.NodeID]bool)
	for _, e := range g.Edges() {
		if !g.IsDirected() {
			pair := [2]graph.NodeID{min(e.From, e.To), max(e.From, e.To)}
			if seen[pair] {
				continue
			}
			seen[pair] = true
		}
		le := layoutEdge{From: names[e.From], To: names[e.To]}
		if g.IsWeighted() {
			weight := e.Weight
			le.Weight = &weight
		}
		out.Edges = append(out.Edges, le)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
