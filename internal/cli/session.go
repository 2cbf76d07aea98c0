package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/jmerkel/nodepad/pkg/errors"
	"github.com/jmerkel/nodepad/pkg/pipeline"
	"github.com/jmerkel/nodepad/pkg/session"
	"github.com/jmerkel/nodepad/pkg/view"
)

// sessionCommand creates the session command group.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage saved sessions",
		Long: `Sessions snapshot a workspace: graph text, node positions, selection,
root and view framing. A saved session restores later editing exactly
where it stopped.`,
	}
	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionSaveCommand())
	cmd.AddCommand(c.sessionDeleteCommand())
	return cmd
}

// sessionListCommand creates the session list command.
func (c *CLI) sessionListCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := c.newSessionStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sessions, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				printInfo("No saved sessions")
				return nil
			}

			if interactive {
				return c.pickSession(cmd, sessions)
			}

			w := cmd.OutOrStdout()
			for _, sess := range sessions {
				name := sess.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Fprintf(w, "%-8s  %-24s  %3d nodes  %s\n",
					shortID(sess.ID), name, len(sess.Nodes), formatRelativeTime(sess.UpdatedAt))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a session interactively")
	return cmd
}

// sessionShowCommand creates the session show command.
func (c *CLI) sessionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := apperrors.ValidateSessionID(args[0]); err != nil {
				return err
			}

			store, err := c.newSessionStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sess, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if sess == nil {
				return apperrors.New(apperrors.ErrCodeSessionNotFound, "session %s", args[0])
			}

			name := sess.Name
			if name == "" {
				name = "(unnamed)"
			}
			mode := "undirected"
			if sess.Directed {
				mode = "directed"
			}
			root := "(none)"
			if sess.Root >= 0 && sess.Root < len(sess.Nodes) {
				root = sess.Nodes[sess.Root]
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "id: %s\n", sess.ID)
			fmt.Fprintf(w, "name: %s\n", name)
			fmt.Fprintf(w, "updated: %s\n", sess.UpdatedAt.Format(time.RFC3339))
			if sess.GraphPath != "" {
				fmt.Fprintf(w, "file: %s\n", sess.GraphPath)
			}
			fmt.Fprintf(w, "mode: %s\n", mode)
			fmt.Fprintf(w, "nodes: %d\n", len(sess.Nodes))
			fmt.Fprintf(w, "root: %s\n", root)
			if sess.GraphText != "" {
				fmt.Fprintf(w, "\n%s", sess.GraphText)
			}
			return nil
		},
	}
}

// sessionSaveCommand creates the session save command.
func (c *CLI) sessionSaveCommand() *cobra.Command {
	var (
		name    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "save <graph.txt>",
		Short: "Save a graph as a session",
		Long: `Parse and lay out a graph file, then store the result as a session
snapshot. Prints the new session ID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			if err := apperrors.ValidateGraphPath(path); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{SourcePath: path, Logger: c.Logger}
			c.overlayLayoutConfig(cmd, &opts)

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

			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			sess := session.New(name)
			sess.GraphPath = path

			t := view.New()
			if c.cfg.View.Scale > 0 {
				t.Scale = c.cfg.View.Scale
			}
			if err := sess.Capture(result.Graph, t); err != nil {
				return err
			}

			store, err := c.newSessionStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Set(ctx, sess); err != nil {
				return err
			}

			c.Logger.Info("session saved", "id", sess.ID, "nodes", len(sess.Nodes))
			fmt.Fprintln(cmd.OutOrStdout(), sess.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "session name (default: file name)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}

// sessionDeleteCommand creates the session delete command.
func (c *CLI) sessionDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := apperrors.ValidateSessionID(args[0]); err != nil {
				return err
			}

			store, err := c.newSessionStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted session %s", shortID(args[0]))
			return nil
		},
	}
}

// shortID abbreviates a session ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
