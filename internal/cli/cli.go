// Package cli implements the nodepad command-line interface.
//
// The package provides commands for inspecting, formatting and laying out
// graph files in the line wire format, for connectivity queries, for managing
// saved sessions and the layout cache, and for serving the live model to
// external canvases. Commands are built on cobra; logging goes through
// charmbracelet/log and travels on the command context.
//
// # Commands
//
//   - info: parse a graph and print its statistics
//   - fmt: rewrite a graph in canonical form
//   - layout: run the force simulation and emit node positions
//   - components, distances: connectivity queries
//   - transform: complement, reorient, symmetrize, direct, undirect
//   - serve: HTTP and websocket bridge for external canvases
//   - session: saved workspace snapshots
//   - cache: layout cache maintenance
//
// # Example
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jmerkel/nodepad/pkg/buildinfo"
	"github.com/jmerkel/nodepad/pkg/cache"
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/pipeline"
	"github.com/jmerkel/nodepad/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "nodepad"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg        Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose bool
		quiet   bool
	)

	root := &cobra.Command{
		Use:   "nodepad",
		Short: "Nodepad models, lays out and serves node graphs",
		Long: `Nodepad is the headless core of an interactive graph editor. It reads
graphs in a line-based wire format, runs a force-directed layout over them,
answers connectivity queries, and serves the live model to external canvases
over HTTP and websocket.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case verbose:
				c.SetLogLevel(LogDebug)
			case quiet:
				c.SetLogLevel(LogError)
			}
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/nodepad/config.toml)")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.fmtCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.componentsCommand())
	root.AddCommand(c.distancesCommand())
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Backend Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache picks the layout cache backend from config. An unreachable
// backend degrades to no caching; layout work must not block on it.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}

	if c.cfg.Cache.Backend == "redis" {
		store, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.cfg.Cache.RedisAddr,
			Password: c.cfg.Cache.RedisPassword,
			DB:       c.cfg.Cache.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing uncached", "err", err)
			return cache.NewNullCache(), nil
		}
		return store, nil
	}

	dir, err := c.cacheFileDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newSessionStore picks the session store backend from config.
func (c *CLI) newSessionStore(ctx context.Context) (session.Store, error) {
	if c.cfg.Session.Backend == "mongo" {
		return session.NewMongoStore(ctx, session.MongoConfig{
			URI:      c.cfg.Session.MongoURI,
			Database: c.cfg.Session.MongoDatabase,
		})
	}
	return session.NewFileStore(c.cfg.Session.Dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nodepad/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Shared Helpers
// =============================================================================

// sourceArg maps an optional positional argument to a source path, with
// stdin as the fallback.
func sourceArg(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// logicalEdges counts connections the way a user would: an undirected
// connection is one edge even though it is stored as two records.
func logicalEdges(g *graph.Graph) int {
	if g.IsDirected() {
		return g.EdgeCount()
	}
	return g.EdgeCount() / 2
}
