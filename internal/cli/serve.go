package cli

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/jmerkel/nodepad/internal/server"
	"github.com/jmerkel/nodepad/pkg/gio"
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
	"github.com/jmerkel/nodepad/pkg/layout"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [graph.txt]",
		Short: "Serve the live model to external canvases",
		Long: `Start the HTTP and websocket bridge. The REST endpoints edit the
graph; the websocket stream pushes a position frame per simulation
tick and accepts drag and pause messages.

With a graph file, the model starts from its contents; otherwise it
starts empty. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && c.cfg.Server.Addr != "" {
				addr = c.cfg.Server.Addr
			}
			if !loopbackAddr(addr) {
				printWarning("Listening on %s; the bridge has no authentication", addr)
			}

			var g *graph.Graph
			if len(args) > 0 {
				eng := layout.New(layout.Options{})
				parsed, err := gio.Import(args[0], text.Options{Place: eng.Placer(layout.DefaultScatterSide)})
				if err != nil {
					return err
				}
				g = parsed
			}

			srv := server.New(server.Config{
				Addr:   addr,
				Graph:  g,
				Logger: c.Logger,
			})
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	return cmd
}

// loopbackAddr reports whether addr binds a loopback interface. An
// empty host binds every interface and does not count.
func loopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
