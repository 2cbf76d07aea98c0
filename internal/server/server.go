// Package server exposes the graph model over HTTP and WebSocket so
// external canvases can read, edit, and watch it.
//
// # Architecture
//
// A single goroutine owns the graph and the force engine. It alternates
// between applying commands sent by HTTP handlers and ticking the
// simulation, then broadcasts a position frame to every stream client.
// Handlers never touch the model directly; they submit a closure and wait
// for its result, so the model needs no locks.
//
// # Endpoints
//
//	GET    /api/graph     full snapshot: wire text, flags, nodes, positions
//	PUT    /api/graph     replace the model from wire text
//	POST   /api/nodes     add a node
//	DELETE /api/nodes/{id} remove a node
//	POST   /api/edges     add an edge
//	DELETE /api/edges     remove an edge
//	POST   /api/ops/{op}  complement, reorient, or symmetrize
//	GET    /api/stats     counts and flags
//	GET    /ws            live position stream plus drag control
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/layout"
)

// DefaultAddr is the listen address used when none is configured. The
// server binds loopback only; it is a bridge for local canvases, not a
// public service.
const DefaultAddr = "127.0.0.1:8787"

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Config configures the bridge server.
type Config struct {
	// Addr is the listen address. Empty means DefaultAddr.
	Addr string

	// Graph is the initial model. Nil starts an empty undirected,
	// unweighted graph.
	Graph *graph.Graph

	// Engine tunes the server-side simulation.
	Engine layout.Options

	// Tick is the simulation cadence. Zero means layout.Tick.
	Tick time.Duration

	// Logger receives request and stream logs. Nil means the default
	// logger.
	Logger *log.Logger
}

// Server bridges the single-goroutine graph model to HTTP clients.
type Server struct {
	cfg      Config
	logger   *log.Logger
	router   *chi.Mux
	commands chan command
	st       *state
	hub      *hub
	upgrader websocket.Upgrader
}

// New assembles a server around the configured model. Call Run to serve,
// or Start plus Handler to drive it from a test harness.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Graph == nil {
		cfg.Graph = graph.New(false, false)
	}
	if cfg.Tick == 0 {
		cfg.Tick = layout.Tick
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		commands: make(chan command, 64),
		st: &state{
			g:       cfg.Graph,
			eng:     layout.New(cfg.Engine),
			running: true,
		},
		hub: newHub(cfg.Logger),
		// The bridge serves local canvases on other ports, so
		// cross-origin upgrades are expected.
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGetGraph)
		r.Put("/graph", s.handlePutGraph)
		r.Post("/nodes", s.handleAddNode)
		r.Delete("/nodes/{id}", s.handleRemoveNode)
		r.Post("/edges", s.handleAddEdge)
		r.Delete("/edges", s.handleRemoveEdge)
		r.Post("/ops/{op}", s.handleOp)
		r.Get("/stats", s.handleStats)
	})
	r.Get("/ws", s.handleWS)
	s.router = r

	return s
}

// Handler returns the HTTP handler, for mounting under a test server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start launches the model loop without serving HTTP. Run calls it;
// tests pair it with Handler and an httptest server.
func (s *Server) Start(ctx context.Context) {
	go s.loop(ctx)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.Start(ctx)

	srv := &http.Server{
		Addr:        s.cfg.Addr,
		Handler:     s.router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		return err
	}
}
