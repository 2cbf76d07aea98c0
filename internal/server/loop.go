package server

import (
	"context"
	"time"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/layout"
)

// state is the model owned by the loop goroutine. Nothing outside the
// loop may touch it; handlers reach it through do.
type state struct {
	g       *graph.Graph
	eng     *layout.Engine
	running bool
}

// command runs on the loop goroutine with exclusive access to the model.
type command func(*state)

// do submits fn to the loop and waits for it to finish. The done channel
// is buffered so the loop never blocks on a caller that gave up.
func (s *Server) do(ctx context.Context, fn command) error {
	done := make(chan struct{}, 1)
	wrapped := func(st *state) {
		fn(st)
		done <- struct{}{}
	}

	select {
	case s.commands <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loop owns the model: it applies commands, advances the simulation, and
// broadcasts a frame after each tick. Broadcasting is skipped while no
// stream client is connected.
func (s *Server) loop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.commands:
			cmd(s.st)
		case <-ticker.C:
			s.st.eng.Step(s.st.g, s.st.running)
			if s.hub.count() > 0 {
				s.broadcastFrame(ctx)
			}
		}
	}
}
