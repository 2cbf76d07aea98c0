package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/observability"
	"github.com/jmerkel/nodepad/pkg/pipeline"
	"github.com/jmerkel/nodepad/pkg/vec"
)

// Frame is one position update pushed to stream clients. IDs and
// Positions are parallel, in node insertion order.
type Frame struct {
	Type      string      `json:"type"`
	IDs       []int       `json:"ids"`
	Positions [][]float64 `json:"positions"`
}

// clientMessage is an inbound control message from a stream client.
// Position is the pointer in world coordinates; drag_start may omit it
// to grab the node where it stands.
type clientMessage struct {
	Type     string    `json:"type"`
	ID       int       `json:"id"`
	Position []float64 `json:"position,omitempty"`
}

// wsClient is one connected stream consumer. The send channel feeds its
// write pump; close is guarded so the hub and the handler can both
// tear the client down.
type wsClient struct {
	conn  *websocket.Conn
	send  chan []byte
	since time.Time
	once  sync.Once
}

func (c *wsClient) close() {
	c.once.Do(func() { close(c.send) })
}

// writePump drains the send channel onto the socket. It owns all writes;
// the channel closing or a write failure ends the connection.
func (c *wsClient) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// hub tracks connected stream clients for fanout.
type hub struct {
	mu      sync.Mutex
	logger  *log.Logger
	clients map[*wsClient]struct{}
}

func newHub(logger *log.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
}

func (h *hub) add(ctx context.Context, c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	remote := c.conn.RemoteAddr().String()
	observability.Stream().OnSubscribe(ctx, remote)
	h.logger.Info("stream client connected", "remote", remote, "clients", n)
}

func (h *hub) remove(ctx context.Context, c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if !ok {
		return
	}

	c.close()
	remote := c.conn.RemoteAddr().String()
	observability.Stream().OnUnsubscribe(ctx, remote, time.Since(c.since))
	h.logger.Info("stream client disconnected", "remote", remote, "clients", n)
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast fans data out without blocking. A client whose send buffer
// is full is dropped; the tick must not wait on a stalled socket.
func (h *hub) broadcast(ctx context.Context, data []byte) {
	h.mu.Lock()
	var dropped []*wsClient
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			dropped = append(dropped, c)
		}
	}
	n := len(h.clients) - len(dropped)
	h.mu.Unlock()

	for _, c := range dropped {
		h.remove(ctx, c)
		h.logger.Warn("dropped slow stream client", "remote", c.conn.RemoteAddr())
	}
	if n > 0 {
		observability.Stream().OnBroadcast(ctx, n, len(data))
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*wsClient]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// broadcastFrame renders the current positions and fans them out. Runs
// on the loop goroutine, so reading the model is safe.
func (s *Server) broadcastFrame(ctx context.Context) {
	ids := s.st.g.NodeIDs()
	frame := Frame{
		Type:      "frame",
		IDs:       make([]int, len(ids)),
		Positions: pipeline.CollectPositions(s.st.g),
	}
	for i, id := range ids {
		frame.IDs[i] = int(id)
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	s.hub.broadcast(ctx, data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}

	c := &wsClient{
		conn:  conn,
		send:  make(chan []byte, 8),
		since: time.Now(),
	}
	s.hub.add(r.Context(), c)
	go c.writePump()

	// Reads stay on the handler goroutine; it exits when the client
	// hangs up or the write pump closes the socket underneath it.
	defer s.hub.remove(r.Context(), c)
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		s.applyClientMessage(r.Context(), msg)
	}
}

// applyClientMessage dispatches one control message onto the model loop.
// Unknown types and stale node handles are ignored; a stream client has
// no reply channel to complain on.
func (s *Server) applyClientMessage(ctx context.Context, msg clientMessage) {
	id := graph.NodeID(msg.ID)
	var pointer vec.Vector
	if len(msg.Position) == 2 {
		pointer = vec.New(msg.Position...)
	}

	_ = s.do(ctx, func(st *state) {
		switch msg.Type {
		case "drag_start":
			p := pointer
			if p == nil {
				pos, err := st.g.Position(id)
				if err != nil {
					return
				}
				p = pos
			}
			_ = st.g.StartDrag(id, p)
		case "drag_move":
			if pointer == nil {
				return
			}
			_ = st.g.Drag(id, pointer)
		case "drag_stop":
			_ = st.g.StopDrag(id)
		case "pause":
			st.running = false
		case "resume":
			st.running = true
		}
	})
}
