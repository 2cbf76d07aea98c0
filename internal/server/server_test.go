package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	apperrors "github.com/jmerkel/nodepad/pkg/errors"
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
	"github.com/jmerkel/nodepad/pkg/layout"
	"github.com/jmerkel/nodepad/pkg/vec"
)

// newTestServer starts a model loop and an HTTP front for it. A Tick of
// an hour keeps the simulation still so position assertions hold.
func newTestServer(t *testing.T, cfg Config) (*Server, *httptest.Server) {
	t.Helper()

	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Tick == 0 {
		cfg.Tick = time.Hour
	}
	srv := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv.Start(ctx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode response %q: %v", data, err)
	}
	return v
}

func TestGraphRoundTrip(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	const wire = "a -> b\nb -> c\n"
	status, data := doJSON(t, http.MethodPut, ts.URL+"/api/graph", map[string]string{"text": wire})
	if status != http.StatusOK {
		t.Fatalf("put graph: status = %d, body %s", status, data)
	}
	put := decode[GraphResponse](t, data)
	if !put.Directed || put.Weighted {
		t.Errorf("flags = directed %v weighted %v, want directed unweighted", put.Directed, put.Weighted)
	}
	if put.Text != wire {
		t.Errorf("text = %q, want %q", put.Text, wire)
	}
	if len(put.Nodes) != 3 {
		t.Fatalf("len(nodes) = %d, want 3", len(put.Nodes))
	}
	for _, n := range put.Nodes {
		if len(n.Position) != 2 {
			t.Errorf("node %d position = %v, want 2 coordinates", n.ID, n.Position)
		}
	}

	status, data = doJSON(t, http.MethodGet, ts.URL+"/api/graph", nil)
	if status != http.StatusOK {
		t.Fatalf("get graph: status = %d", status)
	}
	got := decode[GraphResponse](t, data)
	if got.Text != wire {
		t.Errorf("get text = %q, want %q", got.Text, wire)
	}
}

func TestPutGraphParseError(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	status, data := doJSON(t, http.MethodPut, ts.URL+"/api/graph",
		map[string]string{"text": "a -> b\nlonely\n"})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", status, http.StatusUnprocessableEntity)
	}
	body := decode[map[string]string](t, data)
	if !strings.Contains(body["error"], "line 2") {
		t.Errorf("error = %q, want the failing line number", body["error"])
	}

	// The model must survive a rejected replacement untouched.
	status, data = doJSON(t, http.MethodGet, ts.URL+"/api/graph", nil)
	if status != http.StatusOK {
		t.Fatalf("get graph: status = %d", status)
	}
	if got := decode[GraphResponse](t, data); len(got.Nodes) != 0 {
		t.Errorf("len(nodes) after failed put = %d, want 0", len(got.Nodes))
	}
}

func TestPutGraphBadBody(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/graph", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestNodeEdgeLifecycle(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	status, data := doJSON(t, http.MethodPost, ts.URL+"/api/nodes",
		map[string]any{"label": "x", "position": []float64{1, 2}})
	if status != http.StatusCreated {
		t.Fatalf("add node: status = %d, body %s", status, data)
	}
	x := decode[map[string]int](t, data)["id"]

	status, data = doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{"label": "y"})
	if status != http.StatusCreated {
		t.Fatalf("add second node: status = %d, body %s", status, data)
	}
	y := decode[map[string]int](t, data)["id"]

	if status, _ = doJSON(t, http.MethodPost, ts.URL+"/api/edges",
		map[string]any{"from": x, "to": y}); status != http.StatusNoContent {
		t.Fatalf("add edge: status = %d", status)
	}

	status, data = doJSON(t, http.MethodGet, ts.URL+"/api/stats", nil)
	if status != http.StatusOK {
		t.Fatalf("stats: status = %d", status)
	}
	stats := decode[statsResponse](t, data)
	if stats.Nodes != 2 || stats.Edges != 1 || stats.Components != 1 {
		t.Errorf("stats = %d nodes %d edges %d components, want 2/1/1",
			stats.Nodes, stats.Edges, stats.Components)
	}

	// The placed node keeps its requested position.
	_, data = doJSON(t, http.MethodGet, ts.URL+"/api/graph", nil)
	snap := decode[GraphResponse](t, data)
	for _, n := range snap.Nodes {
		if n.ID == x && (n.Position[0] != 1 || n.Position[1] != 2) {
			t.Errorf("node %d position = %v, want [1 2]", x, n.Position)
		}
	}

	if status, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/edges",
		map[string]any{"from": x, "to": y}); status != http.StatusNoContent {
		t.Fatalf("remove edge: status = %d", status)
	}
	if status, _ = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/nodes/%d", ts.URL, y), nil); status != http.StatusNoContent {
		t.Fatalf("remove node: status = %d", status)
	}

	_, data = doJSON(t, http.MethodGet, ts.URL+"/api/stats", nil)
	stats = decode[statsResponse](t, data)
	if stats.Nodes != 1 || stats.Edges != 0 {
		t.Errorf("stats after removal = %d nodes %d edges, want 1/0", stats.Nodes, stats.Edges)
	}
}

func TestUnknownHandlesMapToNotFound(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	if status, _ := doJSON(t, http.MethodDelete, ts.URL+"/api/nodes/999", nil); status != http.StatusNotFound {
		t.Errorf("delete unknown node: status = %d, want %d", status, http.StatusNotFound)
	}
	if status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/edges",
		map[string]any{"from": 1, "to": 2}); status != http.StatusNotFound {
		t.Errorf("edge between unknown nodes: status = %d, want %d", status, http.StatusNotFound)
	}
	if status, _ := doJSON(t, http.MethodDelete, ts.URL+"/api/nodes/abc", nil); status != http.StatusBadRequest {
		t.Errorf("malformed node id: status = %d, want %d", status, http.StatusBadRequest)
	}
}

func TestAddNodeValidation(t *testing.T) {
	_, ts := newTestServer(t, Config{})

	if status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/nodes",
		map[string]any{"label": "bad\x01label"}); status != http.StatusBadRequest {
		t.Errorf("control character label: status = %d, want %d", status, http.StatusBadRequest)
	}
	if status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/nodes",
		map[string]any{"label": "x", "position": []float64{1, 2, 3}}); status != http.StatusBadRequest {
		t.Errorf("3d position: status = %d, want %d", status, http.StatusBadRequest)
	}
}

func TestOps(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		wantText string
	}{
		{"reorient flips edges", "reorient", "b -> a\n"},
		{"complement inverts relation", "complement", "b -> a\n"},
		{"symmetrize adds reverses", "symmetrize", "a -> b\nb -> a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts := newTestServer(t, Config{})

			status, data := doJSON(t, http.MethodPut, ts.URL+"/api/graph",
				map[string]string{"text": "a -> b\n"})
			if status != http.StatusOK {
				t.Fatalf("put graph: status = %d, body %s", status, data)
			}

			status, data = doJSON(t, http.MethodPost, ts.URL+"/api/ops/"+tt.op, nil)
			if status != http.StatusOK {
				t.Fatalf("op %s: status = %d, body %s", tt.op, status, data)
			}
			if got := decode[GraphResponse](t, data); got.Text != tt.wantText {
				t.Errorf("text after %s = %q, want %q", tt.op, got.Text, tt.wantText)
			}
		})
	}

	t.Run("unknown op", func(t *testing.T) {
		_, ts := newTestServer(t, Config{})
		if status, _ := doJSON(t, http.MethodPost, ts.URL+"/api/ops/invert", nil); status != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", status, http.StatusBadRequest)
		}
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"parse error", &text.ParseError{Line: 3, Reason: "dangling arrow"}, http.StatusUnprocessableEntity},
		{"wrapped parse error", fmt.Errorf("put: %w", &text.ParseError{Line: 1, Reason: "bad"}), http.StatusUnprocessableEntity},
		{"unknown node", graph.ErrUnknownNode, http.StatusNotFound},
		{"unknown edge", fmt.Errorf("remove: %w", graph.ErrUnknownEdge), http.StatusNotFound},
		{"invalid label", apperrors.New(apperrors.ErrCodeInvalidLabel, "bad label"), http.StatusBadRequest},
		{"invalid weight", apperrors.New(apperrors.ErrCodeInvalidWeight, "weight is NaN"), http.StatusBadRequest},
		{"plain error", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPauseResume(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	ctx := context.Background()

	srv.applyClientMessage(ctx, clientMessage{Type: "pause"})
	var running bool
	if err := srv.do(ctx, func(st *state) { running = st.running }); err != nil {
		t.Fatal(err)
	}
	if running {
		t.Error("simulation still running after pause")
	}

	srv.applyClientMessage(ctx, clientMessage{Type: "resume"})
	if err := srv.do(ctx, func(st *state) { running = st.running }); err != nil {
		t.Fatal(err)
	}
	if !running {
		t.Error("simulation not running after resume")
	}
}

func TestStreamFramesAndDrag(t *testing.T) {
	g := graph.New(false, false)
	a := g.AddNodeAt("a", vec.New(0, 0))
	b := g.AddNodeAt("b", vec.New(3, 4))
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}

	srv, ts := newTestServer(t, Config{
		Graph:  g,
		Tick:   5 * time.Millisecond,
		Engine: layout.Options{Seed: 7},
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}

	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read first frame: %v", err)
	}
	if frame.Type != "frame" {
		t.Errorf("frame type = %q, want %q", frame.Type, "frame")
	}
	if len(frame.IDs) != 2 || len(frame.Positions) != 2 {
		t.Fatalf("frame = %d ids %d positions, want 2/2", len(frame.IDs), len(frame.Positions))
	}

	// The first frame proves registration, so the hub must count us.
	status, data := doJSON(t, http.MethodGet, ts.URL+"/api/stats", nil)
	if status != http.StatusOK {
		t.Fatalf("stats: status = %d", status)
	}
	if stats := decode[statsResponse](t, data); stats.Clients != 1 {
		t.Errorf("clients = %d, want 1", stats.Clients)
	}

	// Grab a node in place, drag it, and watch the stream catch up. A
	// held node is pinned, so once the move lands its position is exact.
	if err := conn.WriteJSON(clientMessage{Type: "drag_start", ID: int(a)}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(clientMessage{Type: "drag_move", ID: int(a), Position: []float64{50, 60}}); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("dragged position never appeared in the stream")
		}
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read frame: %v", err)
		}
		moved := false
		for i, id := range frame.IDs {
			if id == int(a) && frame.Positions[i][0] == 50 && frame.Positions[i][1] == 60 {
				moved = true
			}
		}
		if moved {
			break
		}
	}

	if err := conn.WriteJSON(clientMessage{Type: "drag_stop", ID: int(a)}); err != nil {
		t.Fatal(err)
	}

	// Dropping the connection must unregister the client.
	conn.Close()
	dropDeadline := time.Now().Add(5 * time.Second)
	for srv.hub.count() > 0 {
		if time.Now().After(dropDeadline) {
			t.Fatal("hub still counts a closed client")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
