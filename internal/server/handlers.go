package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/jmerkel/nodepad/pkg/errors"
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
	"github.com/jmerkel/nodepad/pkg/layout"
	"github.com/jmerkel/nodepad/pkg/vec"
)

// NodeInfo is one node in a graph snapshot.
type NodeInfo struct {
	ID       int       `json:"id"`
	Label    string    `json:"label"`
	Position []float64 `json:"position"`
}

// GraphResponse is the full model snapshot served by the graph endpoints.
// Text is the wire-format rendering; it is empty when a label cannot be
// serialized.
type GraphResponse struct {
	Text     string     `json:"text"`
	Directed bool       `json:"directed"`
	Weighted bool       `json:"weighted"`
	Nodes    []NodeInfo `json:"nodes"`
}

type statsResponse struct {
	Nodes      int  `json:"nodes"`
	Edges      int  `json:"edges"`
	Components int  `json:"components"`
	Directed   bool `json:"directed"`
	Weighted   bool `json:"weighted"`
	Clients    int  `json:"clients"`
}

// snapshot renders the model for a response. Runs on the loop goroutine.
func snapshot(st *state) GraphResponse {
	resp := GraphResponse{
		Directed: st.g.IsDirected(),
		Weighted: st.g.IsWeighted(),
		Nodes:    make([]NodeInfo, 0, st.g.NodeCount()),
	}
	if s, err := text.FormatString(st.g); err == nil {
		resp.Text = s
	}
	for _, n := range st.g.Nodes() {
		info := NodeInfo{ID: int(n.ID), Label: n.Label}
		if p, ok := st.g.Placement(n.ID); ok {
			info.Position = append([]float64(nil), p.Pos...)
		}
		resp.Nodes = append(resp.Nodes, info)
	}
	return resp
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	var resp GraphResponse
	if err := s.do(r.Context(), func(st *state) {
		resp = snapshot(st)
	}); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	var (
		resp     GraphResponse
		parseErr error
	)
	if err := s.do(r.Context(), func(st *state) {
		// Parsing inside the command keeps placement on the engine's
		// random stream, so replays under a fixed seed reproduce.
		g, err := text.ParseString(req.Text, text.Options{
			Place: st.eng.Placer(layout.DefaultScatterSide),
		})
		if err != nil {
			parseErr = err
			return
		}
		st.g = g
		st.eng.ClearAll()
		resp = snapshot(st)
	}); err != nil {
		respondError(w, err)
		return
	}
	if parseErr != nil {
		respondError(w, parseErr)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label    string    `json:"label"`
		Position []float64 `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if err := apperrors.ValidateLabel(req.Label); err != nil {
		respondError(w, err)
		return
	}
	if req.Position != nil && len(req.Position) != 2 {
		respondError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "position must have 2 coordinates"))
		return
	}

	var id graph.NodeID
	if err := s.do(r.Context(), func(st *state) {
		if req.Position != nil {
			id = st.g.AddNodeAt(req.Label, vec.New(req.Position...))
		} else {
			id = st.g.AddNodeAt(req.Label, st.eng.Placer(layout.DefaultScatterSide)(st.g.NodeCount()))
		}
	}); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]int{"id": int(id)})
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid node id %q", raw))
		return
	}

	var opErr error
	if err := s.do(r.Context(), func(st *state) {
		opErr = st.g.RemoveNode(graph.NodeID(id))
		if opErr == nil {
			st.eng.ClearForces(graph.NodeID(id))
		}
	}); err != nil {
		respondError(w, err)
		return
	}
	if opErr != nil {
		respondError(w, opErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type edgeRequest struct {
	From   int      `json:"from"`
	To     int      `json:"to"`
	Weight *float64 `json:"weight,omitempty"`
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if req.Weight != nil {
		if err := apperrors.ValidateWeight(*req.Weight); err != nil {
			respondError(w, err)
			return
		}
	}

	var opErr error
	if err := s.do(r.Context(), func(st *state) {
		if req.Weight != nil {
			opErr = st.g.AddWeightedEdge(graph.NodeID(req.From), graph.NodeID(req.To), *req.Weight)
		} else {
			opErr = st.g.AddEdge(graph.NodeID(req.From), graph.NodeID(req.To))
		}
	}); err != nil {
		respondError(w, err)
		return
	}
	if opErr != nil {
		respondError(w, opErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveEdge(w http.ResponseWriter, r *http.Request) {
	var req edgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	var opErr error
	if err := s.do(r.Context(), func(st *state) {
		opErr = st.g.RemoveEdge(graph.NodeID(req.From), graph.NodeID(req.To))
	}); err != nil {
		respondError(w, err)
		return
	}
	if opErr != nil {
		respondError(w, opErr)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOp(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")

	var resp GraphResponse
	var opErr error
	if err := s.do(r.Context(), func(st *state) {
		switch op {
		case "complement":
			st.g.Complement()
		case "reorient":
			st.g.Reorient()
		case "symmetrize":
			st.g.Symmetrize()
		default:
			opErr = apperrors.New(apperrors.ErrCodeUnsupported, "unknown operation %q", op)
			return
		}
		resp = snapshot(st)
	}); err != nil {
		respondError(w, err)
		return
	}
	if opErr != nil {
		respondError(w, opErr)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var resp statsResponse
	if err := s.do(r.Context(), func(st *state) {
		// Undirected connections are stored as a record per direction;
		// report logical edges.
		edges := st.g.EdgeCount()
		if !st.g.IsDirected() {
			edges /= 2
		}
		resp = statsResponse{
			Nodes:      st.g.NodeCount(),
			Edges:      edges,
			Components: len(st.g.Components()),
			Directed:   st.g.IsDirected(),
			Weighted:   st.g.IsWeighted(),
		}
	}); err != nil {
		respondError(w, err)
		return
	}
	resp.Clients = s.hub.count()
	respond(w, http.StatusOK, resp)
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, statusFor(err), map[string]string{"error": apperrors.UserMessage(err)})
}

// statusFor maps model errors onto HTTP statuses. Wire-format parse
// failures are 422 so clients can distinguish a bad graph from a bad
// request envelope.
func statusFor(err error) int {
	var perr *text.ParseError
	if errors.As(err, &perr) {
		return http.StatusUnprocessableEntity
	}
	if errors.Is(err, graph.ErrUnknownNode) || errors.Is(err, graph.ErrUnknownEdge) {
		return http.StatusNotFound
	}
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat,
		apperrors.ErrCodeInvalidLabel, apperrors.ErrCodeInvalidWeight,
		apperrors.ErrCodeInvalidPath, apperrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeNodeNotFound,
		apperrors.ErrCodeEdgeNotFound, apperrors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
