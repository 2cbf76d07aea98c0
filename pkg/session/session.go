// Package session saves and restores editing sessions.
//
// A session is a snapshot of everything the graph model and view hold
// between runs: the graph itself, node positions, the selection, the
// distance-map root, and the canvas framing. Snapshots are plain data,
// storable in different backends:
//   - file: JSON files in a config directory for CLI usage
//   - mongo: a MongoDB collection for server deployments
//
// # Architecture
//
// [Session.Capture] flattens a live graph into the snapshot and
// [Session.Restore] rebuilds one. Nodes are referenced by their wire
// names (the same names [text.Format] writes), and positions, selection
// and root are stored as indexes into the node list, so a snapshot stays
// valid regardless of what handles the rebuilt graph assigns.
//
// # Usage
//
// Create and store a session:
//
//	sess := session.New("demo")
//	if err := sess.Capture(g, transform); err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
// Retrieve and rebuild one:
//
//	sess, err := store.Get(ctx, sessionID)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found
//	}
//	g, transform, err := sess.Restore()
//
// [text.Format]: github.com/jmerkel/nodepad/pkg/graph/text.Format
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
	"github.com/jmerkel/nodepad/pkg/vec"
	"github.com/jmerkel/nodepad/pkg/view"
)

// View captures the canvas framing of a session.
type View struct {
	Scale       float64   `json:"scale" bson:"scale"`
	Translation []float64 `json:"translation" bson:"translation"`
}

// Session is a stored snapshot of an editing session.
//
// Nodes lists every node's wire name in insertion order; Positions,
// Selection and Root refer to nodes by their index in that list. Edges
// are kept as graph text in the line format, which cannot represent
// isolated nodes, hence the separate node list.
type Session struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// GraphPath remembers the file the graph was loaded from, if any.
	GraphPath string `json:"graph_path,omitempty" bson:"graph_path,omitempty"`

	Directed  bool        `json:"directed" bson:"directed"`
	Weighted  bool        `json:"weighted" bson:"weighted"`
	GraphText string      `json:"graph_text" bson:"graph_text"`
	Nodes     []string    `json:"nodes" bson:"nodes"`
	Positions [][]float64 `json:"positions,omitempty" bson:"positions,omitempty"`
	Selection []int       `json:"selection,omitempty" bson:"selection,omitempty"`
	Root      int         `json:"root" bson:"root"`

	View View `json:"view" bson:"view"`
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session, replacing any existing one with the same ID.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, sessionID string) error

	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]*Session, error)

	// Close releases any resources held by the backend.
	Close() error
}

// New creates an empty session with a fresh ID and no root.
func New(name string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Root:      -1,
	}
}

// Capture replaces the session's snapshot with the current state of g
// and t, and bumps UpdatedAt. A nil transform leaves the stored view
// untouched.
func (s *Session) Capture(g *graph.Graph, t *view.Transform) error {
	names, err := text.Names(g)
	if err != nil {
		return fmt.Errorf("name nodes: %w", err)
	}
	serialized, err := text.FormatString(g)
	if err != nil {
		return fmt.Errorf("serialize graph: %w", err)
	}

	ids := g.NodeIDs()
	index := make(map[graph.NodeID]int, len(ids))
	s.Nodes = make([]string, len(ids))
	s.Positions = make([][]float64, len(ids))
	for i, id := range ids {
		index[id] = i
		s.Nodes[i] = names[id]
		pos, err := g.Position(id)
		if err != nil {
			return err
		}
		s.Positions[i] = []float64{pos.X(), pos.Y()}
	}

	s.Directed = g.IsDirected()
	s.Weighted = g.IsWeighted()
	s.GraphText = serialized

	s.Root = -1
	if root, ok := g.Root(); ok {
		s.Root = index[root]
	}
	s.Selection = nil
	for _, id := range g.Selected() {
		s.Selection = append(s.Selection, index[id])
	}

	if t != nil {
		s.View = View{
			Scale:       t.Scale,
			Translation: []float64{t.Translation.X(), t.Translation.Y()},
		}
	}

	s.UpdatedAt = time.Now()
	return nil
}

// Restore rebuilds the graph and view transform from the snapshot.
// Out-of-range selection or root indexes are dropped silently; a
// malformed GraphText fails the whole restore.
func (s *Session) Restore() (*graph.Graph, *view.Transform, error) {
	g := graph.New(s.Directed, s.Weighted)

	ids := make([]graph.NodeID, len(s.Nodes))
	byName := make(map[string]graph.NodeID, len(s.Nodes))
	for i, name := range s.Nodes {
		pos := vec.Zero(2)
		if i < len(s.Positions) && len(s.Positions[i]) == 2 {
			pos = vec.New(s.Positions[i][0], s.Positions[i][1])
		}
		id := g.AddNodeAt(name, pos)
		ids[i] = id
		byName[name] = id
	}

	if s.GraphText != "" {
		parsed, err := text.ParseString(s.GraphText, text.Options{})
		if err != nil {
			return nil, nil, fmt.Errorf("session graph: %w", err)
		}
		for _, e := range parsed.Edges() {
			from, ok := parsed.Node(e.From)
			if !ok {
				continue
			}
			to, ok := parsed.Node(e.To)
			if !ok {
				continue
			}
			fid, ok := byName[from.Label]
			if !ok {
				fid = g.AddNode(from.Label)
				byName[from.Label] = fid
			}
			tid, ok := byName[to.Label]
			if !ok {
				tid = g.AddNode(to.Label)
				byName[to.Label] = tid
			}
			if err := g.AddWeightedEdge(fid, tid, e.Weight); err != nil {
				return nil, nil, err
			}
		}
	}

	if s.Root >= 0 && s.Root < len(ids) {
		if err := g.SetRoot(ids[s.Root]); err != nil {
			return nil, nil, err
		}
	}
	for _, i := range s.Selection {
		if i >= 0 && i < len(ids) {
			if err := g.Select(ids[i]); err != nil {
				return nil, nil, err
			}
		}
	}

	t := view.New()
	if s.View.Scale > 0 {
		t.Scale = s.View.Scale
	}
	if len(s.View.Translation) == 2 {
		t.Translation = vec.New(s.View.Translation[0], s.View.Translation[1])
	}

	return g, t, nil
}
