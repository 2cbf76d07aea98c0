package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/jmerkel/nodepad/pkg/cache"
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
	"github.com/jmerkel/nodepad/pkg/layout"
	"github.com/jmerkel/nodepad/pkg/vec"
)

func TestValidateIterations(t *testing.T) {
	tests := []struct {
		n       int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{MaxIterations, false},
		{MaxIterations + 1, true},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateIterations(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateIterations(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForParse(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForParse(); err == nil {
		t.Error("Missing source should fail")
	}

	opts = Options{Source: "a b\n"}
	if err := opts.ValidateForParse(); err != nil {
		t.Errorf("Inline source should pass: %v", err)
	}

	opts = Options{SourcePath: "graph.txt"}
	if err := opts.ValidateForParse(); err != nil {
		t.Errorf("Source path should pass: %v", err)
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Iterations != DefaultIterations {
		t.Errorf("Iterations should be %d, got %d", DefaultIterations, opts.Iterations)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if opts.RestLength != layout.DefaultRestLength {
		t.Errorf("RestLength should be %v, got %v", layout.DefaultRestLength, opts.RestLength)
	}
	if opts.RepulsionStrength != layout.DefaultRepulsionStrength {
		t.Errorf("RepulsionStrength should be %v, got %v", layout.DefaultRepulsionStrength, opts.RepulsionStrength)
	}
	if opts.AttractionStrength != layout.DefaultAttractionStrength {
		t.Errorf("AttractionStrength should be %v, got %v", layout.DefaultAttractionStrength, opts.AttractionStrength)
	}
	if opts.ScatterSide != DefaultScatterSide {
		t.Errorf("ScatterSide should be %v, got %v", DefaultScatterSide, opts.ScatterSide)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Source: "a -> b\n"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalIterations := opts.Iterations
	originalSeed := opts.Seed

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Iterations != originalIterations {
		t.Error("Iterations changed on second call")
	}
	if opts.Seed != originalSeed {
		t.Error("Seed changed on second call")
	}
}

func TestOptionsLayoutKeyOpts(t *testing.T) {
	opts := Options{
		Iterations:         500,
		Seed:               7,
		RestLength:         4,
		RepulsionStrength:  2,
		AttractionStrength: 0.5,
		ScatterSide:        3,
	}

	key := opts.LayoutKeyOpts()
	if key.Iterations != 500 || key.Seed != 7 {
		t.Errorf("key = %+v, want iteration and seed carried over", key)
	}
	if key.RestLength != 4 || key.RepulsionStrength != 2 || key.AttractionStrength != 0.5 || key.ScatterSide != 3 {
		t.Errorf("key = %+v, want physics knobs carried over", key)
	}
}

func TestParseInlineSource(t *testing.T) {
	g, err := Parse(Options{Source: "a -> b\nb -> c\n"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if !g.IsDirected() {
		t.Error("expected a directed graph")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.txt")
	if err := os.WriteFile(path, []byte("x y\ny z\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	g, err := Parse(Options{SourcePath: path})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.NodeCount() != 3 || g.IsDirected() {
		t.Errorf("got %d nodes, directed=%v; want 3 undirected", g.NodeCount(), g.IsDirected())
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(Options{SourcePath: filepath.Join(t.TempDir(), "absent.txt")}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestParseErrorCarriesLine(t *testing.T) {
	_, err := Parse(Options{Source: "a -> b\nlonely\n"})
	var perr *text.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v should carry a ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
}

func TestNewRunnerFallbacks(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil {
		t.Error("Cache should default to a null cache")
	}
	if r.Keyer == nil {
		t.Error("Keyer should default to the standard keyer")
	}
	if r.Logger == nil {
		t.Error("Logger should default to the global logger")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, log.New(io.Discard))

	opts := Options{Source: "a -> b\nb -> c\n", Iterations: 50}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 2 {
		t.Errorf("stats = %d nodes, %d edges; want 3, 2", result.Stats.NodeCount, result.Stats.EdgeCount)
	}
	if result.Stats.Components != 1 {
		t.Errorf("Components = %d, want 1", result.Stats.Components)
	}
	if len(result.Positions) != 3 {
		t.Fatalf("got %d positions, want 3", len(result.Positions))
	}
	if result.GraphHash == "" {
		t.Error("expected a graph hash")
	}
	if result.CacheInfo.ParseHit || result.CacheInfo.LayoutHit {
		t.Errorf("first run should miss the cache, got %+v", result.CacheInfo)
	}

	// Second run hits both stages and reproduces the exact positions.
	second, err := runner.Execute(ctx, Options{Source: "a -> b\nb -> c\n", Iterations: 50})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.ParseHit || !second.CacheInfo.LayoutHit {
		t.Errorf("second run should hit the cache, got %+v", second.CacheInfo)
	}
	for i := range result.Positions {
		if result.Positions[i][0] != second.Positions[i][0] || result.Positions[i][1] != second.Positions[i][1] {
			t.Errorf("position %d differs between runs: %v vs %v", i, result.Positions[i], second.Positions[i])
		}
	}
}

func TestRunnerExecuteRefresh(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, log.New(io.Discard))

	if _, err := runner.Execute(ctx, Options{Source: "a b\n", Iterations: 10}); err != nil {
		t.Fatal(err)
	}
	result, err := runner.Execute(ctx, Options{Source: "a b\n", Iterations: 10, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.ParseHit {
		t.Error("refresh should bypass the graph cache")
	}
}

func TestRunnerLayoutKeyDependsOnKnobs(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, log.New(io.Discard))

	if _, err := runner.Execute(ctx, Options{Source: "a b\n", Iterations: 10}); err != nil {
		t.Fatal(err)
	}

	// Same graph, different iteration count: layout recomputes.
	result, err := runner.Execute(ctx, Options{Source: "a b\n", Iterations: 20})
	if err != nil {
		t.Fatal(err)
	}
	if !result.CacheInfo.ParseHit {
		t.Error("graph stage should still hit")
	}
	if result.CacheInfo.LayoutHit {
		t.Error("layout stage should miss for a different iteration count")
	}
}

func TestCollectApplyPositions(t *testing.T) {
	g := graph.New(false, false)
	g.AddNodeAt("a", vec.New(1, 2))
	g.AddNodeAt("b", vec.New(3, 4))

	positions := CollectPositions(g)
	if len(positions) != 2 || positions[1][0] != 3 || positions[1][1] != 4 {
		t.Fatalf("CollectPositions = %v", positions)
	}

	if err := ApplyPositions(g, [][]float64{{9, 9}, {8, 8}}); err != nil {
		t.Fatalf("ApplyPositions: %v", err)
	}
	pos, err := g.Position(g.NodeIDs()[0])
	if err != nil {
		t.Fatal(err)
	}
	if pos.X() != 9 || pos.Y() != 9 {
		t.Errorf("position = %v, want (9, 9)", pos)
	}

	if err := ApplyPositions(g, [][]float64{{1, 1}}); err == nil {
		t.Error("mismatched count should fail")
	}
	if err := ApplyPositions(g, [][]float64{{1, 1, 1}, {2, 2}}); err == nil {
		t.Error("three coordinates should fail")
	}
}

func TestRunnerComputeLayoutUncachableLabels(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(c, nil, log.New(io.Discard))

	// A label with a space cannot be serialized, so the layout cannot be
	// cached, but the simulation must still run.
	g := graph.New(false, false)
	a := g.AddNode("two words")
	b := g.AddNode("plain")
	if err := g.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}

	positions, hit, err := runner.ComputeLayoutWithCacheInfo(ctx, g, Options{Iterations: 10})
	if err != nil {
		t.Fatalf("ComputeLayoutWithCacheInfo: %v", err)
	}
	if hit {
		t.Error("unserializable graph should never hit the cache")
	}
	if len(positions) != 2 {
		t.Errorf("got %d positions, want 2", len(positions))
	}
}
