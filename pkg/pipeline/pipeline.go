// Package pipeline provides the core graph pipeline for Nodepad.
//
// This package implements the complete parse → layout pipeline that can be
// used by CLI and server components. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Parse: Build a graph from wire-format text
//  2. Layout: Scatter the nodes and run the force simulation to rest
//
// Each stage can be run independently or as part of the complete pipeline.
// Both stages cache their results: parsed graphs are stored as canonical
// wire text keyed by the raw source, and layouts are stored as position
// lists keyed by the graph content together with every physics knob.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:     "a -> b\nb -> c\n",
//	    Iterations: 2000,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Positions)
//
// Run individual stages:
//
//	// Parse only
//	g, err := runner.Parse(ctx, opts)
//
//	// Layout with an existing graph
//	positions, err := runner.ComputeLayout(ctx, g, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jmerkel/nodepad/pkg/cache"
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultIterations is the number of simulation ticks a batch layout
	// runs. Small graphs settle well before this; the cap keeps dense
	// graphs from spinning forever.
	DefaultIterations = 1000

	// MaxIterations bounds a single layout request. Server callers can
	// ask for fewer iterations but never more.
	MaxIterations = 100000

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultScatterSide is the side of the square nodes are scattered
	// over before the simulation starts.
	DefaultScatterSide = layout.DefaultScatterSide
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the graph pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Source     string `json:"source,omitempty"`      // Wire-format text
	SourcePath string `json:"source_path,omitempty"` // File to read instead of Source ("-" means stdin)
	SourceName string `json:"source_name,omitempty"` // Display name for inline sources
	Refresh    bool   `json:"refresh,omitempty"`     // Bypass the graph cache

	// Layout options
	Iterations         int     `json:"iterations,omitempty"`
	Seed               uint64  `json:"seed,omitempty"`
	RestLength         float64 `json:"rest_length,omitempty"`
	RepulsionStrength  float64 `json:"repulsion_strength,omitempty"`
	AttractionStrength float64 `json:"attraction_strength,omitempty"`
	ScatterSide        float64 `json:"scatter_side,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed graph with final positions applied.
	Graph *graph.Graph

	// GraphHash is the content hash of the canonical wire text.
	GraphHash string

	// Positions holds the final node positions in NodeIDs order.
	Positions [][]float64

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Components int
	Iterations int
	ParseTime  time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the graph came from cache
	LayoutHit bool // Whether the positions came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateIterations checks that an iteration count is within bounds.
func ValidateIterations(n int) error {
	if n < 0 {
		return fmt.Errorf("iterations must be non-negative, got %d", n)
	}
	if n > MaxIterations {
		return fmt.Errorf("iterations must be at most %d, got %d", MaxIterations, n)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Source == "" && o.SourcePath == "" {
		return fmt.Errorf("source or source_path is required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.RestLength == 0 {
		o.RestLength = layout.DefaultRestLength
	}
	if o.RepulsionStrength == 0 {
		o.RepulsionStrength = layout.DefaultRepulsionStrength
	}
	if o.AttractionStrength == 0 {
		o.AttractionStrength = layout.DefaultAttractionStrength
	}
	if o.ScatterSide == 0 {
		o.ScatterSide = DefaultScatterSide
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateIterations(o.Iterations)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Iterations:         o.Iterations,
		Seed:               o.Seed,
		RestLength:         o.RestLength,
		RepulsionStrength:  o.RepulsionStrength,
		AttractionStrength: o.AttractionStrength,
		ScatterSide:        o.ScatterSide,
	}
}

// EngineOptions returns the force model configuration for the layout stage.
func (o *Options) EngineOptions() layout.Options {
	return layout.Options{
		RestLength:         o.RestLength,
		RepulsionStrength:  o.RepulsionStrength,
		AttractionStrength: o.AttractionStrength,
		Seed:               o.Seed,
	}
}
