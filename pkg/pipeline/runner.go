package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jmerkel/nodepad/pkg/cache"
	"github.com/jmerkel/nodepad/pkg/graph"
	"github.com/jmerkel/nodepad/pkg/graph/text"
	"github.com/jmerkel/nodepad/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	g, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graph = g
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.Components = len(g.Components())
	result.CacheInfo.ParseHit = parseHit

	// Compute graph hash for cache keys and API responses
	if canonical, err := text.FormatString(g); err == nil {
		result.GraphHash = cache.Hash([]byte(canonical))
	}

	r.Logger.Info("parsed graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	positions, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = positions
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Iterations = opts.Iterations
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"iterations", opts.Iterations,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// ParseWithCacheInfo builds the graph with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*graph.Graph, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	src, name, err := loadSource(opts)
	if err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, name)
	start := time.Now()

	cacheKey := r.Keyer.GraphKey([]byte(src))

	// Try cache first (unless refresh requested). A hit holds the
	// canonical wire text, which parses back to the same graph.
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := text.ParseString(string(data), text.Options{}); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				hooks.OnParseComplete(ctx, name, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
				return g, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	// Parse
	g, err := text.ParseString(src, text.Options{})
	if err != nil {
		err = fmt.Errorf("%s: %w", name, err)
		hooks.OnParseComplete(ctx, name, 0, 0, time.Since(start), err)
		return nil, false, err
	}

	// Cache the canonical form
	if !opts.Refresh {
		if canonical, err := text.FormatString(g); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, []byte(canonical), cache.TTLGraph); err == nil {
				observability.Cache().OnCacheSet(ctx, "graph", len(canonical))
			}
		}
	}

	hooks.OnParseComplete(ctx, name, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	return g, false, nil // Cache miss
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*graph.Graph, error) {
	g, _, err := r.ParseWithCacheInfo(ctx, opts)
	return g, err
}

// ComputeLayoutWithCacheInfo computes positions with caching and returns cache hit info.
// On a hit the cached positions are applied to g before returning.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) ([][]float64, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount())
	start := time.Now()

	// Compute the cache key from the canonical wire text. Graphs whose
	// labels cannot be serialized still lay out, they just skip the cache.
	var cacheKey string
	if canonical, err := text.FormatString(g); err == nil {
		cacheKey = r.Keyer.LayoutKey(cache.Hash([]byte(canonical)), opts.LayoutKeyOpts())
	}

	// Try cache first
	if cacheKey != "" {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached [][]float64
			if err := json.Unmarshal(data, &cached); err == nil {
				if err := ApplyPositions(g, cached); err == nil {
					observability.Cache().OnCacheHit(ctx, "layout")
					hooks.OnLayoutComplete(ctx, opts.Iterations, time.Since(start), nil)
					return cached, true, nil // Cache hit
				}
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Run the simulation
	positions, err := ComputeLayout(ctx, g, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, opts.Iterations, time.Since(start), err)
		return nil, false, err
	}

	// Cache the result
	if cacheKey != "" {
		if data, err := json.Marshal(positions); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}

	hooks.OnLayoutComplete(ctx, opts.Iterations, time.Since(start), nil)
	return positions, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *graph.Graph, opts Options) ([][]float64, error) {
	positions, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return positions, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
