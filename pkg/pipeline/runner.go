// Package pipeline provides the core layout pipeline for layoutd.
//
// This package implements the complete validate, translate, invoke,
// translate-back flow shared by the HTTP API and the CLI. By centralizing
// this logic, both entry points behave identically.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Validate: check the request graph against the schema, apply defaults
//  2. Translate: build the engine's wire-model request
//  3. Invoke: call the external engine under a deadline
//  4. Translate back: map the engine result into the public layout
//
// Stage 3 is the only asynchronous boundary; everything else is pure data
// mapping. Computed layouts are cached under a hash of the canonical
// request JSON.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, engine.RemoteFactory(url), logger)
//	result, err := runner.Execute(ctx, g)
//	if err != nil {
//	    // coded error: INVALID_INPUT, TIMEOUT, ENGINE_ERROR, ...
//	}
//	layout := result.Layout
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/layoutd/layoutd/pkg/cache"
	"github.com/layoutd/layoutd/pkg/engine"
	"github.com/layoutd/layoutd/pkg/errors"
	"github.com/layoutd/layoutd/pkg/graph"
	"github.com/layoutd/layoutd/pkg/observability"
	"github.com/layoutd/layoutd/pkg/translate"
)

// Runner executes the layout pipeline with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store request results. Multiple goroutines can safely use the same
// Runner; every request gets its own engine handle from the factory.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Engine  engine.Factory
	Logger  *log.Logger
	Timeout time.Duration
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed layout in the public model.
	Layout *graph.Layout

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the layout came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
}

// NewRunner creates a runner with the given cache, keyer, and engine factory.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, factory engine.Factory, logger *log.Logger) *Runner {
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
		Cache:   c,
		Keyer:   keyer,
		Engine:  factory,
		Logger:  logger,
		Timeout: engine.DefaultTimeout,
	}
}

// Execute runs the complete pipeline for one request graph.
//
// The graph is validated first; a validation failure returns immediately
// and the engine is never constructed. On success the returned layout is
// complete; there are no partial results.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	g.ApplyDefaults()

	result := &Result{
		Stats: Stats{NodeCount: len(g.Nodes), EdgeCount: len(g.Edges)},
	}

	// Cache lookup on the canonical request bytes. Cache errors are soft:
	// fall through to computing the layout.
	var cacheKey string
	if data, err := graph.MarshalGraph(g); err == nil {
		cacheKey = r.Keyer.LayoutKey(cache.Hash(data))
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var l graph.Layout
			if json.Unmarshal(cached, &l) == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				result.Layout = &l
				result.CacheHit = true
				return result, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	req := translate.Request(g)

	eng, err := r.Engine()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "construct engine")
	}

	observability.Layout().OnLayoutStart(ctx, result.Stats.NodeCount, result.Stats.EdgeCount)
	layoutStart := time.Now()
	res, err := engine.Invoke(ctx, eng, req, r.Timeout)
	result.Stats.LayoutTime = time.Since(layoutStart)
	observability.Layout().OnLayoutComplete(ctx, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, err
	}

	result.Layout = translate.Response(res)

	r.Logger.Info("computed layout",
		"graph", g.ID,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.LayoutTime)

	if cacheKey != "" {
		if data, err := json.Marshal(result.Layout); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout) == nil {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
