package metrics

import (
	"context"
	"time"

	"github.com/layoutd/layoutd/pkg/errors"
	"github.com/layoutd/layoutd/pkg/observability"
)

// Hooks bridges observability events into the prometheus registry. Register
// at startup:
//
//	h := metrics.NewHooks(reg)
//	observability.SetLayoutHooks(h)
//	observability.SetCacheHooks(h)
type Hooks struct {
	reg *Registry
}

// NewHooks creates an observability bridge for the given registry.
func NewHooks(reg *Registry) *Hooks {
	return &Hooks{reg: reg}
}

// OnLayoutStart implements observability.LayoutHooks.
func (h *Hooks) OnLayoutStart(ctx context.Context, nodeCount, edgeCount int) {
	h.reg.LayoutNodeCount.Observe(float64(nodeCount))
}

// OnLayoutComplete implements observability.LayoutHooks.
func (h *Hooks) OnLayoutComplete(ctx context.Context, duration time.Duration, err error) {
	h.reg.LayoutDuration.Observe(duration.Seconds())
	h.reg.LayoutsTotal.WithLabelValues(layoutResult(err)).Inc()
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(ctx context.Context, keyType string) {
	h.reg.CacheHitsTotal.Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.reg.CacheMissesTotal.Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(ctx context.Context, keyType string, size int) {}

func layoutResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errors.ErrCodeTimeout):
		return "timeout"
	case errors.Is(err, errors.ErrCodeEngine):
		return "engine_error"
	default:
		return "error"
	}
}

var (
	_ observability.LayoutHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
)
