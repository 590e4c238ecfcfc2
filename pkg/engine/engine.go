// Package engine defines the boundary to the external layout engine and the
// bounded-time invocation around it.
//
// The engine itself is a black box: anything that can take the wire-model
// graph and return a result satisfies [Engine]. layoutd ships a remote HTTP
// implementation ([Remote]); tests substitute stubs.
//
// Engines are constructed per request via a [Factory] so no state can bleed
// between concurrent requests through a shared handle.
package engine

import (
	"context"
	"time"

	"github.com/layoutd/layoutd/pkg/elk"
	"github.com/layoutd/layoutd/pkg/errors"
)

// DefaultTimeout is the engine deadline used when none is configured.
const DefaultTimeout = 8000 * time.Millisecond

// Engine computes a layout for the given graph. Implementations should
// honor ctx for their own I/O, but callers must not rely on cancellation:
// the invoker abandons a slow engine rather than stopping it.
type Engine interface {
	Layout(ctx context.Context, g *elk.Graph) (*elk.Result, error)
}

// Factory constructs a fresh engine handle for one request.
type Factory func() (Engine, error)

// Invoke runs the engine against a deadline and returns whichever finishes
// first: the engine's result, or a TIMEOUT error once the deadline passes.
//
// This is a soft deadline. When the timer wins, the engine goroutine keeps
// running to completion in the background and its result is discarded; the
// result channel is buffered so the loser never leaks blocked.
//
// Engine failures come back as ENGINE_ERROR with the engine's own message
// preserved. Nothing is retried.
func Invoke(ctx context.Context, eng Engine, g *elk.Graph, timeout time.Duration) (*elk.Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	type outcome struct {
		res *elk.Result
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := eng.Layout(ctx, g)
		done <- outcome{res: res, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.GetCode(out.err) != "" {
				return nil, out.err
			}
			return nil, errors.Wrap(errors.ErrCodeEngine, out.err, "layout failed")
		}
		return out.res, nil
	case <-timer.C:
		return nil, errors.New(errors.ErrCodeTimeout, "layout_timeout")
	case <-ctx.Done():
		return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "layout_timeout")
	}
}
