package pipeline

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/layoutd/layoutd/pkg/cache"
	"github.com/layoutd/layoutd/pkg/elk"
	"github.com/layoutd/layoutd/pkg/engine"
	"github.com/layoutd/layoutd/pkg/errors"
	"github.com/layoutd/layoutd/pkg/graph"
)

// stackEngine is a deterministic stand-in for the layered engine: it places
// children top to bottom in input order, separated by a fixed gap, and routes
// each edge as a single vertical section between node centers.
type stackEngine struct {
	calls atomic.Int64
}

func (e *stackEngine) Layout(ctx context.Context, g *elk.Graph) (*elk.Result, error) {
	e.calls.Add(1)

	res := &elk.Result{ID: g.ID}
	pos := make(map[string]*elk.Child, len(g.Children))
	y := 0.0
	for _, n := range g.Children {
		x, ny := 0.0, y
		child := &elk.Child{
			ID:     n.ID,
			X:      &x,
			Y:      &ny,
			Width:  n.Width,
			Height: n.Height,
		}
		for _, p := range n.Ports {
			child.Ports = append(child.Ports, &elk.ChildPort{ID: p.ID, X: p.X, Y: p.Y})
		}
		res.Children = append(res.Children, child)
		pos[n.ID] = child
		y += n.Height + 40
	}
	for _, edge := range g.Edges {
		src, tgt := pos[edge.Sources[0]], pos[edge.Targets[0]]
		res.Edges = append(res.Edges, &elk.RoutedEdge{
			ID: edge.ID,
			Sections: []*elk.Section{{
				ID:         edge.ID + "_s0",
				StartPoint: elk.Point{X: src.Width / 2, Y: *src.Y + src.Height},
				EndPoint:   elk.Point{X: tgt.Width / 2, Y: *tgt.Y},
			}},
		})
	}
	return res, nil
}

func (e *stackEngine) factory() engine.Factory {
	return func() (engine.Engine, error) { return e, nil }
}

func newTestRunner(eng *stackEngine) *Runner {
	return NewRunner(nil, nil, eng.factory(), nil)
}

func TestExecuteSingleNode(t *testing.T) {
	eng := &stackEngine{}
	runner := newTestRunner(eng)

	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "n1", Width: 40, Height: 20}},
		Edges: []graph.Edge{},
	}

	result, err := runner.Execute(context.Background(), g)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Layout.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(result.Layout.Nodes))
	}
	n := result.Layout.Nodes[0]
	if n.ID != "n1" || n.Width != 40 || n.Height != 20 {
		t.Errorf("node = %+v, want id n1 with original dimensions", n)
	}
	if len(result.Layout.Edges) != 0 {
		t.Errorf("got %d edges, want 0", len(result.Layout.Edges))
	}
	if result.Stats.NodeCount != 1 || result.Stats.EdgeCount != 0 {
		t.Errorf("stats = %+v", result.Stats)
	}
}

func TestExecuteTwoNodesDown(t *testing.T) {
	eng := &stackEngine{}
	runner := newTestRunner(eng)

	g := &graph.Graph{
		Direction: graph.DirectionDown,
		Nodes: []graph.Node{
			{ID: "n1", Width: 40, Height: 20},
			{ID: "n2", Width: 40, Height: 20},
		},
		Edges: []graph.Edge{{ID: "e1", Source: "n1", Target: "n2"}},
	}

	result, err := runner.Execute(context.Background(), g)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	byID := map[string]graph.LayoutNode{}
	for _, n := range result.Layout.Nodes {
		byID[n.ID] = n
	}
	if byID["n2"].Y <= byID["n1"].Y {
		t.Errorf("n2.y = %v not below n1.y = %v", byID["n2"].Y, byID["n1"].Y)
	}
	if len(result.Layout.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(result.Layout.Edges))
	}
	if len(result.Layout.Edges[0].Sections) < 1 {
		t.Error("routed edge has no sections")
	}
}

func TestExecuteValidationFailureSkipsEngine(t *testing.T) {
	eng := &stackEngine{}
	runner := newTestRunner(eng)

	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "n1", Width: -5, Height: 20}},
		Edges: []graph.Edge{},
	}

	_, err := runner.Execute(context.Background(), g)
	if err == nil {
		t.Fatal("Execute() succeeded with invalid graph")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
	if got := eng.calls.Load(); got != 0 {
		t.Errorf("engine invoked %d times for invalid input, want 0", got)
	}
}

func TestExecuteCacheHit(t *testing.T) {
	eng := &stackEngine{}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, eng.factory(), nil)
	defer runner.Close()

	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "n1", Width: 40, Height: 20}},
		Edges: []graph.Edge{},
	}

	first, err := runner.Execute(context.Background(), g)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheHit {
		t.Error("first execution reported a cache hit")
	}

	second, err := runner.Execute(context.Background(), g)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheHit {
		t.Error("second execution missed the cache")
	}
	if got := eng.calls.Load(); got != 1 {
		t.Errorf("engine invoked %d times, want 1", got)
	}
	if len(second.Layout.Nodes) != 1 || second.Layout.Nodes[0].ID != "n1" {
		t.Errorf("cached layout = %+v", second.Layout)
	}
}

func TestExecuteEngineFactoryError(t *testing.T) {
	runner := NewRunner(nil, nil, engine.RemoteFactory(""), nil)

	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "n1", Width: 40, Height: 20}},
		Edges: []graph.Edge{},
	}

	_, err := runner.Execute(context.Background(), g)
	if err == nil {
		t.Fatal("Execute() succeeded without an engine")
	}
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("error code = %v, want INTERNAL", errors.GetCode(err))
	}
}

// slowEngine never returns until its context is dropped.
type slowEngine struct{}

func (slowEngine) Layout(ctx context.Context, g *elk.Graph) (*elk.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExecuteTimeout(t *testing.T) {
	runner := NewRunner(nil, nil, func() (engine.Engine, error) {
		return slowEngine{}, nil
	}, nil)
	runner.Timeout = 30 * time.Millisecond

	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "n1", Width: 40, Height: 20}},
		Edges: []graph.Edge{},
	}

	_, err := runner.Execute(context.Background(), g)
	if err == nil {
		t.Fatal("Execute() succeeded past the deadline")
	}
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("error code = %v, want TIMEOUT", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "layout_timeout") {
		t.Errorf("error message %q missing layout_timeout", err.Error())
	}
}
