package graph

import (
	"strings"
	"testing"

	"github.com/layoutd/layoutd/pkg/errors"
)

func validGraph() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "n1", Width: 40, Height: 20},
			{ID: "n2", Width: 30, Height: 30, Ports: []Port{
				{ID: "p1", Side: SideNorth, Order: 1},
				{ID: "p2", X: f(5), Y: f(10)},
			}},
		},
		Edges: []Edge{{ID: "e1", Source: "n1", Target: "n2"}},
	}
}

func f(v float64) *float64 { return &v }

func TestValidateAccepts(t *testing.T) {
	g := validGraph()
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Graph)
		code    errors.Code
		wantLoc string
	}{
		{
			name:    "missing nodes",
			mutate:  func(g *Graph) { g.Nodes = nil },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "nodes is required",
		},
		{
			name:    "missing edges",
			mutate:  func(g *Graph) { g.Edges = nil },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "edges is required",
		},
		{
			name:    "negative width",
			mutate:  func(g *Graph) { g.Nodes[0].Width = -5 },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "nodes[0].width",
		},
		{
			name:    "zero height",
			mutate:  func(g *Graph) { g.Nodes[1].Height = 0 },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "nodes[1].height",
		},
		{
			name:    "missing node id",
			mutate:  func(g *Graph) { g.Nodes[0].ID = "" },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "nodes[0].id",
		},
		{
			name:    "duplicate node id",
			mutate:  func(g *Graph) { g.Nodes[1].ID = "n1" },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "nodes[1].id",
		},
		{
			name:    "invalid direction",
			mutate:  func(g *Graph) { g.Direction = "UP" },
			code:    errors.ErrCodeInvalidDirection,
			wantLoc: "direction",
		},
		{
			name:    "invalid side",
			mutate:  func(g *Graph) { g.Nodes[1].Ports[0].Side = "NORTH" },
			code:    errors.ErrCodeInvalidSide,
			wantLoc: "nodes[1].ports[0].side",
		},
		{
			name:    "negative port order",
			mutate:  func(g *Graph) { g.Nodes[1].Ports[0].Order = -1 },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "nodes[1].ports[0].order",
		},
		{
			name:    "duplicate port id within node",
			mutate:  func(g *Graph) { g.Nodes[1].Ports[1].ID = "p1" },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "nodes[1].ports[1].id",
		},
		{
			name:    "missing edge source",
			mutate:  func(g *Graph) { g.Edges[0].Source = "" },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "edges[0].source",
		},
		{
			name:    "duplicate edge id",
			mutate:  func(g *Graph) { g.Edges = append(g.Edges, Edge{ID: "e1", Source: "n2", Target: "n1"}) },
			code:    errors.ErrCodeInvalidInput,
			wantLoc: "edges[1].id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGraph()
			tt.mutate(g)
			err := g.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
			if !strings.Contains(err.Error(), tt.wantLoc) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantLoc)
			}
		})
	}
}

func TestValidateSameIDAcrossNodesAllowed(t *testing.T) {
	// Port ids only need to be unique within their node.
	g := &Graph{
		Nodes: []Node{
			{ID: "n1", Width: 10, Height: 10, Ports: []Port{{ID: "p"}}},
			{ID: "n2", Width: 10, Height: 10, Ports: []Port{{ID: "p"}}},
		},
		Edges: []Edge{},
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "n1", Width: 10, Height: 10}},
		Edges: []Edge{},
	}
	g.ApplyDefaults()

	if g.ID != "root" {
		t.Errorf("ID = %q, want %q", g.ID, "root")
	}
	if g.Direction != DirectionDown {
		t.Errorf("Direction = %q, want %q", g.Direction, DirectionDown)
	}
	if g.Spacing.Node != 48 || g.Spacing.Edge != 24 || g.Spacing.Port != 12 {
		t.Errorf("Spacing = %+v, want {48 24 12}", g.Spacing)
	}
	if g.Nodes[0].Ports == nil {
		t.Error("Ports = nil, want empty slice")
	}
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	g := &Graph{
		ID:        "diagram",
		Direction: DirectionRight,
		Spacing:   Spacing{Node: 100, Edge: 50, Port: 5},
		Nodes:     []Node{},
		Edges:     []Edge{},
	}
	g.ApplyDefaults()

	if g.ID != "diagram" || g.Direction != DirectionRight {
		t.Errorf("explicit id/direction overwritten: %q %q", g.ID, g.Direction)
	}
	if g.Spacing != (Spacing{Node: 100, Edge: 50, Port: 5}) {
		t.Errorf("explicit spacing overwritten: %+v", g.Spacing)
	}
}

func TestReadGraph(t *testing.T) {
	body := `{"id":"g","direction":"RIGHT","nodes":[{"id":"n1","width":40,"height":20,"ports":[{"id":"p1","x":3}]}],"edges":[]}`
	g, err := ReadGraph(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ReadGraph() error = %v", err)
	}
	if g.Direction != DirectionRight || len(g.Nodes) != 1 {
		t.Fatalf("unexpected graph: %+v", g)
	}
	p := g.Nodes[0].Ports[0]
	if p.X == nil || *p.X != 3 {
		t.Errorf("port X = %v, want 3", p.X)
	}
	if p.Y != nil {
		t.Errorf("port Y = %v, want nil (absent)", *p.Y)
	}
}

func TestReadGraphMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"wrong type", `{"nodes":"oops"}`},
		{"width as string", `{"nodes":[{"id":"n","width":"40","height":20}],"edges":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ReadGraph() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}
