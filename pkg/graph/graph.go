// Package graph defines the public request and response model for layoutd.
//
// A Graph is the root of a layout request: nodes with optional fixed-position
// ports, directed edges between nodes, and spacing knobs. The Layout type is
// the corresponding response: absolute coordinates for every node and port,
// and routed sections for every edge.
//
// All values live for a single request. Nothing in this package is shared
// across requests or persisted.
package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Flow directions.
const (
	DirectionDown  = "DOWN"
	DirectionRight = "RIGHT"
)

// Port sides (compass codes).
const (
	SideNorth = "N"
	SideEast  = "E"
	SideSouth = "S"
	SideWest  = "W"
)

// Defaults applied by [Graph.ApplyDefaults].
const (
	DefaultGraphID = "root"

	DefaultNodeSpacing = 48.0
	DefaultEdgeSpacing = 24.0
	DefaultPortSpacing = 12.0
)

// DefaultDirection is the flow direction used when none is given.
const DefaultDirection = DirectionDown

// =============================================================================
// Request Model
// =============================================================================

// Graph is the root of a layout request.
type Graph struct {
	ID        string  `json:"id"`
	Direction string  `json:"direction" validate:"omitempty,oneof=DOWN RIGHT"`
	Nodes     []Node  `json:"nodes"`
	Edges     []Edge  `json:"edges"`
	Spacing   Spacing `json:"spacing"`
}

// Node is a rectangular element to be placed by the layout engine.
// Dimensions must be positive; the position is computed, never supplied.
type Node struct {
	ID     string  `json:"id" validate:"required"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
	Ports  []Port  `json:"ports"`
}

// Port is a named anchor point on a node's boundary where edges attach.
//
// X and Y are relative to the owning node's top-left corner, y increasing
// downward. They are independent: either, both, or neither may be present.
// A port with coordinates is honored verbatim by the engine; a port without
// them is placed by the engine along its side.
type Port struct {
	ID    string   `json:"id" validate:"required"`
	Side  string   `json:"side" validate:"omitempty,oneof=N E S W"`
	Order int      `json:"order" validate:"gte=0"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
}

// Edge is a directed relation between two nodes, addressed by node id.
type Edge struct {
	ID     string `json:"id" validate:"required"`
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

// Spacing holds the numeric layout gaps. Zero values are replaced with
// defaults by [Graph.ApplyDefaults].
type Spacing struct {
	Node float64 `json:"node" validate:"gte=0"`
	Edge float64 `json:"edge" validate:"gte=0"`
	Port float64 `json:"port" validate:"gte=0"`
}

// ApplyDefaults fills in the documented default values: graph id "root",
// direction DOWN, spacing {node:48, edge:24, port:12}, and an empty (non-nil)
// port list per node. Call after [Graph.Validate]; validation never depends
// on defaults being applied.
func (g *Graph) ApplyDefaults() {
	if g.ID == "" {
		g.ID = DefaultGraphID
	}
	if g.Direction == "" {
		g.Direction = DefaultDirection
	}
	if g.Spacing.Node == 0 {
		g.Spacing.Node = DefaultNodeSpacing
	}
	if g.Spacing.Edge == 0 {
		g.Spacing.Edge = DefaultEdgeSpacing
	}
	if g.Spacing.Port == 0 {
		g.Spacing.Port = DefaultPortSpacing
	}
	for i := range g.Nodes {
		if g.Nodes[i].Ports == nil {
			g.Nodes[i].Ports = []Port{}
		}
	}
}

// =============================================================================
// Response Model
// =============================================================================

// Layout is the result of a successful layout request. Node and edge order
// matches the request; ids are preserved (port ids keep the composite
// "nodeId.portId" form produced during translation).
type Layout struct {
	Nodes []LayoutNode `json:"nodes"`
	Edges []LayoutEdge `json:"edges"`
}

// LayoutNode is a placed node with absolute coordinates.
type LayoutNode struct {
	ID     string       `json:"id"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Ports  []LayoutPort `json:"ports"`
}

// LayoutPort is a placed port with absolute coordinates.
type LayoutPort struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LayoutEdge is a routed edge. An edge has at least one section when the
// engine routed it; sections are ordered along the path.
type LayoutEdge struct {
	ID       string    `json:"id"`
	Sections []Section `json:"sections"`
}

// Section is one straight-line run of an edge route with optional bends.
type Section struct {
	Start      Point   `json:"start"`
	End        Point   `json:"end"`
	BendPoints []Point `json:"bendPoints"`
}

// Point is an absolute 2-D coordinate, y increasing downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
