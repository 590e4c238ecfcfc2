// Package elk defines the wire model of the external layout engine.
//
// The engine consumes a nested graph in which every element can carry a bag
// of string-valued layout options, and produces the same structure annotated
// with coordinates and routed edge sections. The option vocabulary follows
// the ELK layered algorithm (elk.* keys); layoutd only ever sets the subset
// listed as constants here.
//
// Coordinates in this model are in the engine's space: node x/y absolute,
// port x/y relative to the owning node, y increasing downward. Optional
// coordinates are pointers so that an absent value is omitted from the JSON
// entirely rather than encoded as 0; the engine treats a present 0 as a
// fixed position.
package elk

// Layout option keys understood by the engine.
const (
	OptAlgorithm         = "elk.algorithm"
	OptDirection         = "elk.direction"
	OptEdgeRouting       = "elk.edgeRouting"
	OptPortConstraints   = "elk.portConstraints"
	OptPortSide          = "elk.port.side"
	OptSpacingNodeNode   = "elk.spacing.nodeNode"
	OptSpacingLayers     = "elk.layered.spacing.nodeNodeBetweenLayers"
	OptSpacingComponents = "elk.spacing.componentComponent"
	OptSpacingEdgeEdge   = "elk.spacing.edgeEdge"
	OptSpacingEdgeLayers = "elk.layered.spacing.edgeEdgeBetweenLayers"
	OptSpacingPortPort   = "elk.spacing.portPort"
)

// Option values set by layoutd.
const (
	AlgorithmLayered   = "layered"
	EdgeRoutingOrtho   = "ORTHOGONAL"
	PortConstraintsFix = "FIXED_POS"
)

// Graph is the engine's request root.
type Graph struct {
	ID            string            `json:"id"`
	LayoutOptions map[string]string `json:"layoutOptions,omitempty"`
	Children      []*Node           `json:"children"`
	Edges         []*Edge           `json:"edges"`
}

// Node is a child element to be placed.
type Node struct {
	ID            string            `json:"id"`
	Width         float64           `json:"width"`
	Height        float64           `json:"height"`
	Ports         []*Port           `json:"ports,omitempty"`
	LayoutOptions map[string]string `json:"layoutOptions,omitempty"`
}

// Port is an attachment point on a node. The engine requires port ids to be
// unique across the whole graph, not just within a node.
type Port struct {
	ID            string            `json:"id"`
	X             *float64          `json:"x,omitempty"`
	Y             *float64          `json:"y,omitempty"`
	Order         int               `json:"order"`
	LayoutOptions map[string]string `json:"layoutOptions,omitempty"`
}

// Edge connects source elements to target elements.
type Edge struct {
	ID      string   `json:"id"`
	Sources []string `json:"sources"`
	Targets []string `json:"targets"`
}

// Result is the engine's response root. Children and Edges may each be
// empty or absent.
type Result struct {
	ID       string        `json:"id"`
	Children []*Child      `json:"children"`
	Edges    []*RoutedEdge `json:"edges"`
}

// Child is a placed node in the result. X and Y are absent when the engine
// did not move the element.
type Child struct {
	ID     string       `json:"id"`
	X      *float64     `json:"x"`
	Y      *float64     `json:"y"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Ports  []*ChildPort `json:"ports"`
}

// ChildPort is a placed port in the result, relative to its node.
type ChildPort struct {
	ID string   `json:"id"`
	X  *float64 `json:"x"`
	Y  *float64 `json:"y"`
}

// RoutedEdge carries the routing geometry for one edge.
type RoutedEdge struct {
	ID       string     `json:"id"`
	Sections []*Section `json:"sections"`
}

// Section is one routed run with a start point, an end point, and zero or
// more intermediate bends.
type Section struct {
	ID         string  `json:"id"`
	StartPoint Point   `json:"startPoint"`
	EndPoint   Point   `json:"endPoint"`
	BendPoints []Point `json:"bendPoints"`
}

// Point is a coordinate pair in the engine's space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
