// Package translate maps between the public graph model and the layout
// engine's wire model.
//
// The mapping is pure data transformation: any graph that passed validation
// translates without error, and translating the same graph twice yields the
// same engine request. All engine-specific conventions live here: option
// stringification, composite port ids, port ordering, and the coordinate
// defaulting on the way back.
package translate

import (
	"sort"
	"strconv"

	"github.com/layoutd/layoutd/pkg/elk"
	"github.com/layoutd/layoutd/pkg/graph"
)

// PortSeparator joins a node id and a port id into a globally unique
// engine-side port id.
const PortSeparator = "."

// sideNames maps the compass codes of the public model to the engine's
// cardinal direction words.
var sideNames = map[string]string{
	graph.SideNorth: "NORTH",
	graph.SideEast:  "EAST",
	graph.SideSouth: "SOUTH",
	graph.SideWest:  "WEST",
}

// PortID returns the engine-side id for a port: nodeID + "." + portID.
//
// The engine requires port ids to be unique across the whole graph, which
// the composite form guarantees as long as node ids and per-node port ids
// are each unique. A node id that itself contains the separator can in
// principle collide with another node+port concatenation; the adapter never
// splits the composite id back apart, so such a collision is only visible
// to the engine.
func PortID(nodeID, portID string) string {
	return nodeID + PortSeparator + portID
}

// Request maps a validated, defaulted graph to the engine request.
//
// Engine conventions applied here:
//   - layered algorithm with orthogonal edge routing, flowing in the
//     graph's direction
//   - spacing.node feeds node-node, layer-layer and component-component
//     gaps; spacing.edge feeds both edge-edge gaps; spacing.port feeds the
//     port-port gap, all stringified at this boundary only
//   - every node gets fixed-position port constraints so explicit port
//     coordinates are honored verbatim instead of recomputed
//   - port x/y are carried only when present, letting the engine place
//     ports that have no explicit position
//   - each node's ports are stable-sorted by order ascending, which drives
//     the engine's fallback placement along a side
func Request(g *graph.Graph) *elk.Graph {
	nodeGap := strconv.FormatFloat(g.Spacing.Node, 'f', -1, 64)
	edgeGap := strconv.FormatFloat(g.Spacing.Edge, 'f', -1, 64)
	portGap := strconv.FormatFloat(g.Spacing.Port, 'f', -1, 64)

	req := &elk.Graph{
		ID: g.ID,
		LayoutOptions: map[string]string{
			elk.OptAlgorithm:         elk.AlgorithmLayered,
			elk.OptDirection:         g.Direction,
			elk.OptEdgeRouting:       elk.EdgeRoutingOrtho,
			elk.OptSpacingNodeNode:   nodeGap,
			elk.OptSpacingLayers:     nodeGap,
			elk.OptSpacingComponents: nodeGap,
			elk.OptSpacingEdgeEdge:   edgeGap,
			elk.OptSpacingEdgeLayers: edgeGap,
			elk.OptSpacingPortPort:   portGap,
		},
		Children: make([]*elk.Node, 0, len(g.Nodes)),
		Edges:    make([]*elk.Edge, 0, len(g.Edges)),
	}

	for _, n := range g.Nodes {
		child := &elk.Node{
			ID:     n.ID,
			Width:  n.Width,
			Height: n.Height,
			LayoutOptions: map[string]string{
				elk.OptPortConstraints: elk.PortConstraintsFix,
			},
			Ports: make([]*elk.Port, 0, len(n.Ports)),
		}

		for _, p := range n.Ports {
			port := &elk.Port{
				ID:    PortID(n.ID, p.ID),
				Order: p.Order,
			}
			if p.X != nil {
				x := *p.X
				port.X = &x
			}
			if p.Y != nil {
				y := *p.Y
				port.Y = &y
			}
			if p.Side != "" {
				port.LayoutOptions = map[string]string{
					elk.OptPortSide: sideNames[p.Side],
				}
			}
			child.Ports = append(child.Ports, port)
		}

		// Stable: ports with equal order keep their input order.
		sort.SliceStable(child.Ports, func(i, j int) bool {
			return child.Ports[i].Order < child.Ports[j].Order
		})

		req.Children = append(req.Children, child)
	}

	for _, e := range g.Edges {
		req.Edges = append(req.Edges, &elk.Edge{
			ID:      e.ID,
			Sources: []string{e.Source},
			Targets: []string{e.Target},
		})
	}

	return req
}
