package translate

import (
	"github.com/layoutd/layoutd/pkg/elk"
	"github.com/layoutd/layoutd/pkg/graph"
)

// Response maps an engine result to the public layout model.
//
// Coordinates the engine omitted come back as 0, never missing. Width and
// height pass through verbatim, as do the composite port ids produced by
// [Request]. An engine result with no children or no edges maps to empty
// lists.
func Response(res *elk.Result) *graph.Layout {
	out := &graph.Layout{
		Nodes: make([]graph.LayoutNode, 0, len(res.Children)),
		Edges: make([]graph.LayoutEdge, 0, len(res.Edges)),
	}

	for _, c := range res.Children {
		node := graph.LayoutNode{
			ID:     c.ID,
			X:      coord(c.X),
			Y:      coord(c.Y),
			Width:  c.Width,
			Height: c.Height,
			Ports:  make([]graph.LayoutPort, 0, len(c.Ports)),
		}
		for _, p := range c.Ports {
			node.Ports = append(node.Ports, graph.LayoutPort{
				ID: p.ID,
				X:  coord(p.X),
				Y:  coord(p.Y),
			})
		}
		out.Nodes = append(out.Nodes, node)
	}

	for _, e := range res.Edges {
		edge := graph.LayoutEdge{
			ID:       e.ID,
			Sections: make([]graph.Section, 0, len(e.Sections)),
		}
		for _, s := range e.Sections {
			sec := graph.Section{
				Start:      graph.Point{X: s.StartPoint.X, Y: s.StartPoint.Y},
				End:        graph.Point{X: s.EndPoint.X, Y: s.EndPoint.Y},
				BendPoints: make([]graph.Point, 0, len(s.BendPoints)),
			}
			for _, b := range s.BendPoints {
				sec.BendPoints = append(sec.BendPoints, graph.Point{X: b.X, Y: b.Y})
			}
			edge.Sections = append(edge.Sections, sec)
		}
		out.Edges = append(out.Edges, edge)
	}

	return out
}

func coord(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
