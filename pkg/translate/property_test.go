package translate

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/layoutd/layoutd/pkg/graph"
)

// Orders are drawn from a small range so ties (the interesting case for
// stability) are frequent.
func TestPortOrderingProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("translated ports are sorted by order, ties keep input order", prop.ForAll(
		func(orders []int) bool {
			ports := make([]graph.Port, len(orders))
			for i, o := range orders {
				ports[i] = graph.Port{ID: portName(i), Order: o}
			}
			g := &graph.Graph{
				Nodes: []graph.Node{{ID: "n", Width: 10, Height: 10, Ports: ports}},
				Edges: []graph.Edge{},
			}
			g.ApplyDefaults()

			translated := Request(g).Children[0].Ports
			for i := 1; i < len(translated); i++ {
				prev, cur := translated[i-1], translated[i]
				if prev.Order > cur.Order {
					return false
				}
				if prev.Order == cur.Order && inputIndex(prev.ID) > inputIndex(cur.ID) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("translation is idempotent", prop.ForAll(
		func(orders []int) bool {
			ports := make([]graph.Port, len(orders))
			for i, o := range orders {
				ports[i] = graph.Port{ID: portName(i), Order: o}
			}
			g := &graph.Graph{
				Nodes: []graph.Node{{ID: "n", Width: 10, Height: 10, Ports: ports}},
				Edges: []graph.Edge{},
			}
			g.ApplyDefaults()

			first := Request(g).Children[0].Ports
			second := Request(g).Children[0].Ports
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i].ID != second[i].ID {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("composite ids are unique when node and port ids are", prop.ForAll(
		func(portCount int) bool {
			nodes := []graph.Node{}
			for n := 0; n < 3; n++ {
				ports := make([]graph.Port, portCount)
				for i := range ports {
					ports[i] = graph.Port{ID: portName(i)}
				}
				nodes = append(nodes, graph.Node{ID: portName(n), Width: 10, Height: 10, Ports: ports})
			}
			g := &graph.Graph{Nodes: nodes, Edges: []graph.Edge{}}
			g.ApplyDefaults()

			seen := map[string]bool{}
			for _, c := range Request(g).Children {
				for _, p := range c.Ports {
					if seen[p.ID] {
						return false
					}
					seen[p.ID] = true
				}
			}
			return true
		},
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}

// portName maps an input index to a deterministic id like "p07" so the
// original position can be recovered from the composite id.
func portName(i int) string {
	return "p" + string(rune('0'+i/10)) + string(rune('0'+i%10))
}

func inputIndex(compositeID string) int {
	// composite form is "n.pXY"
	tail := compositeID[len(compositeID)-2:]
	return int(tail[0]-'0')*10 + int(tail[1]-'0')
}
