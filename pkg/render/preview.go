// Package render produces SVG previews of computed layouts.
//
// The preview is a debugging aid: it draws the nodes and edge routes exactly
// where the layout engine placed them, using Graphviz purely as an SVG
// backend with every position pinned. It is not part of the layout pipeline
// and never feeds coordinates back into it.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/layoutd/layoutd/pkg/graph"
)

// pointsPerInch converts layout units (points) to Graphviz inches.
const pointsPerInch = 72.0

// ToDOT converts a computed layout to Graphviz DOT with pinned positions.
// The resulting DOT string renders with the neato engine, which honors the
// pins instead of computing its own placement.
//
// Layout coordinates grow downward; DOT coordinates grow upward, so y values
// are flipped around the bounding box height.
func ToDOT(l *graph.Layout) string {
	maxY := 0.0
	for _, n := range l.Nodes {
		if bottom := n.Y + n.Height; bottom > maxY {
			maxY = bottom
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		// Pin the node center; the "!" suffix marks the position as fixed.
		cx := n.X + n.Width/2
		cy := maxY - (n.Y + n.Height/2)
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.2f,%.2f!\", width=%.3f, height=%.3f];\n",
			n.ID, n.ID, cx, cy, n.Width/pointsPerInch, n.Height/pointsPerInch)
	}

	buf.WriteString("\n")
	for _, e := range edgeEndpoints(l) {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

// edgeEndpoints recovers node-to-node connections from routed sections by
// matching section endpoints against node bounds.
func edgeEndpoints(l *graph.Layout) [][2]string {
	var out [][2]string
	for _, e := range l.Edges {
		if len(e.Sections) == 0 {
			continue
		}
		src := nodeAt(l, e.Sections[0].Start)
		tgt := nodeAt(l, e.Sections[len(e.Sections)-1].End)
		if src != "" && tgt != "" && src != tgt {
			out = append(out, [2]string{src, tgt})
		}
	}
	return out
}

// nodeAt returns the id of the node whose boundary contains p, or "".
// A small tolerance absorbs rounding in the engine's routing.
func nodeAt(l *graph.Layout, p graph.Point) string {
	const eps = 1.0
	for _, n := range l.Nodes {
		if p.X >= n.X-eps && p.X <= n.X+n.Width+eps &&
			p.Y >= n.Y-eps && p.Y <= n.Y+n.Height+eps {
			return n.ID
		}
	}
	return ""
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Preview renders a computed layout straight to SVG.
func Preview(ctx context.Context, l *graph.Layout) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(l))
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
