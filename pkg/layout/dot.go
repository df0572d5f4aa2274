package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ascent/pkg/core/rules"
)

// DOTOptions configures room graph export.
type DOTOptions struct {
	// Detailed adds room size and centre to node labels.
	Detailed bool
	// Scale converts grid cells to Graphviz points. Default 1.
	Scale float64
}

var categoryColors = map[rules.Category]string{
	rules.Spawn:       "#8fd694",
	rules.Boss:        "#e4572e",
	rules.Treasure:    "#f3c969",
	rules.Normal:      "#ffffff",
	rules.AscentPoint: "#7e9fd4",
}

// ToDOT converts a layout's room graph to Graphviz DOT. Node positions are
// pinned to the room centres, so the graph is meant for the neato engine.
// Extra links are dashed and unrouted links are red.
func ToDOT(l *Layout, opts DOTOptions) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.1,0.05\"];\n")
	buf.WriteString("\n")

	for _, r := range l.Rooms {
		label := fmt.Sprintf("%d %s", r.ID, r.Category)
		if opts.Detailed {
			label += fmt.Sprintf("\n%dx%d @ %s", r.Length, r.Width, r.Center)
		}
		fill, ok := categoryColors[r.Category]
		if !ok {
			fill = "lightgrey"
		}
		fmt.Fprintf(&buf, "  r%d [label=%q, fillcolor=%q, pos=\"%g,%g!\"];\n",
			r.ID, label, fill, float64(r.Center.X)*scale, float64(r.Center.Y)*scale)
	}

	buf.WriteString("\n")
	for _, k := range l.Links {
		var attrs []string
		if !k.Tree {
			attrs = append(attrs, "style=dashed")
		}
		if !k.Routed {
			attrs = append(attrs, "color=red")
		}
		fmt.Fprintf(&buf, "  r%d -- r%d", k.From, k.To)
		if len(attrs) > 0 {
			buf.WriteString(" [")
			for i, a := range attrs {
				if i > 0 {
					buf.WriteString(", ")
				}
				buf.WriteString(a)
			}
			buf.WriteString("]")
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

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
