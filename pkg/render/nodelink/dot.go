package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mcl/pkg/netlist"
	"github.com/matzehuels/mcl/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds signal types, grid cells and component properties to
	// node labels. When false, only names are shown.
	Detailed bool
}

// ToDOT converts a netlist to Graphviz DOT format. Signal flows left to
// right: input pins, components, then output pins. Bool wiring is drawn
// dashed.
func ToDOT(mc *netlist.Microcontroller, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, r := range mc.Nodes() {
		attrs := fmtAttrs(mc, r, fmtLabel(mc, r, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(r), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range mc.Edges() {
		attrs := []string{fmt.Sprintf("taillabel=%q", strconv.Itoa(e.Source.Slot()))}
		if e.Source.Type() == netlist.Bool {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(e.Source.Source()), nodeID(e.Consumer), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(r netlist.NodeRef) string {
	if r.Kind == netlist.RefPin {
		return "p" + strconv.Itoa(r.Index)
	}
	return "c" + strconv.Itoa(r.Index)
}

func fmtLabel(mc *netlist.Microcontroller, r netlist.NodeRef, detailed bool) string {
	if r.Kind == netlist.RefPin {
		p := mc.Pins[r.Index]
		if !detailed {
			return p.Label
		}
		return fmt.Sprintf("%s\n%s %s\ncell: %s", p.Label, p.Mode, p.Type, p.Cell)
	}

	c := mc.Components[r.Index]
	if !detailed {
		return c.String()
	}
	parts := []string{c.String()}
	switch c.Kind {
	case netlist.ConstantNumber:
		parts = append(parts, fmt.Sprintf("n: %g", c.Value))
	case netlist.Clamp:
		parts = append(parts, fmt.Sprintf("min: %g", c.Min), fmt.Sprintf("max: %g", c.Max))
	case netlist.Equal:
		parts = append(parts, fmt.Sprintf("epsilon: %g", c.Epsilon))
	}
	if c.Function != "" {
		parts = append(parts, "f: "+c.Function)
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(mc *netlist.Microcontroller, r netlist.NodeRef, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if r.Kind != netlist.RefPin {
		return attrs
	}
	if mc.Pins[r.Index].Mode == netlist.Input {
		attrs = append(attrs, "shape=cds", "fillcolor=lightblue", "rank=source")
	} else {
		attrs = append(attrs, "shape=cds", "fillcolor=palegreen", "rank=sink")
	}
	if mc.Pins[r.Index].Mode == netlist.Output && mc.Pins[r.Index].Wire == nil {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
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

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion. A scale of 2.0
// produces a 2x resolution image.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
