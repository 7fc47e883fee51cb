// Package nodelink renders netlists as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz. Pins
// and components appear as boxes, and every wired input is an arrow from
// its source, labelled with the source's output slot. Input pins are drawn
// light blue, output pins green, and unwired outputs dashed.
//
// # Usage
//
// Convert a netlist to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(mc, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: When true, labels include signal types, grid cells and
//     component properties.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
