// Package render turns compiled netlists into pictures.
//
// # Overview
//
// The [nodelink] subpackage draws a netlist as a Graphviz diagram: pins and
// components are boxes, wiring is arrows from source to consumer. The SVG it
// produces can be converted here to PDF or PNG:
//
//	dot := nodelink.ToDOT(mc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [ToPDF] and [ToPNG] use the external rsvg-convert tool (from librsvg).
//
// [nodelink]: github.com/matzehuels/mcl/pkg/render/nodelink
package render
