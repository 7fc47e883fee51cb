// Package pkg provides the libraries behind mcl, a compiler that turns the
// syntax tree of a microcontroller description into a placed netlist.
//
// # Overview
//
// Compilation runs in four stages, each in its own package:
//
//	JSON syntax tree
//	       ↓
//	  [syntax] decode the tree into typed nodes with source spans
//	       ↓
//	  [semantic] interface and logic analysis, producing diagnostics
//	       ↓        and an unplaced [netlist]
//	  [layout] place every pin and component on the grid
//	       ↓
//	  [export] save-format document (JSON)
//
// [pipeline] runs the stages for whole files with caching, and [render]
// draws placed netlists as Graphviz diagrams.
//
// # Quick Start
//
//	f, _ := syntax.ReadFile("adder.json")
//	for _, res := range semantic.Analyze(f) {
//	    if res.Diagnostics.HasErrors() {
//	        continue
//	    }
//	    placed, report := layout.Apply(res.Netlist, layout.DefaultOptions())
//	    doc, _ := export.Build(placed)
//	    _ = export.WriteJSON(doc, os.Stdout)
//	    fmt.Println(report.Islands, "islands")
//	}
//
// # Main Packages
//
// [netlist] - Arena of pins and components with typed links. Links are
// indices, so a netlist is cheap to copy and compare.
//
// [semantic] - Scopes, the interface analyzer (pins, sizes, placements) and
// the logic analyzer (statements and expressions lowered to components).
//
// [layout] - Island detection and grid placement of inputs, components and
// outputs.
//
// [export] - The document format written by the compiler.
//
// ## Infrastructure
//
// [pipeline] - Analyze, place, export and render, used by the CLI and the
// HTTP service alike.
//
// [cache] - File, Redis and null cache backends with content-hash keys.
//
// [config] - mcl.toml project configuration.
//
// [errors] - Coded errors shared by diagnostics, the CLI and the service.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [buildinfo] - Version information injected at build time.
package pkg
