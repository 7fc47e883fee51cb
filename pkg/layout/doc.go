// Package layout assigns display coordinates to the pins and components of
// a netlist.
//
// Placement is purely presentational: it never changes connectivity. The
// algorithm groups wired nodes into islands (connected components of the
// wiring graph), arranges each island in columns by signal flow, and stacks
// the islands vertically. Unwired nodes are parked in a column to the left.
//
// # Islands
//
// An island is discovered from an origin node by a two-stack traversal.
// Consumers (right neighbours) are one column to the right of their source
// and are explored first; sources (left neighbours) are one column to the
// left and explored once no consumer is pending. Columns are then shifted so
// the leftmost is 0.
//
// # Determinism
//
// Nodes are visited in arena order (pins, then components, each by index)
// and neighbour lists are kept sorted, so the same netlist always lays out
// the same way.
//
// # Usage
//
//	placed, report := layout.Apply(mc, layout.DefaultOptions())
//	fmt.Println(report.Islands, "islands")
package layout
