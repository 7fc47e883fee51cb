// Package export converts a placed netlist into the save-format document.
//
// Every pin and component receives a component ID from a single counter
// starting at 1: pins first in arena order, then components. Pins also get
// a node ID from a separate counter. Each pin appears twice in the
// document: as a node record (label, mode, type, grid cell) and as a bridge
// object, the component that carries its signal across the microcontroller
// boundary.
//
// Input wiring is stored per consumer in an in_map keyed by input slot
// plus one. Layout coordinates are scaled by 0.25 into the save format's
// unit.
package export
