// Package netlist is the typed circuit model produced by semantic analysis.
//
// # Overview
//
// A netlist is two flat arenas owned by a [Microcontroller]: pins and
// components. A [Link] references a signal source by arena index (an input
// pin, or one output slot of a component) together with the signal type it
// carries. Links never own what they point at, so the graph cannot form
// ownership cycles and a netlist copies cleanly.
//
// # Typing
//
// Links are only created by [Builder.PinLink] and [Builder.ComponentLink],
// which take the type from the source. [Coerce] is the single type gate:
// every component input and every output pin wiring passes through it and
// fails with [*TypeMismatch] on a mismatch.
//
// # Components
//
// [Kind] is a closed set of primitives (Add, Divide, Clamp, f(x), ...).
// Per-kind facts (save-format type code, layout height, input slots, output
// slots and their signal types) are exhaustive switches on Kind:
//
//	netlist.Divide.Outputs() // [{"A / B" number} {"Divide by Zero" bool}]
//	netlist.Equal.Height()   // 3
//
// # Two-phase construction
//
// A [Builder] accepts pins and components, hands out links, and wires each
// output pin at most once ([ErrAlreadyWired] on a second attempt).
// [Builder.Freeze] ends the build phase and returns the finished
// Microcontroller; layout assigns [Point] placements on a clone of it.
package netlist
