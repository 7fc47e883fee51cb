// Package semantic checks a syntax tree and lowers it to a netlist.
//
// Analysis of one microcontroller runs in three stages:
//
//  1. Fields: name, description and size of the microcontroller.
//  2. Interface: the inputs and outputs sections. Pin types are resolved,
//     pin fields evaluated, and every pin placed on the grid, either at its
//     declared position or at the next free cell.
//  3. Logic: let bindings and output assignments. Expressions lower to
//     components appended to a [netlist.Builder]; output pins are wired to
//     the links those expressions produce.
//
// Problems are collected as [Diagnostic] values with source spans rather
// than returned as the first error, so one run reports everything that can
// be checked independently. A netlist is only produced when no error was
// reported; warnings such as position collisions do not block it.
//
// # Usage
//
//	f, err := syntax.ReadFile("adder.json")
//	if err != nil {
//	    return err
//	}
//	for _, r := range semantic.Analyze(f) {
//	    if r.Diagnostics.HasErrors() {
//	        // report r.Diagnostics
//	        continue
//	    }
//	    // lay out and export r.Netlist
//	}
package semantic
