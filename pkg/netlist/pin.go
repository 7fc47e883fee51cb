package netlist

import "fmt"

// Mode tells whether a pin feeds signals into the microcontroller or
// exposes them. Values are the save-format mode codes.
type Mode uint8

const (
	Output Mode = 0
	Input  Mode = 1
)

// String returns "input" or "output".
func (m Mode) String() string {
	if m == Input {
		return "input"
	}
	return "output"
}

// GridMax is the largest coordinate of a pin grid cell on either axis.
const GridMax = 5

// Cell is a logical pin grid cell. X is the column, Z the row, each in
// 0..GridMax.
type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Valid reports whether both axes are inside the grid.
func (c Cell) Valid() bool {
	return c.X >= 0 && c.X <= GridMax && c.Z >= 0 && c.Z <= GridMax
}

// String returns "(x, z)".
func (c Cell) String() string { return fmt.Sprintf("(%d, %d)", c.X, c.Z) }

// Point is a continuous placement coordinate assigned by layout, in grid
// units. It is used purely for presentation.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pin is an input or output terminal of a microcontroller.
//
// Output pins carry a wiring slot. It stays nil until logic analysis wires
// the pin, and the builder refuses a second wiring.
type Pin struct {
	Mode        Mode
	Name        string
	Label       string
	Description string
	Type        SignalType
	Cell        Cell

	// Wire is the source feeding an Output pin. Always nil for Input pins.
	Wire *Link

	// Placement is set by layout.
	Placement Point
}

// String returns "input a: number".
func (p Pin) String() string {
	return fmt.Sprintf("%s %s: %s", p.Mode, p.Name, p.Type)
}

// Height is the vertical size of a pin's bridge component in layout.
func (p Pin) Height() int { return 2 }
