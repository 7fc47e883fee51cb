package netlist

import "fmt"

// SignalType is the category of value carried by a pin or component output.
// The numeric values are the wire codes used by the save format.
type SignalType uint8

const (
	Bool      SignalType = 0
	Number    SignalType = 1
	Composite SignalType = 5
	Video     SignalType = 6
	Audio     SignalType = 7
)

// String returns the lowercase type name used in diagnostics.
func (t SignalType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Number:
		return "number"
	case Composite:
		return "composite"
	case Video:
		return "video"
	case Audio:
		return "audio"
	default:
		return fmt.Sprintf("SignalType(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the defined signal types.
func (t SignalType) Valid() bool {
	switch t {
	case Bool, Number, Composite, Video, Audio:
		return true
	}
	return false
}
