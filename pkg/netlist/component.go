package netlist

import "fmt"

// Kind enumerates the primitive component variants. The set is closed:
// every per-kind property below is an exhaustive switch, and adding a kind
// means extending each of them.
type Kind uint8

const (
	Add Kind = iota
	Subtract
	Multiply
	Divide
	Function3
	Clamp
	Abs
	ConstantNumber
	Delta
	Function8
	Modulo
	Equal
	Function1
)

// Kinds lists every component kind in declaration order.
var Kinds = []Kind{
	Add, Subtract, Multiply, Divide, Function3, Clamp, Abs,
	ConstantNumber, Delta, Function8, Modulo, Equal, Function1,
}

// String returns the display name of the kind.
func (k Kind) String() string {
	switch k {
	case Add:
		return "Add"
	case Subtract:
		return "Subtract"
	case Multiply:
		return "Multiply"
	case Divide:
		return "Divide"
	case Function3:
		return "f(x, y, z)"
	case Clamp:
		return "Clamp"
	case Abs:
		return "Abs"
	case ConstantNumber:
		return "Constant Number"
	case Delta:
		return "Delta"
	case Function8:
		return "f(x, y, z, w, a, b, c, d)"
	case Modulo:
		return "Modulo (fmod)"
	case Equal:
		return "Equal"
	case Function1:
		return "f(x)"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// TypeCode returns the component type code written to the save format.
func (k Kind) TypeCode() int {
	switch k {
	case Add:
		return 6
	case Subtract:
		return 7
	case Multiply:
		return 8
	case Divide:
		return 9
	case Function3:
		return 10
	case Clamp:
		return 11
	case Abs:
		return 14
	case ConstantNumber:
		return 15
	case Delta:
		return 35
	case Function8:
		return 36
	case Modulo:
		return 38
	case Equal:
		return 42
	case Function1:
		return 45
	}
	panic(unknownKind(k))
}

// Height returns the number of grid units the component occupies vertically.
func (k Kind) Height() int {
	switch k {
	case Clamp, Abs, ConstantNumber, Delta, Function1:
		return 2
	case Add, Subtract, Multiply, Divide, Modulo, Equal:
		return 3
	case Function3:
		return 4
	case Function8:
		return 9
	}
	panic(unknownKind(k))
}

// InputNames returns the labels of the component's input slots. The
// length is the number of inputs.
func (k Kind) InputNames() []string {
	switch k {
	case Add, Subtract, Multiply, Divide, Modulo, Equal:
		return []string{"A", "B"}
	case Function3:
		return []string{"X", "Y", "Z"}
	case Function8:
		return []string{"X", "Y", "Z", "W", "A", "B", "C", "D"}
	case Clamp, Abs, Delta:
		return []string{"Input Number"}
	case Function1:
		return []string{"X"}
	case ConstantNumber:
		return nil
	}
	panic(unknownKind(k))
}

// InputCount returns the number of input slots.
func (k Kind) InputCount() int { return len(k.InputNames()) }

// InputType returns the signal type of input slot i. All current kinds take
// Number inputs only.
func (k Kind) InputType(i int) (SignalType, bool) {
	if i < 0 || i >= k.InputCount() {
		return 0, false
	}
	return Number, true
}

// OutputSlot describes one output slot of a component.
type OutputSlot struct {
	Name string
	Type SignalType
}

// Outputs returns the output slots of the kind.
func (k Kind) Outputs() []OutputSlot {
	switch k {
	case Add:
		return []OutputSlot{{"A + B", Number}}
	case Subtract:
		return []OutputSlot{{"A - B", Number}}
	case Multiply:
		return []OutputSlot{{"A x B", Number}}
	case Divide:
		return []OutputSlot{{"A / B", Number}, {"Divide by Zero", Bool}}
	case Function3:
		return []OutputSlot{{"F(X, Y, Z)", Number}}
	case Clamp:
		return []OutputSlot{{"Clamped Input", Number}}
	case Abs:
		return []OutputSlot{{"Absolute Value", Number}}
	case ConstantNumber:
		return []OutputSlot{{"Output Number", Number}}
	case Delta:
		return []OutputSlot{{"Delta", Number}}
	case Function8:
		return []OutputSlot{{"F(X, Y, Z, W, A, B, C, D)", Number}}
	case Modulo:
		return []OutputSlot{{"A mod B", Number}}
	case Equal:
		return []OutputSlot{{"A == B", Bool}}
	case Function1:
		return []OutputSlot{{"F(X)", Number}}
	}
	panic(unknownKind(k))
}

// OutputType returns the signal type of output slot i, or false when the
// slot does not exist.
func (k Kind) OutputType(i int) (SignalType, bool) {
	outs := k.Outputs()
	if i < 0 || i >= len(outs) {
		return 0, false
	}
	return outs[i].Type, true
}

func unknownKind(k Kind) string {
	return fmt.Sprintf("netlist: unknown component kind %d", uint8(k))
}

// Component is one instantiated primitive. Inputs has exactly
// Kind.InputCount() entries; a nil entry is an unwired input, which the
// target propagates as "no value".
//
// Which property fields are meaningful depends on Kind:
//   - ConstantNumber: Value
//   - Clamp: Min, Max
//   - Equal: Epsilon
//   - Function1, Function3, Function8: Function
type Component struct {
	Kind   Kind
	Inputs []*Link

	Value    float32
	Min, Max float32
	Epsilon  float32
	Function string

	// Placement is set by layout.
	Placement Point
}

// String returns the display name of the component.
func (c Component) String() string { return c.Kind.String() }

// NewComponent returns a component of kind k with its inputs wired to links
// in slot order. A nil link leaves the slot unwired. Missing trailing links
// are treated as nil and links beyond the input count are ignored.
func NewComponent(k Kind, links ...*Link) Component {
	inputs := make([]*Link, k.InputCount())
	for i := range inputs {
		if i < len(links) && links[i] != nil {
			l := *links[i]
			inputs[i] = &l
		}
	}
	return Component{Kind: k, Inputs: inputs}
}
