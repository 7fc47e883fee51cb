package semantic

import (
	"testing"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/netlist"
	"github.com/matzehuels/mcl/pkg/syntax"
)

func TestAnalyzeAdder(t *testing.T) {
	r := AnalyzeMicrocontroller(mcu("Adder",
		field("description", str("adds two numbers")),
		inputs(pin("a", "float"), pin("b", "float")),
		outputs(pin("sum", "float")),
		logic(assign(out("sum"), bin(syntax.Add, in("a"), in("b")))),
	))
	if len(r.Diagnostics) != 0 {
		t.Fatalf("Diagnostics = %v, want none", r.Diagnostics)
	}
	mc := r.Netlist
	if mc == nil {
		t.Fatal("Netlist = nil")
	}
	if mc.Description != "adds two numbers" {
		t.Errorf("Description = %q", mc.Description)
	}
	if len(mc.Components) != 1 || mc.Components[0].Kind != netlist.Add {
		t.Fatalf("Components = %+v, want one Add", mc.Components)
	}
	add := mc.Components[0]
	for slot, want := range []int{0, 1} {
		l := add.Inputs[slot]
		if l == nil || l.Source() != (netlist.NodeRef{Kind: netlist.RefPin, Index: want}) {
			t.Errorf("Add input %d = %v, want pin#%d", slot, l, want)
		}
	}
	sum := mc.Pins[2]
	if sum.Wire == nil {
		t.Fatal("sum is not wired")
	}
	if got, want := sum.Wire.Source(), (netlist.NodeRef{Kind: netlist.RefComponent, Index: 0}); got != want || sum.Wire.Slot() != 0 {
		t.Errorf("sum wire = %v, want %v output 0", sum.Wire, want)
	}
	if mc.Width != 1 || mc.Length != 3 {
		t.Errorf("size = %dx%d, want 1x3", mc.Width, mc.Length)
	}
}

func TestAnalyzeTypeMismatch(t *testing.T) {
	value := call("abs", args(in("x")))
	value.Span = sp(30, 42)
	r := AnalyzeMicrocontroller(mcu("M",
		inputs(pin("x", "float")),
		outputs(pin("y", "bool")),
		logic(assign(out("y"), value)),
	))
	if r.Netlist != nil {
		t.Error("Netlist != nil, want nil on error")
	}
	wantCodes(t, r.Diagnostics, errors.ErrCodeIncompatibleNodeType)
	d := r.Diagnostics[0]
	if d.Message != "Type `bool` expected, `number` found" {
		t.Errorf("Message = %q", d.Message)
	}
	if d.Span != sp(30, 42) {
		t.Errorf("Span = %v, want value span", d.Span)
	}
}

func TestAnalyzeNineInputs(t *testing.T) {
	var pins []*syntax.PinDecl
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		pins = append(pins, pin(name, "float"))
	}
	r := AnalyzeMicrocontroller(mcu("Grid", inputs(pins...)))
	if r.Netlist == nil {
		t.Fatalf("Diagnostics = %v", r.Diagnostics)
	}
	if r.Netlist.Width != 3 || r.Netlist.Length != 3 {
		t.Errorf("size = %dx%d, want 3x3", r.Netlist.Width, r.Netlist.Length)
	}
	seen := make(map[netlist.Cell]bool)
	for _, p := range r.Netlist.Pins {
		if seen[p.Cell] {
			t.Errorf("cell %s used twice", p.Cell)
		}
		seen[p.Cell] = true
	}
	if got := r.Netlist.Pins[4].Cell; got != (netlist.Cell{X: 1, Z: 1}) {
		t.Errorf("Pins[4].Cell = %s, want (1, 1)", got)
	}
}

func divider(flagIndex string) *syntax.Microcontroller {
	return mcu("SafeDivide",
		inputs(pin("d", "float"), pin("e", "float")),
		outputs(pin("q", "float"), pin("flag", "bool")),
		logic(
			let("quot", bin(syntax.Div, in("d"), in("e"))),
			assign(out("q"), ident("quot")),
			assign(out("flag"), member(ident("quot"), flagIndex)),
		),
	)
}

func TestAnalyzeOutputSelection(t *testing.T) {
	r := AnalyzeMicrocontroller(divider("1"))
	if r.Netlist == nil {
		t.Fatalf("Diagnostics = %v", r.Diagnostics)
	}
	mc := r.Netlist
	if len(mc.Components) != 1 || mc.Components[0].Kind != netlist.Divide {
		t.Fatalf("Components = %+v, want one Divide", mc.Components)
	}
	q, flag := mc.Pins[2], mc.Pins[3]
	if q.Wire == nil || q.Wire.Slot() != 0 || q.Wire.Type() != netlist.Number {
		t.Errorf("q wire = %v, want Divide output 0", q.Wire)
	}
	if flag.Wire == nil || flag.Wire.Slot() != 1 || flag.Wire.Type() != netlist.Bool {
		t.Errorf("flag wire = %v, want Divide output 1", flag.Wire)
	}

	r = AnalyzeMicrocontroller(divider("2"))
	if r.Netlist != nil {
		t.Error("Netlist != nil, want nil")
	}
	wantCodes(t, r.Diagnostics, errors.ErrCodeNodeDoesNotExist)
	if got, want := r.Diagnostics[0].Message, "2 th output node does not exist in component Divide"; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
}

func TestAnalyzeStages(t *testing.T) {
	tests := []struct {
		name  string
		mc    *syntax.Microcontroller
		codes []errors.Code
	}{
		{
			name: "field errors stop interface analysis",
			mc: mcu("M",
				field("colour", str("red")),
				inputs(pin("a", "nope")),
			),
			codes: []errors.Code{errors.ErrCodeUnknownField},
		},
		{
			name: "interface errors stop logic analysis",
			mc: mcu("M",
				inputs(pin("a", "int")),
				logic(assign(out("missing"), str("x"))),
			),
			codes: []errors.Code{errors.ErrCodeIncompatibleType},
		},
		{
			name: "field errors accumulate",
			mc: mcu("M",
				field("size", pair(7, 1)),
				field("description", num(3)),
				&syntax.FieldElement{Assign: assign(in("a"), num(1))},
			),
			codes: []errors.Code{errors.ErrCodeOutOfBounds, errors.ErrCodeIncompatibleType, errors.ErrCodeInvalidAssignment},
		},
		{
			name: "field declared twice",
			mc: mcu("M",
				field("description", str("a")),
				field("description", str("b")),
			),
			codes: []errors.Code{errors.ErrCodeFieldAlreadyDeclared},
		},
		{
			name: "non literal field",
			mc: mcu("M",
				field("description", ident("x")),
			),
			codes: []errors.Code{errors.ErrCodeLiteralExpected},
		},
		{
			name: "logic errors accumulate",
			mc: mcu("M",
				inputs(pin("a", "float")),
				outputs(pin("y", "float")),
				logic(
					assign(out("y"), str("x")),
					let("v", ident("nope")),
					assign(ident("a"), in("a")),
				),
			),
			codes: []errors.Code{errors.ErrCodeStringInLogic, errors.ErrCodeUnknownName, errors.ErrCodeInvalidAssignment},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := AnalyzeMicrocontroller(tt.mc)
			if r.Netlist != nil {
				t.Error("Netlist != nil, want nil")
			}
			wantCodes(t, r.Diagnostics, tt.codes...)
		})
	}
}

func TestAnalyzeHeaderFields(t *testing.T) {
	r := AnalyzeMicrocontroller(mcu("M",
		field("name", str("Display Name")),
		field("size", pair(4, 2)),
		inputs(pin("a", "float")),
	))
	if r.Netlist == nil {
		t.Fatalf("Diagnostics = %v", r.Diagnostics)
	}
	if r.Netlist.Name != "Display Name" {
		t.Errorf("Name = %q, want %q", r.Netlist.Name, "Display Name")
	}
	if r.Netlist.Width != 4 || r.Netlist.Length != 2 {
		t.Errorf("size = %dx%d, want 4x2", r.Netlist.Width, r.Netlist.Length)
	}
	if r.Name != "M" {
		t.Errorf("Result.Name = %q, want declaration name", r.Name)
	}
}

func TestAnalyzeDuplicateMicrocontroller(t *testing.T) {
	f := &syntax.File{Microcontrollers: []*syntax.Microcontroller{
		mcu("M", inputs(pin("a", "float"))),
		mcu("M"),
		mcu("N"),
	}}
	rs := Analyze(f)
	if len(rs) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(rs))
	}
	if rs[0].Netlist == nil || rs[2].Netlist == nil {
		t.Error("distinct microcontrollers should compile")
	}
	wantCodes(t, rs[1].Diagnostics, errors.ErrCodeElementAlreadyDeclared)
}

func TestAnalyzeWarningsDoNotBlock(t *testing.T) {
	r := AnalyzeMicrocontroller(mcu("M",
		inputs(
			pin("a", "float", assign(ident("position"), pair(1, 1))),
			pin("b", "float", assign(ident("position"), pair(1, 1))),
		),
	))
	if r.Netlist == nil {
		t.Fatalf("Netlist = nil, diagnostics %v", r.Diagnostics)
	}
	wantCodes(t, r.Diagnostics, errors.ErrCodePositionCollision)
	if r.Diagnostics[0].Severity != SeverityWarning {
		t.Errorf("Severity = %v, want warning", r.Diagnostics[0].Severity)
	}
	if r.Diagnostics.HasErrors() {
		t.Error("HasErrors() = true, want false")
	}
}
