package syntax

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mcl/pkg/errors"
)

func TestReadFileAdder(t *testing.T) {
	f, err := ReadFile(filepath.Join("..", "..", "examples", "adder.json"))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(f.Microcontrollers) != 1 {
		t.Fatalf("len(Microcontrollers) = %d, want 1", len(f.Microcontrollers))
	}
	mc := f.Microcontrollers[0]
	if mc.Name != "Adder" {
		t.Errorf("Name = %q, want %q", mc.Name, "Adder")
	}
	if len(mc.Elements) != 4 {
		t.Fatalf("len(Elements) = %d, want 4", len(mc.Elements))
	}

	field, ok := mc.Elements[0].(*FieldElement)
	if !ok {
		t.Fatalf("Elements[0] = %T, want *FieldElement", mc.Elements[0])
	}
	if id, ok := field.Assign.Target.(*Ident); !ok || id.Name != "description" {
		t.Errorf("field target = %#v, want ident description", field.Assign.Target)
	}

	in, ok := mc.Elements[1].(*InterfaceElement)
	if !ok || in.Mode != Inputs {
		t.Fatalf("Elements[1] = %#v, want inputs section", mc.Elements[1])
	}
	if len(in.Pins) != 2 || in.Pins[1].Name != "b" || in.Pins[1].TypeName != "float" {
		t.Errorf("input pins = %+v", in.Pins)
	}
	if got, want := in.Pins[0].TypeSpan, (Span{Start: 70, End: 75}); got != want {
		t.Errorf("TypeSpan = %v, want %v", got, want)
	}

	logic, ok := mc.Elements[3].(*LogicElement)
	if !ok || len(logic.Statements) != 1 {
		t.Fatalf("Elements[3] = %#v, want logic with 1 statement", mc.Elements[3])
	}
	assign := logic.Statements[0].(*AssignStmt)
	bin, ok := assign.Value.(*Binary)
	if !ok || bin.Op != Add {
		t.Fatalf("value = %#v, want binary +", assign.Value)
	}
	left, ok := bin.Left.(*Member)
	if !ok || left.Name != "a" {
		t.Errorf("left = %#v, want member a", bin.Left)
	}
	if _, ok := left.Object.(*InputsRef); !ok {
		t.Errorf("left.Object = %T, want *InputsRef", left.Object)
	}
}

func TestParseJSONLiterals(t *testing.T) {
	doc := `{"microcontrollers": [{"kind": "microcontroller", "span": [0, 10], "name": "M", "elements": [
	  {"kind": "logic", "span": [0, 10], "statements": [
	    {"kind": "let", "span": [0, 1], "name": "x", "value": {"kind": "int", "span": [0, 1], "value": -7}},
	    {"kind": "let", "span": [0, 1], "name": "y", "value": {"kind": "float", "span": [0, 1], "value": 2.5}},
	    {"kind": "let", "span": [0, 1], "name": "z", "value": {"kind": "bool", "span": [0, 1], "value": true}},
	    {"kind": "let", "span": [0, 1], "name": "s", "value": {"kind": "string", "span": [0, 1], "value": "hi"}},
	    {"kind": "let", "span": [0, 1], "name": "c", "value": {"kind": "call", "span": [0, 1], "name": "clamp",
	      "args": [{"kind": "ident", "span": [0, 1], "name": "x"}],
	      "props": [{"kind": "int", "span": [0, 1], "value": 0}, {"kind": "int", "span": [0, 1], "value": 1}]}},
	    {"kind": "let", "span": [0, 1], "name": "b", "value": {"kind": "block", "span": [0, 1], "statements": [],
	      "tail": {"kind": "unary", "span": [0, 1], "op": "-", "operand": {"kind": "ident", "span": [0, 1], "name": "y"}}}}
	  ]}
	]}]}`

	f, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	stmts := f.Microcontrollers[0].Elements[0].(*LogicElement).Statements
	value := func(i int) Expr { return stmts[i].(*LetStmt).Value }

	if v := value(0).(*IntLit).Value; v != -7 {
		t.Errorf("int = %d, want -7", v)
	}
	if v := value(1).(*FloatLit).Value; v != 2.5 {
		t.Errorf("float = %v, want 2.5", v)
	}
	if v := value(2).(*BoolLit).Value; !v {
		t.Errorf("bool = %v, want true", v)
	}
	if v := value(3).(*StringLit).Value; v != "hi" {
		t.Errorf("string = %q, want %q", v, "hi")
	}
	call := value(4).(*Call)
	if call.Name != "clamp" || len(call.Args) != 1 || len(call.Props) != 2 {
		t.Errorf("call = %+v, want clamp with 1 arg and 2 props", call)
	}
	block := value(5).(*Block)
	if u, ok := block.Tail.(*Unary); !ok || u.Op != Neg {
		t.Errorf("block tail = %#v, want unary negation", block.Tail)
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "not json",
			doc:  `{`,
			want: "decode syntax tree",
		},
		{
			name: "unknown root kind",
			doc:  `{"kind": "logic"}`,
			want: "root",
		},
		{
			name: "unknown element kind",
			doc:  `{"microcontrollers": [{"kind": "microcontroller", "span": [0, 1], "name": "M", "elements": [{"kind": "wires", "span": [0, 1]}]}]}`,
			want: "microcontrollers[0].elements[0]",
		},
		{
			name: "bad identifier",
			doc:  `{"microcontrollers": [{"kind": "microcontroller", "span": [0, 1], "name": "1bad"}]}`,
			want: "microcontrollers[0]",
		},
		{
			name: "inverted span",
			doc:  `{"span": [5, 1]}`,
			want: "invalid span",
		},
		{
			name: "unknown operator",
			doc: `{"microcontrollers": [{"kind": "microcontroller", "span": [0, 1], "name": "M", "elements": [
			  {"kind": "logic", "span": [0, 1], "statements": [{"kind": "let", "span": [0, 1], "name": "x",
			    "value": {"kind": "binary", "span": [0, 1], "op": "%",
			      "left": {"kind": "int", "span": [0, 1], "value": 1}, "right": {"kind": "int", "span": [0, 1], "value": 2}}}]}]}]}`,
			want: "unknown binary operator",
		},
		{
			name: "missing value",
			doc: `{"microcontrollers": [{"kind": "microcontroller", "span": [0, 1], "name": "M", "elements": [
			  {"kind": "logic", "span": [0, 1], "statements": [{"kind": "let", "span": [0, 1], "name": "x"}]}]}]}`,
			want: "missing node",
		},
		{
			name: "unknown field",
			doc:  `{"microcontrollers": [], "extra": 1}`,
			want: "decode syntax tree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.doc))
			if err == nil {
				t.Fatal("ParseJSON() error = nil, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestMemberOutputIndex(t *testing.T) {
	doc := `{"microcontrollers": [{"kind": "microcontroller", "span": [0, 1], "name": "M", "elements": [
	  {"kind": "logic", "span": [0, 1], "statements": [{"kind": "let", "span": [0, 1], "name": "x",
	    "value": {"kind": "member", "span": [0, 1], "name": "1", "object": {"kind": "ident", "span": [0, 1], "name": "q"}}}]}]}]}`
	f, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	m := f.Microcontrollers[0].Elements[0].(*LogicElement).Statements[0].(*LetStmt).Value.(*Member)
	if m.Name != "1" {
		t.Errorf("Member.Name = %q, want %q", m.Name, "1")
	}
}
