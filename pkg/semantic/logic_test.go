package semantic

import (
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/netlist"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// Pin indices of the interface built by newLogic.
const (
	pinA = iota
	pinB
	pinFlag
	pinY
	pinZ
	pinOK
)

func newLogic(t *testing.T) (*LogicAnalyzer, *netlist.Builder, *Collector) {
	t.Helper()
	c := &Collector{}
	ia := NewInterfaceAnalyzer(c)
	ia.Element(inputs(pin("a", "float"), pin("b", "float"), pin("flag", "bool")))
	ia.Element(outputs(pin("y", "float"), pin("z", "float"), pin("ok", "bool")))
	b := netlist.NewBuilder("T")
	ctx, ok := ia.Build(b, nil)
	if !ok {
		t.Fatalf("Build() diagnostics %v", c.Diagnostics())
	}
	return NewLogicAnalyzer(b, ctx, c), b, c
}

func TestLogicErrors(t *testing.T) {
	tests := []struct {
		name  string
		stmts []syntax.Stmt
		codes []errors.Code
	}{
		{"string", []syntax.Stmt{assign(out("y"), str("x"))}, []errors.Code{errors.ErrCodeStringInLogic}},
		{"bare inputs", []syntax.Stmt{assign(out("y"), &syntax.InputsRef{})}, []errors.Code{errors.ErrCodeFieldAccessOnly}},
		{"outputs field", []syntax.Stmt{assign(out("y"), out("z"))}, []errors.Code{errors.ErrCodeOutputsInExpression}},
		{"bare outputs", []syntax.Stmt{assign(out("y"), &syntax.OutputsRef{})}, []errors.Code{errors.ErrCodeOutputsInExpression}},
		{"unknown name", []syntax.Stmt{assign(out("y"), ident("v"))}, []errors.Code{errors.ErrCodeUnknownName}},
		{"unknown input", []syntax.Stmt{assign(out("y"), in("v"))}, []errors.Code{errors.ErrCodeUnknownField}},
		{"unknown output", []syntax.Stmt{assign(out("v"), in("a"))}, []errors.Code{errors.ErrCodeUnknownField}},
		{"unknown function", []syntax.Stmt{assign(out("y"), call("sqrt", args(in("a"))))}, []errors.Code{errors.ErrCodeUnknownFunction}},
		{"missing props", []syntax.Stmt{assign(out("y"), call("clamp", args(in("a"))))}, []errors.Code{errors.ErrCodeArgumentCount}},
		{"extra args", []syntax.Stmt{assign(out("y"), call("abs", args(in("a"), in("b"))))}, []errors.Code{errors.ErrCodeArgumentCount}},
		{"assign to ident", []syntax.Stmt{assign(ident("y"), in("a"))}, []errors.Code{errors.ErrCodeInvalidAssignment}},
		{"assign to input", []syntax.Stmt{assign(in("a"), in("b"))}, []errors.Code{errors.ErrCodeInvalidAssignment}},
		{"assign to nested output", []syntax.Stmt{assign(member(out("y"), "x"), in("b"))}, []errors.Code{errors.ErrCodeInvalidAssignment}},
		{"bool literal", []syntax.Stmt{assign(out("ok"), &syntax.BoolLit{Value: true})}, []errors.Code{errors.ErrCodeUnsupportedExpression}},
		{"null", []syntax.Stmt{assign(out("y"), &syntax.NullLit{})}, []errors.Code{errors.ErrCodeUnsupportedExpression}},
		{"tuple", []syntax.Stmt{assign(out("y"), pair(1, 2))}, []errors.Code{errors.ErrCodeUnsupportedExpression}},
		{"nested field", []syntax.Stmt{assign(out("y"), member(in("a"), "x"))}, []errors.Code{errors.ErrCodeUnknownField}},
		{"pin output index", []syntax.Stmt{assign(out("y"), member(in("a"), "1"))}, []errors.Code{errors.ErrCodeNodeDoesNotExist}},
		{"bool operand", []syntax.Stmt{assign(out("y"), bin(syntax.Add, in("flag"), in("a")))}, []errors.Code{errors.ErrCodeIncompatibleNodeType}},
		{
			"both operands fail",
			[]syntax.Stmt{assign(out("y"), bin(syntax.Mul, str("s"), ident("v")))},
			[]errors.Code{errors.ErrCodeStringInLogic, errors.ErrCodeUnknownName},
		},
		{
			"target and value fail",
			[]syntax.Stmt{assign(out("v"), ident("w"))},
			[]errors.Code{errors.ErrCodeUnknownField, errors.ErrCodeUnknownName},
		},
		{"prop type", []syntax.Stmt{assign(out("y"), call("clamp", args(in("a")), str("lo"), num(1)))}, []errors.Code{errors.ErrCodeIncompatibleType}},
		{"function prop type", []syntax.Stmt{assign(out("y"), call("f1", args(in("a")), num(1)))}, []errors.Code{errors.ErrCodeIncompatibleType}},
		{"non constant prop", []syntax.Stmt{assign(out("y"), call("clamp", args(in("a")), in("b"), num(1)))}, []errors.Code{errors.ErrCodeLiteralExpected}},
		{"block without tail", []syntax.Stmt{assign(out("y"), block(nil, let("t", num(1))))}, []errors.Code{errors.ErrCodeUnsupportedExpression}},
		{
			"block scope ends",
			[]syntax.Stmt{
				assign(out("y"), block(ident("t"), let("t", in("a")))),
				assign(out("z"), ident("t")),
			},
			[]errors.Code{errors.ErrCodeUnknownName},
		},
		{
			"reassign",
			[]syntax.Stmt{assign(out("y"), in("a")), assign(out("y"), in("b"))},
			[]errors.Code{errors.ErrCodeOutputAlreadyAssigned},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			la, _, c := newLogic(t)
			la.Statements(tt.stmts)
			wantCodes(t, c.Diagnostics(), tt.codes...)
		})
	}
}

func TestLogicReassignKeepsFirst(t *testing.T) {
	la, b, c := newLogic(t)
	la.Statements([]syntax.Stmt{
		assign(out("y"), in("a")),
		assign(out("y"), in("b")),
	})
	wantCodes(t, c.Diagnostics(), errors.ErrCodeOutputAlreadyAssigned)
	w := b.Pin(pinY).Wire
	if w == nil || w.Source() != (netlist.NodeRef{Kind: netlist.RefPin, Index: pinA}) {
		t.Errorf("y wire = %v, want pin a", w)
	}
	if msg := c.Diagnostics()[0].Message; msg != "Output `y` is already assigned" {
		t.Errorf("Message = %q", msg)
	}
}

func TestLogicReassignWrongTypeReportsAssigned(t *testing.T) {
	la, b, c := newLogic(t)
	la.Statements([]syntax.Stmt{
		assign(out("y"), in("a")),
		assign(out("y"), in("flag")),
	})
	wantCodes(t, c.Diagnostics(), errors.ErrCodeOutputAlreadyAssigned)
	if w := b.Pin(pinY).Wire; w == nil || w.Type() != netlist.Number {
		t.Errorf("y wire = %v, want number link from a", w)
	}
}

func TestLogicFunctions(t *testing.T) {
	tests := []struct {
		name   string
		target string
		value  syntax.Expr
		check  func(t *testing.T, c netlist.Component)
	}{
		{"abs", "y", call("abs", args(in("a"))), kind(netlist.Abs)},
		{"delta", "y", call("delta", args(in("a"))), kind(netlist.Delta)},
		{"mod", "y", call("mod", args(in("a"), in("b"))), kind(netlist.Modulo)},
		{"fmod", "y", call("fmod", args(in("a"), in("b"))), kind(netlist.Modulo)},
		{"clamp", "y", call("clamp", args(in("a")), num(0), flt(1.5)), func(t *testing.T, c netlist.Component) {
			if c.Kind != netlist.Clamp || c.Min != 0 || c.Max != 1.5 {
				t.Errorf("component = %+v, want Clamp 0..1.5", c)
			}
		}},
		{"clamp negative bound", "y", call("clamp", args(in("a")), neg(num(2)), num(2)), func(t *testing.T, c netlist.Component) {
			if c.Min != -2 || c.Max != 2 {
				t.Errorf("bounds = %v..%v, want -2..2", c.Min, c.Max)
			}
		}},
		{"eq", "ok", call("eq", args(in("a"), in("b"))), func(t *testing.T, c netlist.Component) {
			if c.Kind != netlist.Equal || c.Epsilon != 0 {
				t.Errorf("component = %+v, want Equal with epsilon 0", c)
			}
		}},
		{"equal epsilon", "ok", call("equal", args(in("a"), in("b")), flt(0.25)), func(t *testing.T, c netlist.Component) {
			if c.Epsilon != 0.25 {
				t.Errorf("Epsilon = %v, want 0.25", c.Epsilon)
			}
		}},
		{"f1", "y", call("f1", args(in("a")), str("x*x")), fn(netlist.Function1, "x*x")},
		{"f3", "y", call("f3", args(in("a"), in("b"), in("a")), str("x+y+z")), fn(netlist.Function3, "x+y+z")},
		{"f8", "y", call("f8", args(in("a"), in("a"), in("a"), in("a"), in("b"), in("b"), in("b"), in("b")), str("x")), fn(netlist.Function8, "x")},
		{"negation", "y", neg(in("a")), fn(netlist.Function1, "-x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			la, b, c := newLogic(t)
			la.Statement(assign(out(tt.target), tt.value))
			if ds := c.Diagnostics(); len(ds) != 0 {
				t.Fatalf("diagnostics = %v", ds)
			}
			n := b.NumComponents()
			if n == 0 {
				t.Fatal("no component added")
			}
			tt.check(t, b.Component(n-1))
		})
	}
}

func kind(k netlist.Kind) func(*testing.T, netlist.Component) {
	return func(t *testing.T, c netlist.Component) {
		if c.Kind != k {
			t.Errorf("Kind = %s, want %s", c.Kind, k)
		}
	}
}

func fn(k netlist.Kind, want string) func(*testing.T, netlist.Component) {
	return func(t *testing.T, c netlist.Component) {
		if c.Kind != k || c.Function != want {
			t.Errorf("component = %s %q, want %s %q", c.Kind, c.Function, k, want)
		}
	}
}

func TestLogicConstants(t *testing.T) {
	la, b, c := newLogic(t)
	la.Statements([]syntax.Stmt{
		let("half", flt(0.5)),
		assign(out("y"), bin(syntax.Mul, in("a"), ident("half"))),
		assign(out("z"), num(3)),
	})
	if ds := c.Diagnostics(); len(ds) != 0 {
		t.Fatalf("diagnostics = %v", ds)
	}
	if b.NumComponents() != 3 {
		t.Fatalf("NumComponents() = %d, want 3", b.NumComponents())
	}
	if got := b.Component(0); got.Kind != netlist.ConstantNumber || got.Value != 0.5 {
		t.Errorf("Component(0) = %+v, want constant 0.5", got)
	}
	if got := b.Component(2); got.Kind != netlist.ConstantNumber || got.Value != 3 {
		t.Errorf("Component(2) = %+v, want constant 3", got)
	}
}

func TestLogicShadowing(t *testing.T) {
	la, b, c := newLogic(t)
	la.Statements([]syntax.Stmt{
		let("v", in("a")),
		assign(out("y"), block(ident("v"), let("v", in("b")))),
		assign(out("z"), ident("v")),
	})
	if ds := c.Diagnostics(); len(ds) != 0 {
		t.Fatalf("diagnostics = %v", ds)
	}
	if got := b.Pin(pinY).Wire.Source().Index; got != pinB {
		t.Errorf("y wired to pin %d, want inner b", got)
	}
	if got := b.Pin(pinZ).Wire.Source().Index; got != pinA {
		t.Errorf("z wired to pin %d, want outer a", got)
	}
}

// numberExpr builds a random expression from Number inputs, literals,
// arithmetic, negation, blocks and Number-valued functions.
func numberExpr(r *rand.Rand, depth int) syntax.Expr {
	if depth == 0 {
		switch r.IntN(3) {
		case 0:
			return in("a")
		case 1:
			return in("b")
		default:
			return flt(r.Float64())
		}
	}
	sub := func() syntax.Expr { return numberExpr(r, depth-1) }
	switch r.IntN(6) {
	case 0:
		return bin(syntax.BinaryOp(r.IntN(4)), sub(), sub())
	case 1:
		return neg(sub())
	case 2:
		return block(ident("t"), let("t", sub()))
	case 3:
		return call("clamp", args(sub()), num(-1), num(1))
	case 4:
		return call("f3", args(sub(), sub(), sub()), str("x*y+z"))
	default:
		return member(sub(), "0")
	}
}

func TestLogicNumberExpressions(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		la, _, c := newLogic(t)
		e := numberExpr(r, 1+i%4)
		l, ok := la.ExprToLink(e)
		if !ok || c.ErrorCount() != 0 {
			t.Fatalf("expression %d: ok = %v, diagnostics %v", i, ok, c.Diagnostics())
		}
		if l.Type() != netlist.Number {
			t.Fatalf("expression %d: type = %s, want number", i, l.Type())
		}
	}
}
