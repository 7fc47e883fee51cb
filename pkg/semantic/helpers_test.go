package semantic

import (
	"testing"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// Tree constructors for tests. Spans are left zero unless a test needs to
// check where a diagnostic points.

func sp(start, end int) syntax.Span { return syntax.Span{Start: start, End: end} }

func ident(name string) *syntax.Ident { return &syntax.Ident{Name: name} }

func num(v int64) *syntax.IntLit { return &syntax.IntLit{Value: v} }

func flt(v float64) *syntax.FloatLit { return &syntax.FloatLit{Value: v} }

func str(v string) *syntax.StringLit { return &syntax.StringLit{Value: v} }

func tuple(items ...syntax.Expr) *syntax.Tuple { return &syntax.Tuple{Items: items} }

func pair(a, b int64) *syntax.Tuple { return tuple(num(a), num(b)) }

func in(name string) *syntax.Member {
	return &syntax.Member{Object: &syntax.InputsRef{}, Name: name}
}

func out(name string) *syntax.Member {
	return &syntax.Member{Object: &syntax.OutputsRef{}, Name: name}
}

func member(obj syntax.Expr, name string) *syntax.Member {
	return &syntax.Member{Object: obj, Name: name}
}

func bin(op syntax.BinaryOp, l, r syntax.Expr) *syntax.Binary {
	return &syntax.Binary{Op: op, Left: l, Right: r}
}

func neg(x syntax.Expr) *syntax.Unary { return &syntax.Unary{Op: syntax.Neg, Operand: x} }

func call(name string, args []syntax.Expr, props ...syntax.Expr) *syntax.Call {
	return &syntax.Call{Name: name, Args: args, Props: props}
}

func args(es ...syntax.Expr) []syntax.Expr { return es }

func block(tail syntax.Expr, stmts ...syntax.Stmt) *syntax.Block {
	return &syntax.Block{Statements: stmts, Tail: tail}
}

func assign(target, value syntax.Expr) *syntax.AssignStmt {
	return &syntax.AssignStmt{Target: target, Value: value}
}

func let(name string, value syntax.Expr) *syntax.LetStmt {
	return &syntax.LetStmt{Name: name, Value: value}
}

func pin(name, typ string, fields ...*syntax.AssignStmt) *syntax.PinDecl {
	return &syntax.PinDecl{Name: name, TypeName: typ, Fields: fields}
}

func inputs(pins ...*syntax.PinDecl) *syntax.InterfaceElement {
	return &syntax.InterfaceElement{Mode: syntax.Inputs, Pins: pins}
}

func outputs(pins ...*syntax.PinDecl) *syntax.InterfaceElement {
	return &syntax.InterfaceElement{Mode: syntax.Outputs, Pins: pins}
}

func logic(stmts ...syntax.Stmt) *syntax.LogicElement {
	return &syntax.LogicElement{Statements: stmts}
}

func field(name string, value syntax.Expr) *syntax.FieldElement {
	return &syntax.FieldElement{Assign: assign(ident(name), value)}
}

func mcu(name string, elements ...syntax.Element) *syntax.Microcontroller {
	return &syntax.Microcontroller{Name: name, Elements: elements}
}

// wantCodes fails unless the error codes of ds are exactly codes, in order.
func wantCodes(t *testing.T, ds Diagnostics, codes ...errors.Code) {
	t.Helper()
	if len(ds) != len(codes) {
		t.Fatalf("diagnostics = %v, want codes %v", ds, codes)
	}
	for i, d := range ds {
		if d.Code != codes[i] {
			t.Errorf("diagnostic[%d] code = %s, want %s (%s)", i, d.Code, codes[i], d.Message)
		}
	}
}
