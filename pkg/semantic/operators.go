package semantic

import (
	"github.com/matzehuels/mcl/pkg/netlist"
	"github.com/matzehuels/mcl/pkg/syntax"
)

var binaryKinds = map[syntax.BinaryOp]netlist.Kind{
	syntax.Add: netlist.Add,
	syntax.Sub: netlist.Subtract,
	syntax.Mul: netlist.Multiply,
	syntax.Div: netlist.Divide,
}

// binary lowers an arithmetic operator to its two-input component. Both
// operands are analyzed even when the first one fails.
func (a *LogicAnalyzer) binary(e *syntax.Binary) (netlist.Link, error) {
	k, ok := binaryKinds[e.Op]
	if !ok {
		return netlist.Link{}, unsupported(e.Span, "operator "+e.Op.String())
	}
	lhs, okL := a.typed(e.Left, netlist.Number)
	rhs, okR := a.typed(e.Right, netlist.Number)
	if !okL || !okR {
		return netlist.Link{}, errReported
	}
	return a.add(netlist.NewComponent(k, &lhs, &rhs), 0)
}

// unary lowers negation to a one-argument function component.
func (a *LogicAnalyzer) unary(e *syntax.Unary) (netlist.Link, error) {
	if e.Op != syntax.Neg {
		return netlist.Link{}, unsupported(e.Span, "operator "+e.Op.String())
	}
	x, ok := a.typed(e.Operand, netlist.Number)
	if !ok {
		return netlist.Link{}, errReported
	}
	c := netlist.NewComponent(netlist.Function1, &x)
	c.Function = "-x"
	return a.add(c, 0)
}
