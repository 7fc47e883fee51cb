package semantic

import (
	stderrors "errors"
	"strconv"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/netlist"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// LogicAnalyzer turns logic statements into components and output wirings.
//
// Expressions evaluate to links. A sub-expression that fails reports its
// diagnostic once and yields no link; enclosing expressions then stop
// without reporting again, while sibling expressions are still analyzed.
type LogicAnalyzer struct {
	b   *netlist.Builder
	ctx *Context
	c   *Collector
}

// NewLogicAnalyzer returns an analyzer that adds components to b, resolves
// names through ctx and reports to c.
func NewLogicAnalyzer(b *netlist.Builder, ctx *Context, c *Collector) *LogicAnalyzer {
	return &LogicAnalyzer{b: b, ctx: ctx, c: c}
}

// Statements analyzes a statement list in order.
func (a *LogicAnalyzer) Statements(stmts []syntax.Stmt) {
	for _, s := range stmts {
		a.Statement(s)
	}
}

// Statement analyzes one statement.
func (a *LogicAnalyzer) Statement(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.LetStmt:
		if l, ok := a.ExprToLink(s.Value); ok {
			a.ctx.Define(s.Name, l)
		}
	case *syntax.AssignStmt:
		pin, targetOK := a.target(s.Target)
		l, ok := a.ExprToLink(s.Value)
		if targetOK && ok {
			a.wire(pin, l, s)
		}
	default:
		a.c.Errorf(s.Pos(), errors.ErrCodeUnsupportedExpression, "Unsupported statement")
	}
}

// target resolves an assignment target to an output pin index. Only
// `outputs.<name>` is assignable.
func (a *LogicAnalyzer) target(e syntax.Expr) (int, bool) {
	m, ok := e.(*syntax.Member)
	if !ok {
		a.c.Errorf(e.Pos(), errors.ErrCodeInvalidAssignment, "Cannot assign to this")
		return 0, false
	}
	if _, ok := m.Object.(*syntax.OutputsRef); !ok {
		a.c.Errorf(e.Pos(), errors.ErrCodeInvalidAssignment, "Cannot assign to this")
		return 0, false
	}
	pin, err := a.ctx.Output(m.Name)
	if err != nil {
		a.c.Report(e.Pos(), err)
		return 0, false
	}
	return pin, true
}

func (a *LogicAnalyzer) wire(pin int, l netlist.Link, s *syntax.AssignStmt) {
	err := a.b.Wire(pin, l)
	if err == nil {
		return
	}
	if _, ok := netlist.IsTypeMismatch(err); ok {
		a.c.Report(s.Value.Pos(), nodeType(err))
		return
	}
	if stderrors.Is(err, netlist.ErrAlreadyWired) {
		a.c.Errorf(s.Target.Pos(), errors.ErrCodeOutputAlreadyAssigned,
			"Output `%s` is already assigned", a.b.Pin(pin).Name)
		return
	}
	a.c.Report(s.Span, errors.Wrap(errors.ErrCodeInternal, err, "wire output"))
}

// ExprToLink evaluates e to the link carrying its signal. It returns false
// when e failed; the reason has already been reported.
func (a *LogicAnalyzer) ExprToLink(e syntax.Expr) (netlist.Link, bool) {
	l, err := a.link(e)
	if err != nil {
		a.c.Report(e.Pos(), err)
		return netlist.Link{}, false
	}
	return l, true
}

// typed evaluates e and coerces it to want, reporting a mismatch at e.
func (a *LogicAnalyzer) typed(e syntax.Expr, want netlist.SignalType) (netlist.Link, bool) {
	l, ok := a.ExprToLink(e)
	if !ok {
		return netlist.Link{}, false
	}
	l, err := netlist.Coerce(l, want)
	if err != nil {
		a.c.Report(e.Pos(), nodeType(err))
		return netlist.Link{}, false
	}
	return l, true
}

func (a *LogicAnalyzer) link(e syntax.Expr) (netlist.Link, error) {
	span := e.Pos()
	switch e := e.(type) {
	case *syntax.IntLit:
		return a.constant(float32(e.Value))
	case *syntax.FloatLit:
		return a.constant(float32(e.Value))
	case *syntax.StringLit:
		return netlist.Link{}, diag(span, errors.ErrCodeStringInLogic, "Cannot use string in logic")
	case *syntax.BoolLit:
		return netlist.Link{}, unsupported(span, "bool literal")
	case *syntax.NullLit:
		return netlist.Link{}, unsupported(span, "null")
	case *syntax.Tuple:
		return netlist.Link{}, unsupported(span, "tuple")
	case *syntax.Ident:
		return a.ctx.Resolve(e.Name)
	case *syntax.InputsRef:
		return netlist.Link{}, diag(span, errors.ErrCodeFieldAccessOnly, "Use with a field access by a dot")
	case *syntax.OutputsRef:
		return netlist.Link{}, outputsInExpression(span)
	case *syntax.Member:
		return a.member(e)
	case *syntax.Binary:
		return a.binary(e)
	case *syntax.Unary:
		return a.unary(e)
	case *syntax.Block:
		return a.block(e)
	case *syntax.Call:
		return a.call(e)
	}
	return netlist.Link{}, unsupported(span, "expression")
}

func (a *LogicAnalyzer) member(e *syntax.Member) (netlist.Link, error) {
	switch e.Object.(type) {
	case *syntax.InputsRef:
		return a.ctx.Input(e.Name)
	case *syntax.OutputsRef:
		return netlist.Link{}, outputsInExpression(e.Object.Pos())
	}

	l, ok := a.ExprToLink(e.Object)
	if !ok {
		return netlist.Link{}, errReported
	}
	n, err := strconv.Atoi(e.Name)
	if err != nil {
		return netlist.Link{}, diag(e.NameSpan, errors.ErrCodeUnknownField, "Field `%s` is unknown", e.Name)
	}
	return a.selectOutput(l, n, e.Span)
}

// selectOutput relinks l to output n of the node producing it. A pin has
// exactly one output.
func (a *LogicAnalyzer) selectOutput(l netlist.Link, n int, span syntax.Span) (netlist.Link, error) {
	src := l.Source()
	if src.Kind == netlist.RefPin {
		if n != 0 {
			return netlist.Link{}, nodeDoesNotExist(span, n, a.b.Pin(src.Index).String())
		}
		return l, nil
	}
	out, err := a.b.ComponentLink(src.Index, n)
	if err != nil {
		if stderrors.Is(err, netlist.ErrNoSuchOutput) {
			return netlist.Link{}, nodeDoesNotExist(span, n, a.b.Component(src.Index).String())
		}
		return netlist.Link{}, errors.Wrap(errors.ErrCodeInternal, err, "select output")
	}
	return out, nil
}

func (a *LogicAnalyzer) block(e *syntax.Block) (netlist.Link, error) {
	a.ctx.PushScope()
	defer a.ctx.PopScope()

	a.Statements(e.Statements)
	if e.Tail == nil {
		return netlist.Link{}, unsupported(e.Span, "block without a tail expression")
	}
	l, ok := a.ExprToLink(e.Tail)
	if !ok {
		return netlist.Link{}, errReported
	}
	return l, nil
}

func (a *LogicAnalyzer) constant(v float32) (netlist.Link, error) {
	c := netlist.NewComponent(netlist.ConstantNumber)
	c.Value = v
	return a.add(c, 0)
}

// add appends c and returns the link of its output slot.
func (a *LogicAnalyzer) add(c netlist.Component, slot int) (netlist.Link, error) {
	if _, ok := c.Kind.OutputType(slot); !ok {
		return netlist.Link{}, errors.New(errors.ErrCodeNodeDoesNotExist,
			"%d th output node does not exist in component %s", slot, c)
	}
	i, err := a.b.AddComponent(c)
	if err != nil {
		if _, ok := netlist.IsTypeMismatch(err); ok {
			return netlist.Link{}, nodeType(err)
		}
		return netlist.Link{}, errors.Wrap(errors.ErrCodeInternal, err, "add %s", c)
	}
	return a.b.ComponentLink(i, slot)
}

func nodeType(err error) error {
	tm, ok := netlist.IsTypeMismatch(err)
	if !ok {
		return err
	}
	return errors.New(errors.ErrCodeIncompatibleNodeType, "%s", tm.Error())
}

func nodeDoesNotExist(span syntax.Span, n int, component string) error {
	return diag(span, errors.ErrCodeNodeDoesNotExist, "%d th output node does not exist in component %s", n, component)
}

func outputsInExpression(span syntax.Span) error {
	return diag(span, errors.ErrCodeOutputsInExpression, "Keyword `outputs` is only valid for assignment target")
}

func unsupported(span syntax.Span, what string) error {
	return diag(span, errors.ErrCodeUnsupportedExpression, "Cannot use %s in logic", what)
}
