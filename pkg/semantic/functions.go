package semantic

import (
	"fmt"
	"strings"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/netlist"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// function describes a callable primitive: the component it builds, its
// argument count and its positional properties.
type function struct {
	kind     netlist.Kind
	args     int
	props    []string
	optional int // trailing props that may be omitted
	apply    func(c *netlist.Component, props []Value) error
}

var functions = map[string]function{
	"abs":   {kind: netlist.Abs, args: 1},
	"delta": {kind: netlist.Delta, args: 1},
	"clamp": {kind: netlist.Clamp, args: 1, props: []string{"min", "max"}, apply: func(c *netlist.Component, p []Value) error {
		lo, err := p[0].AsNumber()
		if err != nil {
			return err
		}
		hi, err := p[1].AsNumber()
		if err != nil {
			return err
		}
		c.Min, c.Max = float32(lo), float32(hi)
		return nil
	}},
	"mod":   {kind: netlist.Modulo, args: 2},
	"fmod":  {kind: netlist.Modulo, args: 2},
	"eq":    {kind: netlist.Equal, args: 2, props: []string{"epsilon"}, optional: 1, apply: applyEpsilon},
	"equal": {kind: netlist.Equal, args: 2, props: []string{"epsilon"}, optional: 1, apply: applyEpsilon},
	"f1":    {kind: netlist.Function1, args: 1, props: []string{"function"}, apply: applyFunction},
	"f3":    {kind: netlist.Function3, args: 3, props: []string{"function"}, apply: applyFunction},
	"f8":    {kind: netlist.Function8, args: 8, props: []string{"function"}, apply: applyFunction},
}

func applyEpsilon(c *netlist.Component, p []Value) error {
	if len(p) == 0 {
		return nil
	}
	e, err := p[0].AsNumber()
	if err != nil {
		return err
	}
	c.Epsilon = float32(e)
	return nil
}

func applyFunction(c *netlist.Component, p []Value) error {
	s, err := p[0].AsString()
	if err != nil {
		return err
	}
	c.Function = s
	return nil
}

// shape renders the expected call shape, e.g.
// "1 argument and properties {min, max}".
func (f function) shape() string {
	s := plural(f.args, "argument", "arguments")
	if len(f.props) > 0 {
		s += " and properties {" + strings.Join(f.props, ", ") + "}"
		if f.optional > 0 {
			s += fmt.Sprintf(" (last %d optional)", f.optional)
		}
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// call lowers a function call to its component. Every argument is analyzed
// even after one fails, then properties are folded to constants.
func (a *LogicAnalyzer) call(e *syntax.Call) (netlist.Link, error) {
	f, ok := functions[e.Name]
	if !ok {
		return netlist.Link{}, diag(e.NameSpan, errors.ErrCodeUnknownFunction, "Function `%s` is unknown", e.Name)
	}
	if len(e.Args) != f.args || len(e.Props) > len(f.props) || len(e.Props) < len(f.props)-f.optional {
		return netlist.Link{}, diag(e.Span, errors.ErrCodeArgumentCount, "`%s` expects %s, found %s and %s",
			e.Name, f.shape(), plural(len(e.Args), "argument", "arguments"), plural(len(e.Props), "property", "properties"))
	}

	links := make([]*netlist.Link, len(e.Args))
	failed := false
	for i, arg := range e.Args {
		l, ok := a.typed(arg, netlist.Number)
		if !ok {
			failed = true
			continue
		}
		links[i] = &l
	}

	props := make([]Value, 0, len(e.Props))
	for _, p := range e.Props {
		v, err := Evaluate(p)
		if err != nil {
			a.c.Report(p.Pos(), err)
			failed = true
			continue
		}
		props = append(props, v)
	}
	if failed {
		return netlist.Link{}, errReported
	}

	c := netlist.NewComponent(f.kind, links...)
	if f.apply != nil {
		if err := f.apply(&c, props); err != nil {
			return netlist.Link{}, err
		}
	}
	return a.add(c, 0)
}
