package semantic

import (
	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/netlist"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// Result is the outcome of analyzing one microcontroller declaration.
type Result struct {
	// Name is the declared microcontroller name.
	Name string

	// Netlist is the frozen netlist, or nil when Diagnostics has errors.
	Netlist *netlist.Microcontroller

	Diagnostics Diagnostics
}

// Analyze analyzes every microcontroller of f in source order. A name
// declared twice reports ElementAlreadyDeclared on the later declaration.
func Analyze(f *syntax.File) []Result {
	results := make([]Result, 0, len(f.Microcontrollers))
	seen := make(map[string]bool)
	for _, m := range f.Microcontrollers {
		if seen[m.Name] {
			var c Collector
			c.Errorf(m.Span, errors.ErrCodeElementAlreadyDeclared, "This element is already declared")
			results = append(results, Result{Name: m.Name, Diagnostics: c.Diagnostics()})
			continue
		}
		seen[m.Name] = true
		results = append(results, AnalyzeMicrocontroller(m))
	}
	return results
}

// AnalyzeMicrocontroller runs field, interface and logic analysis on m.
// Field errors stop analysis before the interface stage and interface
// errors stop it before logic, since later stages depend on what earlier
// ones declare. Logic errors accumulate across all statements.
func AnalyzeMicrocontroller(m *syntax.Microcontroller) Result {
	var c Collector
	res := Result{Name: m.Name}
	done := func() Result {
		res.Diagnostics = c.Diagnostics()
		return res
	}

	h := newHeader(m.Name)
	for _, el := range m.Elements {
		if f, ok := el.(*syntax.FieldElement); ok {
			h.fields.assign(&c, f.Assign)
		}
	}
	if c.ErrorCount() > 0 {
		return done()
	}

	b := netlist.NewBuilder(h.name)
	if err := b.SetDescription(h.description); err != nil {
		c.Report(m.Span, errors.Wrap(errors.ErrCodeInternal, err, "set description"))
		return done()
	}

	ia := NewInterfaceAnalyzer(&c)
	for _, el := range m.Elements {
		if in, ok := el.(*syntax.InterfaceElement); ok {
			ia.Element(in)
		}
	}
	if c.ErrorCount() > 0 {
		return done()
	}
	var declared *Size
	if s, ok := h.explicitSize(); ok {
		declared = &s
	}
	ctx, ok := ia.Build(b, declared)
	if !ok || c.ErrorCount() > 0 {
		return done()
	}

	la := NewLogicAnalyzer(b, ctx, &c)
	for _, el := range m.Elements {
		if l, ok := el.(*syntax.LogicElement); ok {
			la.Statements(l.Statements)
		}
	}
	if c.ErrorCount() > 0 {
		return done()
	}

	res.Netlist = b.Freeze()
	return done()
}
