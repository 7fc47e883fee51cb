package semantic

import (
	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/netlist"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// pinTypes maps pin type names to signal types.
var pinTypes = map[string]netlist.SignalType{
	"bool":      netlist.Bool,
	"float":     netlist.Number,
	"number":    netlist.Number,
	"composite": netlist.Composite,
	"video":     netlist.Video,
	"audio":     netlist.Audio,
}

// valueTypes are type names that exist for constants but cannot carry a
// signal.
var valueTypes = map[string]bool{"int": true, "string": true, "tuple": true}

// pinTypeNames lists the accepted pin type names for messages.
var pinTypeNames = []string{"bool", "float", "composite", "video", "audio"}

// pinDecl is a pin collected from the interface sections, before placement.
type pinDecl struct {
	decl        *syntax.PinDecl
	mode        netlist.Mode
	typ         netlist.SignalType
	label       string
	description string
	cell        *netlist.Cell
	cellSpan    syntax.Span
}

// InterfaceAnalyzer collects the `inputs` and `outputs` sections of one
// microcontroller, then places and registers their pins.
type InterfaceAnalyzer struct {
	c     *Collector
	seen  map[syntax.InterfaceMode]bool
	names map[netlist.Mode]map[string]bool
	pins  []*pinDecl
}

// NewInterfaceAnalyzer returns an analyzer reporting to c.
func NewInterfaceAnalyzer(c *Collector) *InterfaceAnalyzer {
	return &InterfaceAnalyzer{
		c:    c,
		seen: make(map[syntax.InterfaceMode]bool),
		names: map[netlist.Mode]map[string]bool{
			netlist.Input:  {},
			netlist.Output: {},
		},
	}
}

// Element analyzes one interface section. Each of `inputs` and `outputs`
// may appear once per microcontroller.
func (a *InterfaceAnalyzer) Element(el *syntax.InterfaceElement) {
	if a.seen[el.Mode] {
		a.c.Errorf(el.Span, errors.ErrCodeElementAlreadyDeclared, "This element is already declared")
		return
	}
	a.seen[el.Mode] = true

	mode := netlist.Input
	if el.Mode == syntax.Outputs {
		mode = netlist.Output
	}
	for _, d := range el.Pins {
		if p, ok := a.pin(mode, d); ok {
			a.pins = append(a.pins, p)
		}
	}
}

func (a *InterfaceAnalyzer) pin(mode netlist.Mode, d *syntax.PinDecl) (*pinDecl, bool) {
	ok := true
	if a.names[mode][d.Name] {
		a.c.Errorf(d.Span, errors.ErrCodeElementAlreadyDeclared, "This element is already declared")
		ok = false
	}
	a.names[mode][d.Name] = true

	typ, err := pinType(d)
	if err != nil {
		a.c.Report(d.TypeSpan, err)
		ok = false
	}

	p := &pinDecl{decl: d, mode: mode, typ: typ, label: d.Name}
	var pos [2]int
	fields := newFieldSet(map[string]func(Value) error{
		"name":        stringField(&p.label),
		"description": stringField(&p.description),
		"position": func(v Value) error {
			if err := pairField(&pos, 0, netlist.GridMax)(v); err != nil {
				return err
			}
			p.cell = &netlist.Cell{X: pos[0], Z: pos[1]}
			p.cellSpan = v.Span
			return nil
		},
	})
	before := a.c.ErrorCount()
	for _, f := range d.Fields {
		fields.assign(a.c, f)
	}
	return p, ok && a.c.ErrorCount() == before
}

func pinType(d *syntax.PinDecl) (netlist.SignalType, error) {
	if t, ok := pinTypes[d.TypeName]; ok {
		return t, nil
	}
	if valueTypes[d.TypeName] {
		return 0, incompatibleType(d.TypeSpan, d.TypeName, pinTypeNames...)
	}
	return 0, diag(d.TypeSpan, errors.ErrCodeUnknownType, "Type name `%s` is unknown", d.TypeName)
}

// Build places the collected pins, adds them to b in declaration order and
// returns the name context for logic analysis. declared is the size field
// of the microcontroller, or nil to size the grid automatically.
// Build reports placement problems to the collector and returns false when
// any of them is an error.
func (a *InterfaceAnalyzer) Build(b *netlist.Builder, declared *Size) (*Context, bool) {
	requests := make([]*netlist.Cell, len(a.pins))
	for i, p := range a.pins {
		requests[i] = p.cell
	}
	placed := Place(requests, declared)
	for _, i := range placed.Collisions {
		p := a.pins[i]
		a.c.Warnf(p.cellSpan, errors.ErrCodePositionCollision,
			"Position %s is already taken by another pin", *p.cell)
	}
	for _, i := range placed.Overflow {
		a.c.Errorf(a.pins[i].decl.Span, errors.ErrCodeOutOfBounds,
			"No free cell left in the %dx%d grid", placed.Size.Width, placed.Size.Length)
	}
	if len(placed.Overflow) > 0 {
		return nil, false
	}
	if err := b.SetSize(placed.Size.Width, placed.Size.Length); err != nil {
		a.c.Report(syntax.Span{}, errors.Wrap(errors.ErrCodeInternal, err, "set grid size"))
		return nil, false
	}

	ctx := NewContext()
	for i, p := range a.pins {
		idx, err := b.AddPin(netlist.Pin{
			Mode:        p.mode,
			Name:        p.decl.Name,
			Label:       p.label,
			Description: p.description,
			Type:        p.typ,
			Cell:        placed.Cells[i],
		})
		if err != nil {
			a.c.Report(p.decl.Span, errors.Wrap(errors.ErrCodeInternal, err, "add pin"))
			return nil, false
		}
		if p.mode == netlist.Output {
			ctx.DeclareOutput(p.decl.Name, idx)
			continue
		}
		l, err := b.PinLink(idx)
		if err != nil {
			a.c.Report(p.decl.Span, errors.Wrap(errors.ErrCodeInternal, err, "link pin"))
			return nil, false
		}
		ctx.DeclareInput(p.decl.Name, l)
	}
	return ctx, true
}
