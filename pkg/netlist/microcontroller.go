package netlist

import "strconv"

// Microcontroller is a finished netlist: the pin and component arenas plus
// the header fields of the save format. Links index into the arenas, so a
// Microcontroller can be copied without aliasing by [Microcontroller.Clone].
type Microcontroller struct {
	Name        string
	Description string
	Width       int
	Length      int
	Pins        []Pin
	Components  []Component

	// Placed is set once layout has assigned every Placement.
	Placed bool
}

// Clone returns a deep copy of m.
func (m *Microcontroller) Clone() *Microcontroller {
	out := *m
	out.Pins = make([]Pin, len(m.Pins))
	for i, p := range m.Pins {
		if p.Wire != nil {
			w := *p.Wire
			p.Wire = &w
		}
		out.Pins[i] = p
	}
	out.Components = make([]Component, len(m.Components))
	for i, c := range m.Components {
		inputs := make([]*Link, len(c.Inputs))
		for j, l := range c.Inputs {
			if l != nil {
				v := *l
				inputs[j] = &v
			}
		}
		c.Inputs = inputs
		out.Components[i] = c
	}
	return &out
}

// Edge is one wired connection: Source feeds input Slot of Consumer. For an
// output pin consumer, Slot is 0.
type Edge struct {
	Source   Link
	Consumer NodeRef
	Slot     int
}

// Edges returns every wired connection in arena order: output pin wirings
// first by pin index, then component inputs by component index and slot.
func (m *Microcontroller) Edges() []Edge {
	var edges []Edge
	for i, p := range m.Pins {
		if p.Mode == Output && p.Wire != nil {
			edges = append(edges, Edge{Source: *p.Wire, Consumer: NodeRef{Kind: RefPin, Index: i}})
		}
	}
	for i, c := range m.Components {
		for slot, l := range c.Inputs {
			if l != nil {
				edges = append(edges, Edge{Source: *l, Consumer: NodeRef{Kind: RefComponent, Index: i}, Slot: slot})
			}
		}
	}
	return edges
}

// Nodes returns references to every pin and component in arena order.
func (m *Microcontroller) Nodes() []NodeRef {
	refs := make([]NodeRef, 0, len(m.Pins)+len(m.Components))
	for i := range m.Pins {
		refs = append(refs, NodeRef{Kind: RefPin, Index: i})
	}
	for i := range m.Components {
		refs = append(refs, NodeRef{Kind: RefComponent, Index: i})
	}
	return refs
}

// Height returns the layout height of the referenced pin or component.
func (m *Microcontroller) Height(r NodeRef) int {
	if r.Kind == RefPin {
		return m.Pins[r.Index].Height()
	}
	return m.Components[r.Index].Kind.Height()
}

// Placement returns the layout coordinate of the referenced node.
func (m *Microcontroller) Placement(r NodeRef) Point {
	if r.Kind == RefPin {
		return m.Pins[r.Index].Placement
	}
	return m.Components[r.Index].Placement
}

// SetPlacement sets the layout coordinate of the referenced node. It is
// used by layout on a clone and never on a netlist shared with other code.
func (m *Microcontroller) SetPlacement(r NodeRef, p Point) {
	if r.Kind == RefPin {
		m.Pins[r.Index].Placement = p
		return
	}
	m.Components[r.Index].Placement = p
}

// Label returns a human-readable name for the referenced node: the pin name,
// or the component display name suffixed with its index.
func (m *Microcontroller) Label(r NodeRef) string {
	if r.Kind == RefPin {
		return m.Pins[r.Index].Name
	}
	return m.Components[r.Index].String() + " #" + strconv.Itoa(r.Index)
}

// PinByName returns the index of the pin with the given mode and name.
func (m *Microcontroller) PinByName(mode Mode, name string) (int, bool) {
	for i, p := range m.Pins {
		if p.Mode == mode && p.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Stats summarizes a netlist for logging.
type Stats struct {
	Inputs     int
	Outputs    int
	Wired      int
	Components int
	Edges      int
}

// Stats returns pin, component and edge counts.
func (m *Microcontroller) Stats() Stats {
	var s Stats
	for _, p := range m.Pins {
		if p.Mode == Input {
			s.Inputs++
			continue
		}
		s.Outputs++
		if p.Wire != nil {
			s.Wired++
		}
	}
	s.Components = len(m.Components)
	s.Edges = len(m.Edges())
	return s
}
