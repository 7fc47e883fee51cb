package netlist

import (
	"errors"
	"fmt"
)

var (
	// ErrFrozen is returned by every mutating [Builder] method after
	// [Builder.Freeze] has been called.
	ErrFrozen = errors.New("netlist is frozen")

	// ErrNoSuchPin is returned when a pin index is outside the pin arena.
	ErrNoSuchPin = errors.New("no such pin")

	// ErrNoSuchComponent is returned when a component index is outside the
	// component arena.
	ErrNoSuchComponent = errors.New("no such component")

	// ErrNoSuchOutput is returned by [Builder.ComponentLink] when the
	// requested output slot does not exist on the component.
	ErrNoSuchOutput = errors.New("output does not exist")

	// ErrNotInputPin is returned by [Builder.PinLink] for output pins, which
	// are sinks and cannot be read from.
	ErrNotInputPin = errors.New("pin is not an input")

	// ErrNotOutputPin is returned by [Builder.Wire] for input pins.
	ErrNotOutputPin = errors.New("pin is not an output")

	// ErrAlreadyWired is returned by [Builder.Wire] when the output pin has
	// already been wired. The first wiring is kept.
	ErrAlreadyWired = errors.New("output pin already wired")

	// ErrInputCount is returned by [Builder.AddComponent] when the number of
	// input slots does not match the component kind.
	ErrInputCount = errors.New("wrong number of component inputs")

	// ErrOutOfGrid is returned when a pin cell or microcontroller size falls
	// outside the grid.
	ErrOutOfGrid = errors.New("outside the grid")
)

// MaxSize is the largest microcontroller width or length.
const MaxSize = GridMax + 1

// Builder assembles a netlist in two phases. During analysis pins and
// components are appended to flat arenas and output pins are wired by index.
// [Builder.Freeze] then produces the immutable [Microcontroller] handed to
// layout and export.
//
// The zero value is not usable - use [NewBuilder].
// Builder is not safe for concurrent use.
type Builder struct {
	mc     Microcontroller
	frozen bool
}

// NewBuilder returns a builder for a microcontroller named name with a 1x1
// grid.
func NewBuilder(name string) *Builder {
	return &Builder{mc: Microcontroller{Name: name, Width: 1, Length: 1}}
}

// SetDescription sets the microcontroller description.
func (b *Builder) SetDescription(desc string) error {
	if b.frozen {
		return ErrFrozen
	}
	b.mc.Description = desc
	return nil
}

// SetSize sets the grid size. Both dimensions must be in 1..MaxSize.
func (b *Builder) SetSize(width, length int) error {
	if b.frozen {
		return ErrFrozen
	}
	if width < 1 || width > MaxSize || length < 1 || length > MaxSize {
		return fmt.Errorf("size (%d, %d): %w", width, length, ErrOutOfGrid)
	}
	b.mc.Width, b.mc.Length = width, length
	return nil
}

// AddPin appends a pin and returns its index. The pin's wiring must be
// empty and its cell inside the grid.
func (b *Builder) AddPin(p Pin) (int, error) {
	if b.frozen {
		return 0, ErrFrozen
	}
	if !p.Type.Valid() {
		return 0, fmt.Errorf("pin %s: invalid signal type %d", p.Name, uint8(p.Type))
	}
	if !p.Cell.Valid() {
		return 0, fmt.Errorf("pin %s cell %s: %w", p.Name, p.Cell, ErrOutOfGrid)
	}
	if p.Wire != nil {
		return 0, fmt.Errorf("pin %s: wiring must be set with Wire", p.Name)
	}
	if p.Label == "" {
		p.Label = p.Name
	}
	b.mc.Pins = append(b.mc.Pins, p)
	return len(b.mc.Pins) - 1, nil
}

// PinLink returns a link reading from input pin i.
func (b *Builder) PinLink(i int) (Link, error) {
	if i < 0 || i >= len(b.mc.Pins) {
		return Link{}, fmt.Errorf("pin %d: %w", i, ErrNoSuchPin)
	}
	p := b.mc.Pins[i]
	if p.Mode != Input {
		return Link{}, fmt.Errorf("pin %s: %w", p.Name, ErrNotInputPin)
	}
	return Link{ref: NodeRef{Kind: RefPin, Index: i}, typ: p.Type}, nil
}

// AddComponent appends a component and returns its index. Every wired input
// is coerced to the slot's signal type; a mismatch returns a
// [*TypeMismatch] and leaves the arena unchanged.
func (b *Builder) AddComponent(c Component) (int, error) {
	if b.frozen {
		return 0, ErrFrozen
	}
	if len(c.Inputs) != c.Kind.InputCount() {
		return 0, fmt.Errorf("%s has %d inputs, got %d: %w", c.Kind, c.Kind.InputCount(), len(c.Inputs), ErrInputCount)
	}
	for i, l := range c.Inputs {
		if l == nil {
			continue
		}
		if err := b.checkSource(*l); err != nil {
			return 0, err
		}
		want, _ := c.Kind.InputType(i)
		if _, err := Coerce(*l, want); err != nil {
			return 0, fmt.Errorf("%s input %d: %w", c.Kind, i, err)
		}
	}
	b.mc.Components = append(b.mc.Components, c)
	return len(b.mc.Components) - 1, nil
}

// ComponentLink returns a link reading output slot of component i.
func (b *Builder) ComponentLink(i, slot int) (Link, error) {
	if i < 0 || i >= len(b.mc.Components) {
		return Link{}, fmt.Errorf("component %d: %w", i, ErrNoSuchComponent)
	}
	k := b.mc.Components[i].Kind
	typ, ok := k.OutputType(slot)
	if !ok {
		return Link{}, fmt.Errorf("%d th output of %s: %w", slot, k, ErrNoSuchOutput)
	}
	return Link{ref: NodeRef{Kind: RefComponent, Index: i}, slot: slot, typ: typ}, nil
}

// Wire connects output pin i to l. The pin must not be wired yet and the
// link type must match the pin type, checked in that order.
func (b *Builder) Wire(i int, l Link) error {
	if b.frozen {
		return ErrFrozen
	}
	if i < 0 || i >= len(b.mc.Pins) {
		return fmt.Errorf("pin %d: %w", i, ErrNoSuchPin)
	}
	p := &b.mc.Pins[i]
	if p.Mode != Output {
		return fmt.Errorf("pin %s: %w", p.Name, ErrNotOutputPin)
	}
	if err := b.checkSource(l); err != nil {
		return err
	}
	if p.Wire != nil {
		return fmt.Errorf("pin %s: %w", p.Name, ErrAlreadyWired)
	}
	if _, err := Coerce(l, p.Type); err != nil {
		return err
	}
	p.Wire = &l
	return nil
}

// checkSource verifies that l points at an existing source in this builder.
func (b *Builder) checkSource(l Link) error {
	switch l.ref.Kind {
	case RefPin:
		if l.ref.Index < 0 || l.ref.Index >= len(b.mc.Pins) {
			return fmt.Errorf("link %s: %w", l, ErrNoSuchPin)
		}
	case RefComponent:
		if l.ref.Index < 0 || l.ref.Index >= len(b.mc.Components) {
			return fmt.Errorf("link %s: %w", l, ErrNoSuchComponent)
		}
	}
	return nil
}

// Pin returns a copy of pin i.
func (b *Builder) Pin(i int) Pin { return b.mc.Pins[i] }

// Component returns a copy of component i.
func (b *Builder) Component(i int) Component { return b.mc.Components[i] }

// NumPins returns the number of pins added so far.
func (b *Builder) NumPins() int { return len(b.mc.Pins) }

// NumComponents returns the number of components added so far.
func (b *Builder) NumComponents() int { return len(b.mc.Components) }

// Freeze ends the build phase and returns the finished microcontroller.
// The builder rejects further mutation.
func (b *Builder) Freeze() *Microcontroller {
	b.frozen = true
	return b.mc.Clone()
}
