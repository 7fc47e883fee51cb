package netlist

import (
	"errors"
	"fmt"
)

// RefKind tells whether a reference points into the pin arena or the
// component arena.
type RefKind uint8

const (
	RefPin RefKind = iota
	RefComponent
)

// NodeRef identifies a pin or component by arena index.
type NodeRef struct {
	Kind  RefKind
	Index int
}

// String returns "pin#i" or "component#i".
func (r NodeRef) String() string {
	if r.Kind == RefPin {
		return fmt.Sprintf("pin#%d", r.Index)
	}
	return fmt.Sprintf("component#%d", r.Index)
}

// Less orders references in arena order: all pins before all components,
// each by index.
func (r NodeRef) Less(o NodeRef) bool {
	if r.Kind != o.Kind {
		return r.Kind < o.Kind
	}
	return r.Index < o.Index
}

// Link is a typed reference to a signal source: an input pin, or one output
// slot of a component. Links are values; they never own their target.
//
// The zero Link is not usable. Links are only obtained from
// [Builder.PinLink] and [Builder.ComponentLink], which infer the signal type
// from the source, so a Link's type always matches what it points at.
type Link struct {
	ref  NodeRef
	slot int
	typ  SignalType
}

// Source returns the pin or component the link reads from.
func (l Link) Source() NodeRef { return l.ref }

// Slot returns the output slot on the source. It is always 0 for pins.
func (l Link) Slot() int { return l.slot }

// Type returns the signal type carried by the link.
func (l Link) Type() SignalType { return l.typ }

// String returns a compact description such as "component#2.1:bool".
func (l Link) String() string {
	if l.ref.Kind == RefPin {
		return fmt.Sprintf("%s:%s", l.ref, l.typ)
	}
	return fmt.Sprintf("%s.%d:%s", l.ref, l.slot, l.typ)
}

// TypeMismatch is returned by [Coerce] when a link carries a different signal
// type than the slot it is being connected to.
type TypeMismatch struct {
	Expected SignalType
	Found    SignalType
}

// Error implements the error interface.
func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("Type `%s` expected, `%s` found", e.Expected, e.Found)
}

// Coerce checks that l carries signal type want. Every typed input slot in
// the netlist is filled through this check.
func Coerce(l Link, want SignalType) (Link, error) {
	if l.typ != want {
		return Link{}, &TypeMismatch{Expected: want, Found: l.typ}
	}
	return l, nil
}

// IsTypeMismatch reports whether err is a [*TypeMismatch] and returns it.
func IsTypeMismatch(err error) (*TypeMismatch, bool) {
	var tm *TypeMismatch
	if errors.As(err, &tm) {
		return tm, true
	}
	return nil, false
}
