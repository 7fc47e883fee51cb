package semantic

import (
	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// fieldSet assigns `name = value` field declarations to typed settings.
// Each known field has a setter that converts the constant value and
// stores it; a field may be assigned once.
type fieldSet struct {
	setters map[string]func(Value) error
	seen    map[string]bool
}

func newFieldSet(setters map[string]func(Value) error) *fieldSet {
	return &fieldSet{setters: setters, seen: make(map[string]bool)}
}

// assign evaluates one field assignment, reporting every problem to c.
func (fs *fieldSet) assign(c *Collector, a *syntax.AssignStmt) {
	id, ok := a.Target.(*syntax.Ident)
	if !ok {
		c.Errorf(a.Target.Pos(), errors.ErrCodeInvalidAssignment, "Cannot assign to this")
		return
	}
	if fs.seen[id.Name] {
		c.Errorf(a.Span, errors.ErrCodeFieldAlreadyDeclared, "This field is already declared")
		return
	}
	set, ok := fs.setters[id.Name]
	if !ok {
		c.Errorf(a.Span, errors.ErrCodeUnknownField, "Field `%s` is unknown", id.Name)
		return
	}
	v, err := Evaluate(a.Value)
	if err != nil {
		c.Report(a.Value.Pos(), err)
		return
	}
	if err := set(v); err != nil {
		c.Report(a.Value.Pos(), err)
		return
	}
	fs.seen[id.Name] = true
}

// has reports whether the field was successfully assigned.
func (fs *fieldSet) has(name string) bool { return fs.seen[name] }

// stringField stores a string value into dst.
func stringField(dst *string) func(Value) error {
	return func(v Value) error {
		s, err := v.AsString()
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}
}

// pairField stores a 2-tuple of ints in lo..hi into dst.
func pairField(dst *[2]int, lo, hi int64) func(Value) error {
	return func(v Value) error {
		a, b, err := v.IntPair(lo, hi)
		if err != nil {
			return err
		}
		*dst = [2]int{int(a), int(b)}
		return nil
	}
}

// header holds the microcontroller-level fields.
type header struct {
	name        string
	description string
	size        [2]int
	fields      *fieldSet
}

func newHeader(name string) *header {
	h := &header{name: name}
	h.fields = newFieldSet(map[string]func(Value) error{
		"name":        stringField(&h.name),
		"description": stringField(&h.description),
		"size":        pairField(&h.size, 1, 6),
	})
	return h
}

// explicitSize returns the declared grid size, if any.
func (h *header) explicitSize() (Size, bool) {
	if !h.fields.has("size") {
		return Size{}, false
	}
	return Size{Width: h.size[0], Length: h.size[1]}, true
}
