package semantic

import (
	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/netlist"
)

// Context resolves names during logic analysis. The root frame maps pin
// names to input links and output pin indices and is fixed once interface
// analysis is done. Variable frames stack on top of it, one per block.
type Context struct {
	inputs  map[string]netlist.Link
	outputs map[string]int
	frames  []map[string]netlist.Link
}

// NewContext returns a context with an empty root frame.
func NewContext() *Context {
	return &Context{
		inputs:  make(map[string]netlist.Link),
		outputs: make(map[string]int),
	}
}

// DeclareInput binds an input pin name in the root frame.
func (c *Context) DeclareInput(name string, l netlist.Link) { c.inputs[name] = l }

// DeclareOutput binds an output pin name to its pin index in the root frame.
func (c *Context) DeclareOutput(name string, pin int) { c.outputs[name] = pin }

// Define binds a variable in the innermost frame, opening one if none is
// open. A later Define of the same name in the same frame shadows it.
func (c *Context) Define(name string, l netlist.Link) {
	if len(c.frames) == 0 {
		c.PushScope()
	}
	c.frames[len(c.frames)-1][name] = l
}

// Resolve looks name up innermost-first through the variable frames.
func (c *Context) Resolve(name string) (netlist.Link, error) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if l, ok := c.frames[i][name]; ok {
			return l, nil
		}
	}
	return netlist.Link{}, errors.New(errors.ErrCodeUnknownName, "Name `%s` is not defined", name)
}

// Input returns the link of the named input pin.
func (c *Context) Input(name string) (netlist.Link, error) {
	l, ok := c.inputs[name]
	if !ok {
		return netlist.Link{}, unknownField(name)
	}
	return l, nil
}

// Output returns the pin index of the named output pin.
func (c *Context) Output(name string) (int, error) {
	i, ok := c.outputs[name]
	if !ok {
		return 0, unknownField(name)
	}
	return i, nil
}

// PushScope opens a variable frame.
func (c *Context) PushScope() {
	c.frames = append(c.frames, make(map[string]netlist.Link))
}

// PopScope closes the innermost variable frame. Calls must nest with
// PushScope; popping with no open frame panics.
func (c *Context) PopScope() {
	if len(c.frames) == 0 {
		panic("semantic: PopScope without matching PushScope")
	}
	c.frames = c.frames[:len(c.frames)-1]
}

// Depth returns the number of open variable frames.
func (c *Context) Depth() int { return len(c.frames) }

func unknownField(name string) error {
	return errors.New(errors.ErrCodeUnknownField, "Field `%s` is unknown", name)
}
