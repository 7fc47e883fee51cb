package export

import (
	"errors"
	"fmt"

	"github.com/matzehuels/mcl/pkg/netlist"
)

// ErrNotPlaced is returned by [Build] when the netlist has not been laid
// out.
var ErrNotPlaced = errors.New("netlist has no layout")

// PositionScale converts layout units to save-format units.
const PositionScale = 0.25

// Document is the save-format representation of one microcontroller.
type Document struct {
	Name          string   `json:"name,omitempty"`
	Description   string   `json:"description,omitempty"`
	Width         int      `json:"width"`
	Length        int      `json:"length"`
	IDCounter     int      `json:"id_counter"`
	IDCounterNode int      `json:"id_counter_node"`
	Pins          []Pin    `json:"pins"`
	Bridge        []Object `json:"bridge"`
	Components    []Object `json:"components"`
}

// Pin is a node record.
type Pin struct {
	ID          int          `json:"id"`
	ComponentID int          `json:"component_id"`
	Label       string       `json:"label,omitempty"`
	Mode        int          `json:"mode"`
	Type        int          `json:"type"`
	Description string       `json:"description,omitempty"`
	Position    netlist.Cell `json:"position"`
}

// Position is a scaled layout coordinate.
type Position struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Input references the source of one input slot.
type Input struct {
	ComponentID int `json:"component_id"`
	NodeIndex   int `json:"node_index,omitempty"`
}

// Object is a component or bridge object.
type Object struct {
	ID     int                `json:"id"`
	Type   int                `json:"type"`
	Pos    Position           `json:"pos"`
	InMap  map[int]Input      `json:"in_map,omitempty"`
	Values map[string]float32 `json:"values,omitempty"`
	Attrs  map[string]string  `json:"attrs,omitempty"`
}

// BridgeCode returns the bridge component type for a pin of the given mode
// and signal type: even codes are inputs, odd codes outputs, in signal
// order Bool, Number, Composite, Video, Audio.
func BridgeCode(mode netlist.Mode, t netlist.SignalType) int {
	var base int
	switch t {
	case netlist.Bool:
		base = 0
	case netlist.Number:
		base = 2
	case netlist.Composite:
		base = 4
	case netlist.Video:
		base = 6
	case netlist.Audio:
		base = 8
	default:
		panic(fmt.Sprintf("export: unknown signal type %d", uint8(t)))
	}
	if mode == netlist.Output {
		base++
	}
	return base
}

func scale(p netlist.Point) Position {
	return Position{X: PositionScale * float32(p.X), Y: PositionScale * float32(p.Y)}
}

// Build converts a placed netlist into a document.
func Build(mc *netlist.Microcontroller) (*Document, error) {
	if !mc.Placed {
		return nil, ErrNotPlaced
	}
	doc := &Document{
		Name:        mc.Name,
		Description: mc.Description,
		Width:       mc.Width,
		Length:      mc.Length,
		Pins:        make([]Pin, 0, len(mc.Pins)),
		Bridge:      make([]Object, 0, len(mc.Pins)),
		Components:  make([]Object, 0, len(mc.Components)),
	}

	ids := make(map[netlist.NodeRef]int, len(mc.Pins)+len(mc.Components))
	next := func(r netlist.NodeRef) int {
		doc.IDCounter++
		ids[r] = doc.IDCounter
		return doc.IDCounter
	}
	for i, p := range mc.Pins {
		id := next(netlist.NodeRef{Kind: netlist.RefPin, Index: i})
		doc.IDCounterNode++
		doc.Pins = append(doc.Pins, Pin{
			ID:          doc.IDCounterNode,
			ComponentID: id,
			Label:       p.Label,
			Mode:        int(p.Mode),
			Type:        int(p.Type),
			Description: p.Description,
			Position:    p.Cell,
		})
	}
	for i := range mc.Components {
		next(netlist.NodeRef{Kind: netlist.RefComponent, Index: i})
	}

	input := func(l netlist.Link) (Input, error) {
		id, ok := ids[l.Source()]
		if !ok {
			return Input{}, fmt.Errorf("link %s: unknown source", l)
		}
		return Input{ComponentID: id, NodeIndex: l.Slot()}, nil
	}

	for i, p := range mc.Pins {
		obj := Object{
			ID:   ids[netlist.NodeRef{Kind: netlist.RefPin, Index: i}],
			Type: BridgeCode(p.Mode, p.Type),
			Pos:  scale(p.Placement),
		}
		if p.Mode == netlist.Output && p.Wire != nil {
			in, err := input(*p.Wire)
			if err != nil {
				return nil, fmt.Errorf("pin %s: %w", p.Name, err)
			}
			obj.InMap = map[int]Input{1: in}
		}
		doc.Bridge = append(doc.Bridge, obj)
	}

	for i, c := range mc.Components {
		obj := Object{
			ID:     ids[netlist.NodeRef{Kind: netlist.RefComponent, Index: i}],
			Type:   c.Kind.TypeCode(),
			Pos:    scale(c.Placement),
			Values: values(c),
		}
		if c.Function != "" {
			obj.Attrs = map[string]string{"e": c.Function}
		}
		for slot, l := range c.Inputs {
			if l == nil {
				continue
			}
			in, err := input(*l)
			if err != nil {
				return nil, fmt.Errorf("%s #%d input %d: %w", c, i, slot, err)
			}
			if obj.InMap == nil {
				obj.InMap = make(map[int]Input)
			}
			obj.InMap[slot+1] = in
		}
		doc.Components = append(doc.Components, obj)
	}
	return doc, nil
}

// values returns the numeric properties of c under their save-format tags.
func values(c netlist.Component) map[string]float32 {
	switch c.Kind {
	case netlist.Clamp:
		return map[string]float32{"min": c.Min, "max": c.Max}
	case netlist.ConstantNumber:
		return map[string]float32{"n": c.Value}
	case netlist.Equal:
		return map[string]float32{"e": c.Epsilon}
	}
	return nil
}
