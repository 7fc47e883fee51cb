package layout

import "github.com/matzehuels/mcl/pkg/netlist"

// Options tunes the coordinate mapping.
type Options struct {
	// Pitch is the horizontal distance between columns.
	Pitch int

	// IsolatedX is the column where unwired nodes are parked.
	IsolatedX int
}

// DefaultOptions returns a pitch of 5 and an isolated column at -5.
func DefaultOptions() Options {
	return Options{Pitch: 5, IsolatedX: -5}
}

// Box is an island's bounding box in layout units, before packing.
type Box struct {
	Left, Top, Right, Bottom int
}

// Width returns Right - Left.
func (b Box) Width() int { return b.Right - b.Left }

// Height returns Bottom - Top.
func (b Box) Height() int { return b.Bottom - b.Top }

// Report summarizes a layout run.
type Report struct {
	Islands  int `json:"islands"`
	Isolated int `json:"isolated"`

	// Height is the number of rows spanned by the tallest column stack.
	Height int `json:"height"`
}

type slot struct{ x, y, h int }

// arrange stacks each column of is top-down and returns each node's
// column, row and height with the island's bounding box.
func arrange(mc *netlist.Microcontroller, is Island, pitch int) (map[Key]slot, Box) {
	slots := make(map[Key]slot, is.Len())
	var box Box
	first := true
	for x, col := range is.Columns {
		y := 0
		for _, k := range col {
			h := mc.Height(k)
			slots[k] = slot{x: x, y: y, h: h}
			if first {
				box = Box{Left: x * pitch, Top: 0, Right: x*pitch + pitch - 1, Bottom: y + h}
				first = false
			}
			box.Left = min(box.Left, x*pitch)
			box.Right = max(box.Right, x*pitch+pitch-1)
			box.Bottom = max(box.Bottom, y+h)
			y += h
		}
	}
	return slots, box
}

// Apply returns a copy of mc with every pin and component placed. Islands
// are stacked downward, each one row below the previous; unwired nodes are
// stacked downward in the isolated column. Coordinates put the origin at
// the bottom left, so y grows upward and placed nodes have negative y.
func Apply(mc *netlist.Microcontroller, opts Options) (*netlist.Microcontroller, Report) {
	if opts.Pitch <= 0 {
		opts.Pitch = DefaultOptions().Pitch
	}
	out := mc.Clone()
	g := NewGraph(mc)
	islands := Islands(g)

	placed := make(map[Key]bool, g.Len())
	yOffset, bottom := 0, 0
	for _, is := range islands {
		slots, box := arrange(mc, is, opts.Pitch)
		for _, k := range is.Keys() {
			s := slots[k]
			y := yOffset + s.y - box.Top
			out.SetPlacement(k, netlist.Point{X: s.x*opts.Pitch - box.Left, Y: -y - s.h})
			placed[k] = true
		}
		bottom = yOffset + box.Height()
		yOffset = bottom + 1
	}

	rep := Report{Islands: len(islands)}
	isolatedY := 0
	for _, k := range mc.Nodes() {
		if placed[k] {
			continue
		}
		isolatedY -= mc.Height(k)
		out.SetPlacement(k, netlist.Point{X: opts.IsolatedX, Y: isolatedY})
		rep.Isolated++
	}
	rep.Height = max(bottom, -isolatedY)
	out.Placed = true
	return out, rep
}
