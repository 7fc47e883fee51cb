package semantic

import "github.com/matzehuels/mcl/pkg/netlist"

// Size is a pin grid size: Width columns by Length rows.
type Size struct {
	Width  int `json:"width"`
	Length int `json:"length"`
}

// MaxCells is the number of cells in the largest grid.
const MaxCells = netlist.MaxSize * netlist.MaxSize

// AutoSize picks the grid for n pins. It scans widths ascending and, for
// each width w, takes the fewest rows h that fit n with w <= h <= 6,
// keeping the first grid with the least wasted cells. n is clamped to
// 1..36.
func AutoSize(n int) Size {
	n = max(1, min(n, MaxCells))
	var best Size
	waste := -1
	for w := 1; w <= netlist.MaxSize; w++ {
		h := (n + w - 1) / w
		if h < w || h > netlist.MaxSize {
			continue
		}
		if wst := w*h - n; waste < 0 || wst < waste {
			best, waste = Size{Width: w, Length: h}, wst
		}
	}
	return best
}

// Placement is the outcome of assigning grid cells to pins.
type Placement struct {
	Size  Size
	Cells []netlist.Cell

	// Collisions lists requests whose declared cell was already declared
	// by an earlier request. Both keep the cell.
	Collisions []int

	// Overflow lists requests that found no free cell in the grid. Their
	// cell is left at the origin.
	Overflow []int
}

// Place assigns a cell to every request. A non-nil request is a declared
// cell and always wins. The others take the first free cell in row-major
// order. When declared is nil the grid is sized by [AutoSize] and then
// widened to cover every declared cell.
func Place(requests []*netlist.Cell, declared *Size) Placement {
	reserved := make(map[netlist.Cell]bool)
	var p Placement
	floating := 0
	for i, r := range requests {
		if r == nil {
			floating++
			continue
		}
		if reserved[*r] {
			p.Collisions = append(p.Collisions, i)
			continue
		}
		reserved[*r] = true
	}

	if declared != nil {
		p.Size = *declared
	} else {
		p.Size = AutoSize(floating + len(reserved))
		for c := range reserved {
			p.Size.Width = max(p.Size.Width, c.X+1)
			p.Size.Length = max(p.Size.Length, c.Z+1)
		}
	}

	cells := p.Size.Width * p.Size.Length
	p.Cells = make([]netlist.Cell, len(requests))
	next := 0
	for i, r := range requests {
		if r != nil {
			p.Cells[i] = *r
			continue
		}
		for next < cells && reserved[rowMajor(next, p.Size.Width)] {
			next++
		}
		if next >= cells {
			p.Overflow = append(p.Overflow, i)
			continue
		}
		c := rowMajor(next, p.Size.Width)
		reserved[c] = true
		p.Cells[i] = c
		next++
	}
	return p
}

func rowMajor(i, width int) netlist.Cell {
	return netlist.Cell{X: i % width, Z: i / width}
}
