package layout

import "slices"

// Island is one connected group of wired nodes arranged in columns.
// Columns[0] is the leftmost column; nodes within a column are in arena
// order.
type Island struct {
	Columns [][]Key
}

// Len returns the number of nodes in the island.
func (is Island) Len() int {
	n := 0
	for _, col := range is.Columns {
		n += len(col)
	}
	return n
}

// Keys returns every node of the island, column by column.
func (is Island) Keys() []Key {
	return slices.Concat(is.Columns...)
}

type entry struct {
	depth int
	key   Key
}

// dualStack pops from primary until it is empty, then from secondary.
type dualStack struct {
	primary   []entry
	secondary []entry
}

func (s *dualStack) pushPrimary(e entry)   { s.primary = append(s.primary, e) }
func (s *dualStack) pushSecondary(e entry) { s.secondary = append(s.secondary, e) }

func (s *dualStack) pop() (entry, bool) {
	if n := len(s.primary); n > 0 {
		e := s.primary[n-1]
		s.primary = s.primary[:n-1]
		return e, true
	}
	if n := len(s.secondary); n > 0 {
		e := s.secondary[n-1]
		s.secondary = s.secondary[:n-1]
		return e, true
	}
	return entry{}, false
}

// Islands partitions the graph into islands. Origins are taken in arena
// order, so the first island contains the lowest-numbered wired node.
func Islands(g *Graph) []Island {
	visited := make(map[Key]bool, g.Len())
	var islands []Island
	for _, k := range g.Keys() {
		if visited[k] {
			continue
		}
		depth := discover(g, k)
		for m := range depth {
			visited[m] = true
		}
		islands = append(islands, columns(depth))
	}
	return islands
}

// discover walks the island containing origin and returns the depth of
// each node relative to it.
func discover(g *Graph, origin Key) map[Key]int {
	depth := map[Key]int{origin: 0}
	var s dualStack
	push := func(d int, k Key) {
		for _, r := range g.Right(k) {
			if _, ok := depth[r]; !ok {
				s.pushPrimary(entry{d + 1, r})
			}
		}
		for _, l := range g.Left(k) {
			if _, ok := depth[l]; !ok {
				s.pushSecondary(entry{d - 1, l})
			}
		}
	}
	push(0, origin)
	for {
		e, ok := s.pop()
		if !ok {
			break
		}
		if _, seen := depth[e.key]; seen {
			continue
		}
		depth[e.key] = e.depth
		push(e.depth, e.key)
	}
	return depth
}

// columns groups nodes by depth, shifted so the minimum depth is column 0.
func columns(depth map[Key]int) Island {
	keys := make([]Key, 0, len(depth))
	for k := range depth {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, depthOrder(depth))

	minDepth := depth[keys[0]]
	var is Island
	for _, k := range keys {
		col := depth[k] - minDepth
		for len(is.Columns) <= col {
			is.Columns = append(is.Columns, nil)
		}
		is.Columns[col] = append(is.Columns[col], k)
	}
	return is
}
