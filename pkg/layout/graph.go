package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/mcl/pkg/netlist"
)

// Key identifies a node of the wiring graph: a pin or a component.
type Key = netlist.NodeRef

func compareKeys(a, b Key) int {
	if a.Less(b) {
		return -1
	}
	if b.Less(a) {
		return 1
	}
	return 0
}

type neighbours struct {
	left  []Key // sources feeding this node
	right []Key // consumers fed by this node
}

// Graph is the undirected wiring graph of a netlist. Each edge remembers
// which end is the source (left) and which the consumer (right). Only wired
// nodes appear in it.
type Graph struct {
	keys []Key
	adj  map[Key]*neighbours
}

// NewGraph builds the wiring graph of mc from its output pin wirings and
// component inputs.
func NewGraph(mc *netlist.Microcontroller) *Graph {
	g := &Graph{adj: make(map[Key]*neighbours)}
	for _, e := range mc.Edges() {
		g.connect(e.Source.Source(), e.Consumer)
	}
	for _, n := range g.adj {
		n.left = sortedUnique(n.left)
		n.right = sortedUnique(n.right)
	}
	slices.SortFunc(g.keys, compareKeys)
	return g
}

func (g *Graph) connect(left, right Key) {
	g.node(right).left = append(g.node(right).left, left)
	g.node(left).right = append(g.node(left).right, right)
}

func (g *Graph) node(k Key) *neighbours {
	n, ok := g.adj[k]
	if !ok {
		n = &neighbours{}
		g.adj[k] = n
		g.keys = append(g.keys, k)
	}
	return n
}

func sortedUnique(ks []Key) []Key {
	slices.SortFunc(ks, compareKeys)
	return slices.Compact(ks)
}

// Keys returns the wired nodes in arena order.
func (g *Graph) Keys() []Key { return g.keys }

// Len returns the number of wired nodes.
func (g *Graph) Len() int { return len(g.keys) }

// Has reports whether k is wired to anything.
func (g *Graph) Has(k Key) bool {
	_, ok := g.adj[k]
	return ok
}

// Left returns the sources feeding k, in arena order.
func (g *Graph) Left(k Key) []Key {
	if n, ok := g.adj[k]; ok {
		return n.left
	}
	return nil
}

// Right returns the consumers fed by k, in arena order.
func (g *Graph) Right(k Key) []Key {
	if n, ok := g.adj[k]; ok {
		return n.right
	}
	return nil
}

// depthOrder sorts keys by depth, then arena order.
func depthOrder(depth map[Key]int) func(a, b Key) int {
	return func(a, b Key) int {
		if c := cmp.Compare(depth[a], depth[b]); c != 0 {
			return c
		}
		return compareKeys(a, b)
	}
}
