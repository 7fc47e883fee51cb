package layout

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/matzehuels/mcl/pkg/netlist"
)

func pinRef(i int) Key       { return Key{Kind: netlist.RefPin, Index: i} }
func componentRef(i int) Key { return Key{Kind: netlist.RefComponent, Index: i} }

// adder builds a + b -> sum. Pins 0, 1 are inputs, pin 2 the output and
// component 0 the Add.
func adder(t *testing.T) *netlist.Microcontroller {
	t.Helper()
	b := netlist.NewBuilder("Adder")
	for _, p := range []netlist.Pin{
		{Mode: netlist.Input, Name: "a", Type: netlist.Number},
		{Mode: netlist.Input, Name: "b", Type: netlist.Number, Cell: netlist.Cell{Z: 1}},
		{Mode: netlist.Output, Name: "sum", Type: netlist.Number, Cell: netlist.Cell{Z: 2}},
	} {
		if _, err := b.AddPin(p); err != nil {
			t.Fatal(err)
		}
	}
	a, _ := b.PinLink(0)
	bl, _ := b.PinLink(1)
	add, err := b.AddComponent(netlist.NewComponent(netlist.Add, &a, &bl))
	if err != nil {
		t.Fatal(err)
	}
	out, _ := b.ComponentLink(add, 0)
	if err := b.Wire(2, out); err != nil {
		t.Fatal(err)
	}
	return b.Freeze()
}

func TestGraph(t *testing.T) {
	g := NewGraph(adder(t))
	if g.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", g.Len())
	}
	want := []Key{pinRef(0), pinRef(1), pinRef(2), componentRef(0)}
	if !reflect.DeepEqual(g.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", g.Keys(), want)
	}
	if got := g.Left(componentRef(0)); !reflect.DeepEqual(got, []Key{pinRef(0), pinRef(1)}) {
		t.Errorf("Left(Add) = %v", got)
	}
	if got := g.Right(componentRef(0)); !reflect.DeepEqual(got, []Key{pinRef(2)}) {
		t.Errorf("Right(Add) = %v", got)
	}
	if g.Has(componentRef(3)) {
		t.Error("Has(unknown) = true")
	}
}

func TestIslandsAdder(t *testing.T) {
	islands := Islands(NewGraph(adder(t)))
	if len(islands) != 1 {
		t.Fatalf("len(Islands) = %d, want 1", len(islands))
	}
	want := [][]Key{{pinRef(0), pinRef(1)}, {componentRef(0)}, {pinRef(2)}}
	if !reflect.DeepEqual(islands[0].Columns, want) {
		t.Errorf("Columns = %v, want %v", islands[0].Columns, want)
	}
}

func TestApplyAdder(t *testing.T) {
	mc := adder(t)
	placed, rep := Apply(mc, DefaultOptions())
	if !placed.Placed {
		t.Error("Placed = false")
	}
	if mc.Placed {
		t.Error("Apply modified its input")
	}
	if rep.Islands != 1 || rep.Isolated != 0 {
		t.Errorf("Report = %+v", rep)
	}
	tests := []struct {
		key  Key
		want netlist.Point
	}{
		{pinRef(0), netlist.Point{X: 0, Y: -2}},
		{pinRef(1), netlist.Point{X: 0, Y: -4}},
		{componentRef(0), netlist.Point{X: 5, Y: -3}},
		{pinRef(2), netlist.Point{X: 10, Y: -2}},
	}
	for _, tt := range tests {
		if got := placed.Placement(tt.key); got != tt.want {
			t.Errorf("Placement(%v) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestApplyIsolated(t *testing.T) {
	b := netlist.NewBuilder("M")
	b.AddPin(netlist.Pin{Mode: netlist.Input, Name: "a", Type: netlist.Number})
	b.AddPin(netlist.Pin{Mode: netlist.Output, Name: "y", Type: netlist.Bool, Cell: netlist.Cell{X: 1}})
	b.AddComponent(netlist.NewComponent(netlist.Abs))
	placed, rep := Apply(b.Freeze(), Options{Pitch: 5, IsolatedX: -7})
	if rep.Isolated != 3 || rep.Islands != 0 {
		t.Errorf("Report = %+v, want 3 isolated", rep)
	}
	want := []netlist.Point{{X: -7, Y: -2}, {X: -7, Y: -4}, {X: -7, Y: -6}}
	got := []netlist.Point{placed.Pins[0].Placement, placed.Pins[1].Placement, placed.Components[0].Placement}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("placements = %v, want %v", got, want)
	}
}

// chains builds n independent a_i -> abs -> y_i chains.
func chains(t *testing.T, n int) *netlist.Microcontroller {
	t.Helper()
	b := netlist.NewBuilder("Chains")
	for i := 0; i < n; i++ {
		in, _ := b.AddPin(netlist.Pin{Mode: netlist.Input, Name: "a", Type: netlist.Number})
		out, _ := b.AddPin(netlist.Pin{Mode: netlist.Output, Name: "y", Type: netlist.Number})
		l, _ := b.PinLink(in)
		c, err := b.AddComponent(netlist.NewComponent(netlist.Abs, &l))
		if err != nil {
			t.Fatal(err)
		}
		cl, _ := b.ComponentLink(c, 0)
		if err := b.Wire(out, cl); err != nil {
			t.Fatal(err)
		}
	}
	return b.Freeze()
}

func TestApplyStacksIslands(t *testing.T) {
	placed, rep := Apply(chains(t, 3), DefaultOptions())
	if rep.Islands != 3 {
		t.Fatalf("Islands = %d, want 3", rep.Islands)
	}
	// Each island is 2 high; they start at rows 0, 3 and 6.
	for i, wantTop := range []int{0, 3, 6} {
		got := placed.Pins[2*i].Placement
		if want := (netlist.Point{X: 0, Y: -wantTop - 2}); got != want {
			t.Errorf("island %d input at %v, want %v", i, got, want)
		}
	}
	if rep.Height != 8 {
		t.Errorf("Height = %d, want 8", rep.Height)
	}
}

// randomNetlist wires a random DAG of Add components over four inputs and
// wires some outputs.
func randomNetlist(t *testing.T, r *rand.Rand) *netlist.Microcontroller {
	t.Helper()
	b := netlist.NewBuilder("R")
	var sources []netlist.Link
	for i := 0; i < 4; i++ {
		p, _ := b.AddPin(netlist.Pin{Mode: netlist.Input, Name: "in", Type: netlist.Number})
		l, _ := b.PinLink(p)
		if r.IntN(4) > 0 {
			sources = append(sources, l)
		}
	}
	outs := make([]int, 3)
	for i := range outs {
		outs[i], _ = b.AddPin(netlist.Pin{Mode: netlist.Output, Name: "out", Type: netlist.Number})
	}
	if len(sources) == 0 {
		return b.Freeze()
	}
	for i := 0; i < 6; i++ {
		x := sources[r.IntN(len(sources))]
		y := sources[r.IntN(len(sources))]
		c, err := b.AddComponent(netlist.NewComponent(netlist.Add, &x, &y))
		if err != nil {
			t.Fatal(err)
		}
		l, _ := b.ComponentLink(c, 0)
		sources = append(sources, l)
	}
	for _, o := range outs {
		if r.IntN(2) == 0 {
			b.Wire(o, sources[r.IntN(len(sources))])
		}
	}
	return b.Freeze()
}

func TestIslandsPartition(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 100; i++ {
		g := NewGraph(randomNetlist(t, r))
		seen := make(map[Key]bool)
		total := 0
		for _, is := range Islands(g) {
			for _, k := range is.Keys() {
				if seen[k] {
					t.Fatalf("netlist %d: %v in two islands", i, k)
				}
				if !g.Has(k) {
					t.Fatalf("netlist %d: unwired %v in an island", i, k)
				}
				seen[k] = true
			}
			total += is.Len()
		}
		if total != g.Len() {
			t.Errorf("netlist %d: islands hold %d nodes, graph has %d", i, total, g.Len())
		}
	}
}

func TestApplyDeterministic(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 50; i++ {
		mc := randomNetlist(t, r)
		first, _ := Apply(mc, DefaultOptions())
		for j := 0; j < 3; j++ {
			again, _ := Apply(mc, DefaultOptions())
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("netlist %d: layout differs between runs", i)
			}
		}
	}
}

func TestApplyNoOverlap(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 50; i++ {
		mc := randomNetlist(t, r)
		placed, _ := Apply(mc, DefaultOptions())
		type span struct{ x, lo, hi int }
		var spans []span
		for _, k := range placed.Nodes() {
			p := placed.Placement(k)
			spans = append(spans, span{p.X, p.Y, p.Y + placed.Height(k)})
		}
		for a := range spans {
			for b := a + 1; b < len(spans); b++ {
				sa, sb := spans[a], spans[b]
				if sa.x == sb.x && sa.lo < sb.hi && sb.lo < sa.hi {
					t.Fatalf("netlist %d: nodes %d and %d overlap: %v %v", i, a, b, sa, sb)
				}
			}
		}
	}
}
