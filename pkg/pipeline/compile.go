package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/export"
	"github.com/matzehuels/mcl/pkg/layout"
	"github.com/matzehuels/mcl/pkg/observability"
	"github.com/matzehuels/mcl/pkg/semantic"
	"github.com/matzehuels/mcl/pkg/syntax"
)

// Analyze decodes tree and runs semantic analysis on every microcontroller.
// The returned units carry unplaced netlists and no documents. When any
// unit has errors, the units are returned together with a [*CompileError].
func Analyze(ctx context.Context, source string, tree []byte) ([]Unit, error) {
	f, err := syntax.ParseJSON(tree)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	if len(f.Microcontrollers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no microcontroller in %s", source)
	}

	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, source)
	start := time.Now()

	results := semantic.Analyze(f)
	units := make([]Unit, len(results))
	errCount := 0
	for i, res := range results {
		units[i] = Unit{Name: res.Name, Diagnostics: res.Diagnostics, Netlist: res.Netlist}
		errCount += len(res.Diagnostics.Errors())
	}

	var cerr error
	if errCount > 0 {
		cerr = &CompileError{Source: source, Units: units}
	}
	hooks.OnAnalyzeComplete(ctx, source, errCount, time.Since(start), cerr)
	return units, cerr
}

// Compile runs the full pipeline up to export. Units that passed analysis
// hold a placed netlist, a layout report and a document.
func Compile(ctx context.Context, source string, tree []byte, opts layout.Options) ([]Unit, error) {
	units, err := Analyze(ctx, source, tree)
	if err != nil {
		return units, err
	}

	hooks := observability.Pipeline()
	for i := range units {
		u := &units[i]
		hooks.OnLayoutStart(ctx, u.Name, len(u.Netlist.Nodes()))
		start := time.Now()
		placed, report := layout.Apply(u.Netlist, opts)
		hooks.OnLayoutComplete(ctx, u.Name, report.Islands, time.Since(start))

		doc, err := export.Build(placed)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "export %s", u.Name)
		}
		u.Netlist, u.Layout, u.Document = placed, report, doc
	}
	return units, nil
}

// warnings counts warning diagnostics across units.
func warnings(units []Unit) int {
	n := 0
	for i := range units {
		n += len(units[i].Diagnostics.Warnings())
	}
	return n
}

// netlistStats sums pin, component and edge counts of placed units.
func netlistStats(units []Unit, s *Stats) {
	s.Microcontrollers = len(units)
	for i := range units {
		u := &units[i]
		s.Islands += u.Layout.Islands
		if u.Netlist != nil {
			ns := u.Netlist.Stats()
			s.Pins += ns.Inputs + ns.Outputs
			s.Components += ns.Components
			s.Edges += ns.Edges
		} else if u.Document != nil {
			s.Pins += len(u.Document.Pins)
			s.Components += len(u.Document.Components)
		}
	}
	s.Warnings = warnings(units)
}
