// Package pipeline provides the compile pipeline shared by the CLI and the
// HTTP service.
//
// # Architecture
//
// A compilation runs four stages over one syntax tree document:
//
//  1. Decode: read the JSON syntax tree produced by the external parser
//  2. Analyze: build and type check one netlist per microcontroller
//  3. Layout: assign positions to every pin and component
//  4. Export: produce the save-format document
//
// Requested formats are then rendered from the result: "json" is the
// exported document, "dot", "svg", "pdf" and "png" are Graphviz diagrams of
// the netlist.
//
// Analysis errors stop a microcontroller before layout; the pipeline then
// returns a [*CompileError] carrying every diagnostic.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "adder.json",
//	    Tree:    data,
//	    Formats: []string{"json", "svg"},
//	})
//	var cerr *pipeline.CompileError
//	if errors.As(err, &cerr) {
//	    // report cerr.Units[i].Diagnostics
//	}
//	svg := result.Units[0].Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mcl/pkg/cache"
	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/export"
	"github.com/matzehuels/mcl/pkg/layout"
	"github.com/matzehuels/mcl/pkg/netlist"
	"github.com/matzehuels/mcl/pkg/semantic"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatPNG:  true,
}

// DefaultTTL is how long compiled documents and diagrams stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: json, dot, svg, pdf, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for one compilation.
type Options struct {
	// Source names the tree in logs and errors, usually its file path.
	Source string `json:"source,omitempty"`

	// Tree is the JSON syntax tree document.
	Tree []byte `json:"-"`

	Layout   layout.Options `json:"layout"`
	Formats  []string       `json:"formats,omitempty"`
	Detailed bool           `json:"detailed,omitempty"`

	// Refresh bypasses cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// TTL overrides DefaultTTL for cache writes.
	TTL time.Duration `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Tree) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "syntax tree is required")
	}
	if o.Source == "" {
		o.Source = "<input>"
	}
	if o.Layout == (layout.Options{}) {
		o.Layout = layout.DefaultOptions()
	}
	if o.Layout.Pitch < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "layout pitch must be positive, got %d", o.Layout.Pitch)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// CompileKeyOpts returns cache key options for the compile stage.
func (o *Options) CompileKeyOpts() cache.CompileKeyOpts {
	return cache.CompileKeyOpts{Pitch: o.Layout.Pitch, IsolatedX: o.Layout.IsolatedX}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Detailed: o.Detailed}
}

// Unit is the compilation result of one microcontroller.
type Unit struct {
	Name string `json:"name"`

	// Diagnostics holds every error and warning reported for the unit.
	Diagnostics semantic.Diagnostics `json:"diagnostics,omitempty"`

	// Netlist is the placed netlist. It is nil when analysis failed and
	// when the document was served from cache.
	Netlist *netlist.Microcontroller `json:"-"`

	// Document is the exported save-format document, nil when analysis
	// failed.
	Document *export.Document `json:"document,omitempty"`

	Layout layout.Report `json:"layout"`

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte `json:"-"`
}

// Failed reports whether analysis reported errors for the unit.
func (u *Unit) Failed() bool { return u.Diagnostics.HasErrors() }

// Result contains the outputs of a pipeline run.
type Result struct {
	// BuildID identifies this run in logs and HTTP responses.
	BuildID string

	Source string

	// TreeHash is the content hash of the input syntax tree.
	TreeHash string

	// Units holds one entry per microcontroller in declaration order.
	Units []Unit

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Microcontrollers int
	Pins             int
	Components       int
	Edges            int
	Islands          int
	Warnings         int
	CompileTime      time.Duration
	RenderTime       time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	CompileHit bool // Whether the documents came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// CompileError is returned when analysis of at least one microcontroller
// reported errors. Units holds every unit, failed or not, so callers can
// print all diagnostics.
type CompileError struct {
	Source string
	Units  []Unit
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var failed []string
	errs := 0
	for i := range e.Units {
		if e.Units[i].Failed() {
			failed = append(failed, e.Units[i].Name)
			errs += len(e.Units[i].Diagnostics.Errors())
		}
	}
	return fmt.Sprintf("compile %s: %d error(s) in %s", e.Source, errs, strings.Join(failed, ", "))
}

// ErrorCode returns COMPILE_FAILED.
func (e *CompileError) ErrorCode() errors.Code { return errors.ErrCodeCompileFailed }
