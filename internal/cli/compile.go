package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/pipeline"
)

// compileOpts holds the command-line flags for the compile command.
type compileOpts struct {
	output   string // output directory
	formats  string // comma-separated output formats
	detailed bool   // detailed node labels in diagrams
	noCache  bool   // disable the cache entirely
	refresh  bool   // skip cache reads
	jobs     int    // files compiled in parallel
	pitch    int    // island spacing override
	isolated int    // isolated pin column override
}

// compileCommand creates the compile command.
func (c *CLI) compileCommand() *cobra.Command {
	opts := compileOpts{output: ".", jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Compile syntax trees into placed netlist documents",
		Long: `Compile analyzes every microcontroller in the given syntax tree files,
places its netlist and writes one output per microcontroller and format,
named <microcontroller>.<format>.

With more than one input file, outputs go to a subdirectory named after
each input file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompile(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json, dot, svg, pdf, png (comma-separated; default from config)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show types, modes and cells in diagrams")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "number of files compiled in parallel")
	cmd.Flags().IntVar(&opts.pitch, "pitch", 0, "horizontal distance between islands (default from config)")
	cmd.Flags().IntVar(&opts.isolated, "isolated-column", 0, "x coordinate of unconnected pins (default from config)")

	return cmd
}

func (c *CLI) runCompile(cmd *cobra.Command, files []string, opts compileOpts) error {
	ctx := cmd.Context()
	cfg := c.settings()

	formats := parseFormats(opts.formats, cfg.Output.Formats)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	layoutOpts := cfg.LayoutOptions()
	if cmd.Flags().Changed("pitch") {
		layoutOpts.Pitch = opts.pitch
	}
	if cmd.Flags().Changed("isolated-column") {
		layoutOpts.IsolatedX = opts.isolated
	}

	batch := make([]pipeline.Options, 0, len(files))
	for _, path := range files {
		tree, err := readTree(path)
		if err != nil {
			return err
		}
		batch = append(batch, pipeline.Options{
			Source:   path,
			Tree:     tree,
			Layout:   layoutOpts,
			Formats:  formats,
			Detailed: opts.detailed,
			Refresh:  opts.refresh,
			TTL:      cfg.Cache.TTL,
		})
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	var spin *spinner
	if !c.verbose {
		spin = newSpinner(ctx, os.Stderr, fmt.Sprintf("Compiling %d file(s)...", len(files)))
		spin.Start()
	}
	results := runner.ExecuteBatch(ctx, batch, opts.jobs)
	if spin != nil {
		spin.Stop()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	failed := 0
	for _, br := range results {
		if !reportResult(br) {
			failed++
			continue
		}
		dir := opts.output
		if len(files) > 1 {
			dir = filepath.Join(opts.output, fileStem(br.Source))
		}
		if err := writeUnits(dir, br.Result.Units, formats); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Compiled %d of %d file(s)", len(files)-failed, len(files)))

	if failed > 0 {
		return errors.New(errors.ErrCodeCompileFailed, "%d of %d file(s) failed to compile", failed, len(files))
	}
	if !containsDiagram(formats) {
		printNewline()
		printNextStep("Render a diagram", fmt.Sprintf("%s render %s --format svg", appName, files[0]))
	}
	return nil
}

// reportResult prints the outcome of one file and reports whether it
// compiled.
func reportResult(br pipeline.BatchResult) bool {
	var cerr *pipeline.CompileError
	switch {
	case stderrors.As(br.Err, &cerr):
		printError("%s", br.Source)
		for _, u := range cerr.Units {
			printDiagnostics(br.Source, u.Diagnostics)
		}
		return false
	case br.Err != nil:
		printError("%s: %s", br.Source, errors.UserMessage(br.Err))
		return false
	}

	res := br.Result
	printSuccess("Compiled %s", br.Source)
	printStats(res.Stats.Pins, res.Stats.Components, res.Stats.Islands, res.CacheInfo.CompileHit)
	for _, u := range res.Units {
		printDiagnostics(br.Source, u.Diagnostics)
	}
	return true
}

// writeUnits writes every artifact of units into dir as <name>.<format>.
func writeUnits(dir string, units []pipeline.Unit, formats []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}
	for _, u := range units {
		for _, format := range formats {
			path := filepath.Join(dir, u.Name+"."+format)
			if err := os.WriteFile(path, u.Artifacts[format], 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
			}
			printFile(path)
		}
	}
	return nil
}

// readTree reads a syntax tree file.
func readTree(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, os.ErrNotExist) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func containsDiagram(formats []string) bool {
	for _, f := range formats {
		if f != pipeline.FormatJSON {
			return true
		}
	}
	return false
}

// compileOne runs the tree at path through a fresh runner.
func (c *CLI) compileOne(ctx context.Context, path string, opts pipeline.Options, noCache bool) (*pipeline.Result, error) {
	tree, err := readTree(path)
	if err != nil {
		return nil, err
	}
	opts.Source = path
	opts.Tree = tree

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()
	return runner.Execute(ctx, opts)
}
