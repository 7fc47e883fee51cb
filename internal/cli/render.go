package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file, "-" for stdout
	format   string // dot, svg, pdf, png or json
	name     string // microcontroller to render
	detailed bool   // show types, modes and cells
	noCache  bool
}

// renderCommand creates the render command for a single diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render one microcontroller as a node-link diagram",
		Long: `Render compiles a syntax tree file and writes one microcontroller as a
diagram. Without --name the first microcontroller is used.

The default output path is <input>.<microcontroller>.<format> next to the
input file. Use -o - to write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, pdf, png, json")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "microcontroller to render")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show types, modes and cells")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, stdout io.Writer, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := c.settings()

	res, err := c.compileOne(ctx, input, pipeline.Options{
		Layout:   cfg.LayoutOptions(),
		Formats:  []string{opts.format},
		Detailed: opts.detailed,
		TTL:      cfg.Cache.TTL,
	}, opts.noCache)
	if err != nil {
		if cerr := compileFailure(err); cerr != nil {
			for _, u := range cerr.Units {
				printDiagnostics(input, u.Diagnostics)
			}
		}
		return err
	}

	unit, err := selectUnit(res.Units, opts.name)
	if err != nil {
		return err
	}
	data := unit.Artifacts[opts.format]
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	if opts.output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	path := opts.output
	if path == "" {
		path = outputPath(input, unit.Name, opts.format)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	printSuccess("Rendered %s", unit.Name)
	printFile(path)
	return nil
}

// selectUnit returns the unit called name, or the first unit when name is
// empty.
func selectUnit(units []pipeline.Unit, name string) (*pipeline.Unit, error) {
	if len(units) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to render")
	}
	if name == "" {
		return &units[0], nil
	}
	names := make([]string, len(units))
	for i := range units {
		if units[i].Name == name {
			return &units[i], nil
		}
		names[i] = units[i].Name
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "no microcontroller %q (have %s)", name, strings.Join(names, ", "))
}

// outputPath derives <input without extension>.<name>.<format>.
func outputPath(input, name, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s.%s.%s", base, name, format)
}

func compileFailure(err error) *pipeline.CompileError {
	var cerr *pipeline.CompileError
	if stderrors.As(err, &cerr) {
		return cerr
	}
	return nil
}
