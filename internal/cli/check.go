package cli

import (
	"encoding/json"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/pipeline"
	"github.com/matzehuels/mcl/pkg/semantic"
)

// checkReport is the --json output for one file.
type checkReport struct {
	Source string      `json:"source"`
	OK     bool        `json:"ok"`
	Error  string      `json:"error,omitempty"`
	Units  []checkUnit `json:"units,omitempty"`
}

type checkUnit struct {
	Name        string               `json:"name"`
	Diagnostics semantic.Diagnostics `json:"diagnostics"`
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Analyze syntax trees and report diagnostics",
		Long: `Check runs the semantic analysis of every microcontroller without placing
or rendering it. No cache is used and nothing is written.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			reports := make([]checkReport, 0, len(args))
			failed := 0
			for _, path := range args {
				r := c.check(cmd, runner, path)
				if !r.OK {
					failed++
				}
				reports = append(reports, r)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					printCheckReport(r)
				}
			}

			if failed > 0 {
				return errors.New(errors.ErrCodeCompileFailed, "%d of %d file(s) have errors", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print diagnostics as JSON")

	return cmd
}

// check analyzes one file. Read and decode failures are reported in the
// Error field instead of aborting the remaining files.
func (c *CLI) check(cmd *cobra.Command, runner *pipeline.Runner, path string) checkReport {
	r := checkReport{Source: path}
	tree, err := readTree(path)
	if err != nil {
		r.Error = errors.UserMessage(err)
		return r
	}

	units, err := runner.Check(cmd.Context(), path, tree)
	var cerr *pipeline.CompileError
	if err != nil && !stderrors.As(err, &cerr) {
		r.Error = errors.UserMessage(err)
		return r
	}
	r.OK = err == nil
	for _, u := range units {
		r.Units = append(r.Units, checkUnit{Name: u.Name, Diagnostics: u.Diagnostics})
	}
	return r
}

func printCheckReport(r checkReport) {
	switch {
	case r.Error != "":
		printError("%s: %s", r.Source, r.Error)
		return
	case r.OK:
		printSuccess("%s", r.Source)
	default:
		printError("%s", r.Source)
	}
	for _, u := range r.Units {
		if len(u.Diagnostics) == 0 {
			printDetail("%s: no problems", u.Name)
			continue
		}
		printDiagnostics(r.Source, u.Diagnostics)
	}
}
