package cli

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/matzehuels/mcl/pkg/errors"
)

// Exit codes returned by [ExitCode].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitCompile     = 2
	ExitInterrupted = 130
)

// Execute runs the mcl CLI with args, logging to stderr.
//
// Example:
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    os.Exit(cli.ExitCode(cli.Execute(ctx, os.Args[1:], os.Stderr)))
//	}
func Execute(ctx context.Context, args []string, stderr io.Writer) error {
	c := New(stderr, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// ExitCode maps an error returned by [Execute] to a process exit code.
// Compile failures exit with 2 so scripts can tell them apart from usage
// and I/O errors.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, errors.ErrCodeCompileFailed):
		return ExitCompile
	}
	return ExitFailure
}
