package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/mcl/internal/cli"
	"github.com/matzehuels/mcl/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.Execute(ctx, os.Args[1:], os.Stderr)
	if err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "error:", errors.UserMessage(err))
	}
	os.Exit(cli.ExitCode(err))
}
