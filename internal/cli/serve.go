package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mcl/internal/server"
	"github.com/matzehuels/mcl/pkg/pipeline"
)

// serveCommand creates the serve command, which exposes the compiler over
// HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		Long: `Serve starts an HTTP server with the routes

  GET  /healthz
  POST /v1/compile
  POST /v1/check

The listen address defaults to [server] addr of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.settings()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Options{
				Timeout: timeout,
				Defaults: pipeline.Options{
					Layout: cfg.LayoutOptions(),
					TTL:    cfg.Cache.TTL,
				},
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "per-request timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
