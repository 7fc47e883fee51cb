// Package server exposes the compile pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz     liveness and build information
//	POST /v1/compile  compile a syntax tree and render the requested formats
//	POST /v1/check    analyze a syntax tree and return its diagnostics
//
// Every response carries an X-Request-Id header. A client-supplied id is
// echoed back; otherwise a UUID is generated.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mcl/pkg/pipeline"
)

// MaxBodyBytes limits the size of request bodies.
const MaxBodyBytes = 4 << 20

// Options configures a Server.
type Options struct {
	// Timeout bounds the handling of one request.
	Timeout time.Duration

	// Defaults are applied to compile requests that leave a field unset.
	Defaults pipeline.Options
}

// Server handles compile requests with a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
}

// New creates a server. The runner's cache is shared by all requests.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Minute
	}
	return &Server{runner: runner, logger: logger, opts: opts}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/compile", s.handleCompile)
		r.Post("/check", s.handleCheck)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting up to 10 seconds for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
