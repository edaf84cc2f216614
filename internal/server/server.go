// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout          full or scoped layout
//	POST /v1/layout/subset   subset layout
//	POST /v1/crossings       crossing diagnostic, no mutation
//	GET  /healthz            liveness
//
// Every request is tagged with a UUID request id, returned in the
// X-Request-ID header and in error bodies, and reported to the registered
// observability.HTTPHooks.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// DefaultMaxBodyBytes limits request bodies.
const DefaultMaxBodyBytes = 10 << 20

const shutdownTimeout = 10 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the layout config applied to every request.
func WithConfig(cfg layout.Config) Option {
	return func(s *Server) { s.config = cfg }
}

// WithSolver sets the solver used when a request does not name one.
func WithSolver(name string) Option {
	return func(s *Server) { s.solver = name }
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// Server holds the chi router and the pipeline runner.
type Server struct {
	router  chi.Router
	runner  *pipeline.Runner
	logger  *log.Logger
	config  layout.Config
	solver  string
	maxBody int64
}

// New creates a Server with all routes configured. A nil logger discards
// output.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		config:  layout.DefaultConfig(),
		solver:  pipeline.DefaultSolver,
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.NotFound(s.handleNotFound)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/layout/subset", s.handleSubset)
		r.Post("/crossings", s.handleCrossings)
	})

	s.router = r
	return s
}

// ServeHTTP implements the http.Handler interface, delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
