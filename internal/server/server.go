// Package server exposes the search pipeline, repository details, README
// summaries and manifests over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/takeruhukushima/publiccodelooks/internal/metrics"
	"github.com/takeruhukushima/publiccodelooks/pkg/buildinfo"
	"github.com/takeruhukushima/publiccodelooks/pkg/config"
	"github.com/takeruhukushima/publiccodelooks/pkg/integrations/github"
	"github.com/takeruhukushima/publiccodelooks/pkg/publiccode"
	"github.com/takeruhukushima/publiccodelooks/pkg/search"
	"github.com/takeruhukushima/publiccodelooks/pkg/summary"
)

// RepoGetter fetches repository metadata with upstream errors intact.
// *github.Client implements it.
type RepoGetter interface {
	Repo(ctx context.Context, owner, name string) (*github.Repo, error)
}

// Options wires the server's collaborators. Pipeline and Repos are
// required; a nil Summaries or Manifests disables that route with 503.
type Options struct {
	Pipeline  *search.Pipeline
	Repos     RepoGetter
	Summaries summary.Summarizer
	Manifests *publiccode.Reader

	// Query and PageSize are used when a search request omits them.
	Query    string
	PageSize int

	Metrics  *metrics.Metrics     // nil disables request metrics
	Gatherer prometheus.Gatherer // nil = prometheus.DefaultGatherer
	Logger   *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	opts      Options
	logger    *log.Logger
	router    chi.Router
	summaries singleflight.Group
}

// New builds the router.
func New(opts Options) *Server {
	if opts.PageSize <= 0 {
		opts.PageSize = 30
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{opts: opts, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.recoverer)
	r.Use(s.requestLog)
	if s.opts.Metrics != nil {
		r.Use(s.opts.Metrics.Middleware())
	}

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/repos/{owner}/{repo}", s.handleRepo)
		r.Get("/summary/{owner}/{repo}", s.handleSummary)
		r.Get("/manifest/{owner}/{repo}", s.handleManifest)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within cfg.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", cfg.ShutdownTimeout.Duration)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"build":  buildinfo.Get(),
	})
}
