// Package server exposes a loaded family over HTTP.
//
// The server holds one family in memory and serializes every request on a
// mutex, since the family model is not safe for concurrent use. Layouts are
// cached by the pipeline runner keyed on the family's contents, so repeated
// requests for the same view skip the layout stage until the family is
// reloaded.
//
// Routes:
//
//	GET  /healthz
//	GET  /metrics
//	GET  /api/members
//	GET  /api/members/{id}
//	GET  /api/members/{id}/distances?mode=direct|network
//	GET  /api/route?from=&to=
//	GET  /api/stats
//	GET  /api/layout?type=tree|nodelink|map&style=
//	GET  /api/tree.svg?style=&from=
//	GET  /api/nodelink.svg?style=
//	GET  /api/map.svg?style=&from=
//	POST /api/reload
//
// Person references ({id}, from, to) accept a definition key, identifier,
// national id or unique full name.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/kintree/pkg/pipeline"
)

// Options configures a Server.
type Options struct {
	// Source is the family file to serve and reload.
	Source string
	// Defaults are the layout and render settings requests start from.
	Defaults pipeline.Options
	// ProximityKm limits proximity edges for network distances and routes.
	// Zero connects every pair.
	ProximityKm float64

	Runner  *pipeline.Runner
	Metrics *Metrics
	Logger  *log.Logger
}

// Server serves one family.
type Server struct {
	mu  sync.Mutex
	fam *pipeline.Family

	source      string
	defaults    pipeline.Options
	proximityKm float64

	runner  *pipeline.Runner
	metrics *Metrics
	logger  *log.Logger
	router  chi.Router
}

// New loads the source family and builds the router.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	s := &Server{
		source:      opts.Source,
		defaults:    opts.Defaults,
		proximityKm: opts.ProximityKm,
		runner:      opts.Runner,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/members", s.handleMembers)
		r.Get("/members/{id}", s.handleMember)
		r.Patch("/members/{id}", s.handleUpdateMember)
		r.Delete("/members/{id}", s.handleDeleteMember)
		r.Get("/members/{id}/distances", s.handleDistances)
		r.Get("/route", s.handleRoute)
		r.Get("/stats", s.handleStats)
		r.Get("/layout", s.handleLayout)
		r.Get("/tree.svg", s.handleSVG("tree"))
		r.Get("/nodelink.svg", s.handleSVG("nodelink"))
		r.Get("/map.svg", s.handleSVG("map"))
		r.Post("/reload", s.handleReload)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Reload re-reads the source file and replaces the served family. On error
// the previous family stays in place.
func (s *Server) Reload() (int, error) {
	fam, err := pipeline.Load(s.source)
	if err != nil {
		return 0, err
	}
	fam.BuildLocationEdgesWithin(s.proximityKm)

	s.mu.Lock()
	s.fam = fam
	s.mu.Unlock()

	s.metrics.SetMembers(fam.Len())
	s.logger.Info("loaded family", "source", s.source, "members", fam.Len())
	return fam.Len(), nil
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving", "addr", addr, "source", s.source)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// withFamily runs fn while holding the family lock.
func (s *Server) withFamily(fn func(*pipeline.Family) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.fam)
}
