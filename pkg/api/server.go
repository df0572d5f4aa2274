// Package api serves layout generation over HTTP.
//
// Routes:
//
//	GET    /healthz                 liveness and build version
//	POST   /layouts                 generate (body: pipeline.Options as JSON)
//	GET    /layouts                 list stored layouts (?limit=n)
//	GET    /layouts/{id}            fetch a stored layout as JSON
//	GET    /layouts/{id}/{format}   render a stored layout (json, svg, dot, ascii)
//	DELETE /layouts/{id}            remove a stored layout
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status derived from the error code.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ascent/pkg/observability"
	"github.com/matzehuels/ascent/pkg/pipeline"
	"github.com/matzehuels/ascent/pkg/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// DefaultListLimit is used when ?limit is absent.
const DefaultListLimit = 100

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger

	// Timeout bounds a single generation request. Zero means no limit.
	Timeout time.Duration
}

// New creates a server. A nil logger falls back to the runner's logger.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, store: st, logger: logger, Timeout: 30 * time.Second}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/layouts", func(r chi.Router) {
		r.Post("/", s.handleGenerate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/{format}", s.handleRender)
		})
	})
	return r
}

// instrument reports requests to the HTTP hooks and logs them.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
