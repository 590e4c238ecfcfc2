// Package api exposes the layout pipeline over HTTP.
//
// The server has one operational endpoint, POST /layout, plus liveness and
// readiness probes and a prometheus metrics endpoint. Authentication is a
// shared API key in the X-API-Key header, checked before the request body is
// touched; an empty configured secret disables the check.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/layoutd/layoutd/pkg/errors"
	"github.com/layoutd/layoutd/pkg/graph"
	"github.com/layoutd/layoutd/pkg/metrics"
	"github.com/layoutd/layoutd/pkg/pipeline"
	"github.com/layoutd/layoutd/pkg/render"
)

// maxBodyBytes bounds the request body. Large graphs are legitimate; large
// enough to need more than this is not.
const maxBodyBytes = 8 << 20

// Server is the layoutd HTTP API.
type Server struct {
	runner  *pipeline.Runner
	secret  string
	logger  *log.Logger
	metrics *metrics.Registry
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the shared API key. An empty secret disables auth.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = secret }
}

// WithMetrics attaches a metrics registry and enables /metrics.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Server) { s.metrics = reg }
}

// WithLogger sets the request logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates the API server around a pipeline runner.
func NewServer(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.recovery)
	r.Use(s.requestID)
	r.Use(s.logging)
	if s.metrics != nil {
		r.Use(s.recordMetrics)
	}

	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(s.metrics.Prometheus(), promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Post("/layout", s.handleLayout)
	})

	return r
}

// handleLayout runs the pipeline for one request graph.
//
// The response is the layout JSON, or an SVG preview of it when the request
// asks for ?format=svg.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	g, err := graph.ReadGraph(r.Body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), g)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "svg" {
		svg, err := render.Preview(r.Context(), result.Layout)
		if err != nil {
			s.respondError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render preview"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(svg)
		return
	}

	s.respondJSON(w, http.StatusOK, result.Layout)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports readiness. The engine is contacted lazily per
// request, so readiness only covers the server's own wiring.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// =============================================================================
// Responses
// =============================================================================

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// respondError maps a coded error to an HTTP status and the error body shape
// {"error": message}. Validation and layout failures are client errors; only
// genuinely unexpected conditions surface as 500.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDirection, errors.ErrCodeInvalidSide,
		errors.ErrCodeTimeout, errors.ErrCodeEngine:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	s.respondJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}
