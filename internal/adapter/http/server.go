package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/fathomscience/fischcast-qc/internal/dataset"
	"github.com/fathomscience/fischcast-qc/internal/observability"
	"github.com/fathomscience/fischcast-qc/internal/report"
)

// SnapshotSource provides the active dataset snapshot.
type SnapshotSource interface {
	sharedobs.ReadinessChecker
	Current() *dataset.Snapshot
}

// Option configures optional server behaviour.
type Option func(*Server)

// WithRateLimit throttles /api requests to rps with the given burst. A
// non-positive rps leaves the API unthrottled.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// Server exposes the dashboard pages, the JSON API and the health, readiness
// and metrics endpoints.
type Server struct {
	httpServer *http.Server
	source     SnapshotSource
	reports    *report.Cache
	metrics    *observability.Metrics
	logger     *slog.Logger
	tmpl       *template.Template
	limiter    *rate.Limiter
}

// NewServer creates an HTTP server listening on addr.
func NewServer(addr string, source SnapshotSource, reports *report.Cache, metrics *observability.Metrics, logger *slog.Logger, options ...Option) *Server {
	s := &Server{
		source:  source,
		reports: reports,
		metrics: metrics,
		logger:  logger,
		tmpl:    newTemplates(),
	}
	for _, opt := range options {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(s.source))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Get("/data", s.handleData)
		r.Get("/regions", s.handleRegions)
		r.Route("/regions/{regionId}", func(r chi.Router) {
			r.Get("/", s.handleRegion)
			r.Options("/", s.handleRegionRefs)
			r.Get("/report", s.handleReport)
			r.Get("/models/{modelId}/variables/{variable}/forecast-days", s.handleForecastDays)
			r.Get("/models/{modelId}/variables/{variable}/timeseries", s.handleTimeseries)
			r.Get("/variables/{variable}/consolidated", s.handleConsolidated)
		})
	})

	r.Get("/", s.handleIndexPage)
	r.Get("/regions", s.handleRegionsPage)
	r.Get("/regions/{regionId}", s.handleRegionPage)
	r.Get("/regions/{regionId}/charts", s.handleChartsPage)

	return r
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
