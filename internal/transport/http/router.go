package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	custommw "mmx/internal/middleware"
	"mmx/internal/mmm"
)

// NewRouter assembles the HTTP surface: health and model endpoints under
// /api, Prometheus metrics on /metrics. Each router owns its own metrics
// registry so tests can build routers independently.
func NewRouter(defaults mmm.Config, logger *slog.Logger) chi.Router {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	r := chi.NewRouter()
	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recoverer(logger))

	r.Route("/api", func(api chi.Router) {
		NewHealthHandler(logger).RegisterRoutes(api)
		NewModelHandler(defaults, logger, metrics).RegisterRoutes(api)
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return r
}
