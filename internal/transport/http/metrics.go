package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the transport-level Prometheus instruments
type Metrics struct {
	FitsTotal        *prometheus.CounterVec
	FitDuration      prometheus.Histogram
	PredictionsTotal *prometheus.CounterVec
}

// NewMetrics registers the transport metrics on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mmx_fits_total",
			Help: "Total number of model fit requests by outcome.",
		}, []string{"status"}),
		FitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mmx_fit_duration_seconds",
			Help:    "Duration of model fits in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mmx_predictions_total",
			Help: "Total number of scenario predictions by outcome.",
		}, []string{"status"}),
	}
}
