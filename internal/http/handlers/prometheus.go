package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	uploadsTotal     *prometheus.CounterVec
	rowsImported     *prometheus.CounterVec
	coercionFailures *prometheus.CounterVec
	commentaryTotal  *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
)

// InitPrometheusMetrics registers the application-level collectors.
func InitPrometheusMetrics() {
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rendimientos",
			Name:      "uploads_total",
			Help:      "Workbook uploads by kind and outcome.",
		},
		[]string{"kind", "status"},
	)
	rowsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rendimientos",
			Name:      "rows_imported_total",
			Help:      "Normalized rows accepted per workbook kind.",
		},
		[]string{"kind"},
	)
	coercionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rendimientos",
			Name:      "coercion_failures_total",
			Help:      "Cells that failed date/number coercion and became missing markers.",
		},
		[]string{"kind"},
	)
	commentaryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rendimientos",
			Name:      "commentary_requests_total",
			Help:      "AI commentary requests by outcome.",
		},
		[]string{"status"},
	)
	pipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rendimientos",
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of full pipeline recomputations.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"stage"},
	)
	prometheus.MustRegister(uploadsTotal, rowsImported, coercionFailures, commentaryTotal, pipelineDuration)
}
