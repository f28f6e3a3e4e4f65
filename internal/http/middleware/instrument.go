package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
)

// InitRequestMetrics registers the HTTP-level collectors. Call once at
// startup before wrapping the router with Instrument.
func InitRequestMetrics() {
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rendimientos",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests served, by method and status.",
		},
		[]string{"method", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rendimientos",
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request durations in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method"},
	)
	prometheus.MustRegister(httpRequestsTotal, httpDuration)
}

// Instrument wraps the handler chain and records request count and
// duration. Paths are deliberately not a label: vehicle ids would blow
// up cardinality.
func Instrument(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)

		method := string(ctx.Method())
		status := strconv.Itoa(ctx.Response.StatusCode())
		httpRequestsTotal.WithLabelValues(method, status).Inc()
		httpDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
}
