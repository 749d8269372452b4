package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/filevault/internal/web"
)

// unmatchedRoute labels requests no route matched, keeping label cardinality bounded.
const unmatchedRoute = "unmatched"

// MetricsConfig configures the metrics middleware.
type MetricsConfig struct {
	Registerer prometheus.Registerer
	Buckets    []float64
	Namespace  string
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithMetricsRegisterer sets the registry the collectors are registered on.
func WithMetricsRegisterer(reg prometheus.Registerer) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Registerer = reg
	}
}

// WithMetricsBuckets sets the latency histogram buckets, in seconds.
func WithMetricsBuckets(buckets ...float64) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Buckets = buckets
	}
}

// WithMetricsNamespace sets the metric name prefix.
func WithMetricsNamespace(ns string) MetricsOption {
	return func(cfg *MetricsConfig) {
		cfg.Namespace = ns
	}
}

// Metrics returns middleware that records request count and latency.
// Requests are labelled by method, chi route pattern and status code.
// Call it once per registry: a second call with the same registerer panics.
func Metrics(opts ...MetricsOption) web.Middleware {
	cfg := &MetricsConfig{
		Registerer: prometheus.DefaultRegisterer,
		Buckets:    prometheus.DefBuckets,
		Namespace:  "filevault",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	f := promauto.With(cfg.Registerer)
	requests := f.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})
	latency := f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds, by method and route.",
		Buckets:   cfg.Buckets,
	}, []string{"method", "route"})

	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(c web.Context) error {
			start := time.Now()
			err := next(c)

			route := routePattern(c.Request())
			status := http.StatusOK
			if rw, ok := c.Response().(*web.ResponseWriter); ok {
				status = rw.Status()
			}
			// An error not rendered yet is counted as a server error; the
			// outer error handler decides the final code.
			if err != nil && !c.Written() {
				status = http.StatusInternalServerError
				if he := web.AsHTTPError(err); he != nil {
					status = he.StatusCode()
				}
			}

			requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			latency.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatchedRoute
}
