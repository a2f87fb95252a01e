package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func httpOpts(name, help string) prometheus.Opts {
	return prometheus.Opts{Namespace: "streamdvr", Subsystem: "http", Name: name, Help: help}
}

// Labelled by chi route pattern, never by raw path, so per-streamer URLs
// share one series.
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts(httpOpts("requests_total", "HTTP requests by route, method and status.")),
		[]string{"path", "method", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "streamdvr",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency. Manual triggers include a probe and a spawn.",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"path", "method", "status"},
	)
	httpInflight = promauto.NewGaugeVec(
		prometheus.GaugeOpts(httpOpts("inflight_requests", "Requests currently being served.")),
		[]string{"path"},
	)
	rejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts(httpOpts("rejected_commands_total", "Control commands rejected without a state change.")),
		[]string{"reason"},
	)
)

// MetricsMiddleware counts and times every request.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		// pattern is only resolved once the router has run
		labels := []string{routePatternOrPath(r), r.Method, strconv.Itoa(status)}
		httpRequestsTotal.WithLabelValues(labels...).Inc()
		httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	})
}

// inflightMiddleware must be mounted inside a route group; at the top level
// the pattern is still empty.
func inflightMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g := httpInflight.WithLabelValues(routePatternOrPath(r))
		g.Inc()
		defer g.Dec()
		next.ServeHTTP(w, r)
	})
}

func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// IncrementRejected counts a control command rejected with a 4xx.
func IncrementRejected(reason string) {
	if reason == "" {
		reason = "unspecified"
	}
	rejectedTotal.WithLabelValues(reason).Inc()
}
