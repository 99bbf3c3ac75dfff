// Package metrics exposes the Prometheus collectors for the access services.
//
// Collectors are registered on an injected prometheus.Registerer so tests can
// use a private registry. All recording methods are safe on a nil *Metrics,
// which lets packages accept metrics as an optional dependency.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "glutenworld"

type Metrics struct {
	statusFetches    *prometheus.CounterVec
	gateDecisions    *prometheus.CounterVec
	trialChecks      *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	httpInFlight     prometheus.Gauge
	billingRedirects *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		statusFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "status",
			Name:      "fetch_total",
			Help:      "Commercial status queries by result",
		}, []string{"result"}),
		gateDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gate",
			Name:      "decisions_total",
			Help:      "Access gate decisions by outcome",
		}, []string{"outcome"}),
		trialChecks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trial",
			Name:      "checks_total",
			Help:      "Feature trial checks by result",
		}, []string{"result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		}),
		billingRedirects: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "billing",
			Name:      "links_total",
			Help:      "Checkout and portal links created by provider and kind",
		}, []string{"provider", "kind", "result"}),
	}
}

func (m *Metrics) StatusFetch(result string) {
	if m == nil {
		return
	}
	m.statusFetches.WithLabelValues(result).Inc()
}

func (m *Metrics) GateDecision(outcome string) {
	if m == nil {
		return
	}
	m.gateDecisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TrialCheck(result string) {
	if m == nil {
		return
	}
	m.trialChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) BillingLink(provider, kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.billingRedirects.WithLabelValues(provider, kind, result).Inc()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count, latency and in-flight requests keyed by
// the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := strconv.Itoa(wrapped.statusCode)

		m.httpRequests.WithLabelValues(r.Method, route, status).Inc()
		m.httpDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
