package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ukydev/vessel-ops/internal/models"
)

// Metrics owns the service's Prometheus registry and collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	summaries       *prometheus.CounterVec
	trips           prometheus.Counter
	serviceLogs     *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"method", "route", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		summaries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maintenance_summaries_total",
				Help: "Computed vessel maintenance summaries by overall status",
			},
			[]string{"status"},
		),
		trips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vessel_trips_completed_total",
			Help: "Completed fishing trips",
		}),
		serviceLogs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "maintenance_logs_total",
				Help: "Recorded maintenance services by system",
			},
			[]string{"system_id"},
		),
	}
	registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.summaries,
		m.trips,
		m.serviceLogs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SummaryComputed counts a computed summary.
func (m *Metrics) SummaryComputed(status models.Status) {
	m.summaries.WithLabelValues(string(status)).Inc()
}

// TripCompleted counts a completed trip.
func (m *Metrics) TripCompleted() {
	m.trips.Inc()
}

// ServiceLogged counts a recorded maintenance service.
func (m *Metrics) ServiceLogged(systemID string) {
	m.serviceLogs.WithLabelValues(systemID).Inc()
}

// Router resolves the route pattern a request will be dispatched to.
// *http.ServeMux satisfies it.
type Router interface {
	Handler(r *http.Request) (h http.Handler, pattern string)
}

// Middleware records request counts and latency labelled by route pattern,
// so path parameters do not blow up label cardinality.
func (m *Metrics) Middleware(router Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, route := router.Handler(r)
			if route == "" {
				route = "unmatched"
			}
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
