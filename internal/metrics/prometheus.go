package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gophnotes"

// PrometheusRecorder exports metrics through its own prometheus registry
type PrometheusRecorder struct {
	registry        *prometheus.Registry
	usersRegistered prometheus.Counter
	logins          *prometheus.CounterVec
	notesCreated    prometheus.Counter
	notesShared     prometheus.Counter
	aclCache        *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewPrometheus creates a recorder and registers its collectors
func NewPrometheus() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total number of registered users",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),
		notesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notes_created_total",
			Help:      "Total number of created notes",
		}),
		notesShared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notes_shared_total",
			Help:      "Total number of created share grants",
		}),
		aclCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "acl_cache_lookups_total",
			Help:      "Note access-list cache lookups by result",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		r.usersRegistered,
		r.logins,
		r.notesCreated,
		r.notesShared,
		r.aclCache,
		r.httpRequests,
		r.httpDuration,
		prometheus.NewGoCollector(),
	)

	return r
}

// Handler returns the /metrics endpoint for this registry
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *PrometheusRecorder) IncUserRegistered() {
	r.usersRegistered.Inc()
}

func (r *PrometheusRecorder) IncLogin(result string) {
	r.logins.WithLabelValues(result).Inc()
}

func (r *PrometheusRecorder) IncNoteCreated() {
	r.notesCreated.Inc()
}

func (r *PrometheusRecorder) IncNoteShared() {
	r.notesShared.Inc()
}

func (r *PrometheusRecorder) IncACLCache(result string) {
	r.aclCache.WithLabelValues(result).Inc()
}

func (r *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
