package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors registered on a private registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CacheLookupsTotal   *prometheus.CounterVec
	UpstreamDuration    *prometheus.HistogramVec
	CacheInflightShared *prometheus.CounterVec
	DBQueryDuration     *prometheus.HistogramVec
	DBConnections       *prometheus.GaugeVec
}

// New creates and registers collectors under the given namespace
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "cache_lookups_total",
			Help:      "Cache reads by outcome",
		}, []string{"cache", "status", "source"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Latency of fetches against the booking API",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"resource", "outcome"}),
		CacheInflightShared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "cache_fetch_shared_total",
			Help:      "Fetches whose result was shared with concurrent callers",
		}, []string{"cache"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Latency of database queries",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "outcome"}),
		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: serviceName,
			Name:      "db_connections",
			Help:      "Database connection pool state",
		}, []string{"state"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.CacheLookupsTotal,
		m.UpstreamDuration,
		m.CacheInflightShared,
		m.DBQueryDuration,
		m.DBConnections,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one finished request
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveCacheLookup records the outcome of a cache read
func (m *Metrics) ObserveCacheLookup(cache, status, source string) {
	m.CacheLookupsTotal.WithLabelValues(cache, status, source).Inc()
}

// ObserveFetch records one upstream fetch
func (m *Metrics) ObserveFetch(resource string, err error, elapsed time.Duration) {
	m.UpstreamDuration.WithLabelValues(resource, outcome(err)).Observe(elapsed.Seconds())
}

// ObserveSharedFetch records a fetch that served more than one caller
func (m *Metrics) ObserveSharedFetch(cache string) {
	m.CacheInflightShared.WithLabelValues(cache).Inc()
}

// ObserveDBQuery records one database call
func (m *Metrics) ObserveDBQuery(operation string, err error, elapsed time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation, outcome(err)).Observe(elapsed.Seconds())
}

// SetDBPoolStats publishes a snapshot of the connection pool
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	m.DBConnections.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.DBConnections.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.DBConnections.WithLabelValues("idle").Set(float64(stats.Idle))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
