// Package metrics exposes the Prometheus instrumentation for the
// dashboard service: HTTP server metrics plus counters and gauges
// covering upstream health, mock fallbacks, refresh cycles, scans,
// signal routing and archiving.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// namespace prefixes every domain metric. HTTP server metrics keep the
// conventional unprefixed names.
const namespace = "tsd"

// Registry bundles the process-wide collectors. It embeds
// prometheus.Registry, so it can be gathered or served directly.
type Registry struct {
	*prometheus.Registry

	// request handling
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// dashboard domain
	upstreamRequests  *prometheus.CounterVec
	upstreamConnected prometheus.Gauge
	fallbackServed    *prometheus.CounterVec
	refreshCycles     prometheus.Counter
	refreshDuration   prometheus.Histogram
	staleDropped      prometheus.Counter
	scansTotal        *prometheus.CounterVec
	scanDuration      prometheus.Histogram
	jobsActive        *prometheus.GaugeVec
	signalsRouted     *prometheus.CounterVec
	archivesTotal     *prometheus.CounterVec
}

// NewRegistry builds a registry with every collector registered,
// including the Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Registry{
		Registry: reg,

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by method, path and status class",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),

		upstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Strategy API requests, by operation and outcome",
		}, []string{"operation", "outcome"}),
		upstreamConnected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_connected",
			Help:      "1 while live strategy API data is flowing, 0 when serving mock data",
		}),
		fallbackServed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_served_total",
			Help:      "Responses served from synthesized mock data",
		}, []string{"operation"}),
		refreshCycles: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_cycles_total",
			Help:      "Dashboard refresh cycles completed",
		}),
		refreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Dashboard refresh cycle duration",
			Buckets:   prometheus.DefBuckets,
		}),
		staleDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_refreshes_dropped_total",
			Help:      "Refresh results discarded because a newer snapshot was already committed",
		}),
		scansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Universe scans, by final status",
		}, []string{"status"}),
		scanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Universe scan duration",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		jobsActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_active",
			Help:      "Background jobs currently running, by type",
		}, []string{"type"}),
		signalsRouted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_routed_total",
			Help:      "Notifier deliveries attempted for routed signals",
		}, []string{"notifier", "status"}),
		archivesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archives_total",
			Help:      "Result archive writes, by backend and status",
		}, []string{"backend", "status"}),
	}
}

// Handler returns the scrape endpoint handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}

// RecordRequest counts a finished HTTP request and observes its duration.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	r.httpRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc marks an HTTP request as started.
func (r *Registry) InFlightInc() { r.httpRequestsInFlight.Inc() }

// InFlightDec marks an HTTP request as finished.
func (r *Registry) InFlightDec() { r.httpRequestsInFlight.Dec() }

// RecordUpstream counts one strategy API call.
func (r *Registry) RecordUpstream(operation string, ok bool) {
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	r.upstreamRequests.WithLabelValues(operation, outcome).Inc()
}

// SetUpstreamConnected publishes whether live data is flowing.
func (r *Registry) SetUpstreamConnected(connected bool) {
	v := 0.0
	if connected {
		v = 1
	}
	r.upstreamConnected.Set(v)
}

// RecordFallback counts a response served from synthesized mock data.
func (r *Registry) RecordFallback(operation string) {
	r.fallbackServed.WithLabelValues(operation).Inc()
}

// RecordRefresh counts a completed dashboard refresh cycle.
func (r *Registry) RecordRefresh(duration float64) {
	r.refreshCycles.Inc()
	r.refreshDuration.Observe(duration)
}

// RecordStaleDrop counts a refresh result rejected by the commit
// sequence check.
func (r *Registry) RecordStaleDrop() {
	r.staleDropped.Inc()
}

// RecordScan counts a universe scan and how long it took.
func (r *Registry) RecordScan(status string, duration float64) {
	r.scansTotal.WithLabelValues(status).Inc()
	r.scanDuration.Observe(duration)
}

// SetJobsActive publishes the number of live jobs of one type.
func (r *Registry) SetJobsActive(jobType string, count int) {
	r.jobsActive.WithLabelValues(jobType).Set(float64(count))
}

// RecordSignalRouted counts a notifier delivery attempt.
func (r *Registry) RecordSignalRouted(notifier, status string) {
	r.signalsRouted.WithLabelValues(notifier, status).Inc()
}

// RecordArchive counts a result archive write.
func (r *Registry) RecordArchive(backend, status string) {
	r.archivesTotal.WithLabelValues(backend, status).Inc()
}

// statusClass folds a status code into its class ("2xx", "5xx") to keep
// label cardinality bounded.
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
