// Package metrics provides Prometheus metrics for the interactions service.
// Besides the usual HTTP request counters it tracks how resolutions are
// answered (which tier matched) and the state of the loaded corpus.
//
// All metrics register with the Prometheus default registry during package
// initialization and are served by the /metrics endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Server-side view of the HTTP traffic.
var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "HTTP requests processed, by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency distribution",
			// Resolution is an in-memory lookup, most requests land
			// well under a millisecond.
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Requests currently being served",
		},
	)

	LimiterBuckets = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Active rate limiter buckets, one per recently seen client",
		},
	)
)

// Resolution engine and corpus state.
var (
	// ResolveOutcomes counts ResolveExact calls by the tier that answered:
	// exact, alias, token, scan or miss.
	ResolveOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolve_requests_total",
			Help: "Name resolutions by matching tier",
		},
		[]string{"outcome"},
	)

	SearchRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Fuzzy search requests",
		},
	)

	CorpusLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "corpus_load_duration_seconds",
			Help:    "Time spent fetching and indexing the corpus",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	CorpusRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_records",
			Help: "Interaction records in the loaded corpus",
		},
	)

	CorpusPairs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_pairs",
			Help: "Drug-drug pair entries in the loaded corpus",
		},
	)

	CorpusLoadedAt = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "corpus_loaded_timestamp_seconds",
			Help: "Unix time of the corpus load, 0 while unloaded",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestLatency,
		RequestsInFlight,
		LimiterBuckets,
		ResolveOutcomes,
		SearchRequests,
		CorpusLoadDuration,
		CorpusRecords,
		CorpusPairs,
		CorpusLoadedAt,
	)
}
