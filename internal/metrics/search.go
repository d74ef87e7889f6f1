// Package metrics defines the Prometheus instrumentation for the search
// pipeline, the embedding provider, and the HTTP layer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"tier", "cached"},
	)

	SearchStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contactsearch",
			Name:      "search_stage_duration_seconds",
			Help:      "Search pipeline stage duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"stage"},
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactsearch",
			Name:      "result_cache_total",
			Help:      "Result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	IndexBuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "contactsearch",
			Name:      "index_builds_total",
			Help:      "Total number of index snapshot builds",
		},
	)

	IndexBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "contactsearch",
			Name:      "index_build_duration_seconds",
			Help:      "Index snapshot build duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	IndexedContacts = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "contactsearch",
			Name:      "indexed_contacts",
			Help:      "Number of contacts in the active snapshot per tenant",
		},
		[]string{"tenant"},
	)
)

// Embedding provider metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactsearch",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contactsearch",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactsearch",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model"},
	)
)

// Register registers all pipeline and embedding metrics explicitly (no init()).
func Register() {
	prometheus.MustRegister(
		SearchRequestsTotal,
		SearchStageDuration,
		ResultCacheTotal,
		IndexBuildsTotal,
		IndexBuildDuration,
		IndexedContacts,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingTokensTotal,
	)
}
