// Package metrics defines the Prometheus metric collectors used across the
// platform and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the platform.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	RecommendTotal       *prometheus.CounterVec
	RecommendLatency     *prometheus.HistogramVec
	FuzzyMatchScore      prometheus.Histogram
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	EnrichAttemptsTotal  *prometheus.CounterVec
	EnrichLookupsTotal   *prometheus.CounterVec
	BackfillConsidered   prometheus.Counter
	BackfillFilled       prometheus.Counter
	CatalogEntries       prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		RecommendTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recommend_queries_total",
				Help: "Total recommendation queries by outcome (ok, empty_query, no_match, not_indexed).",
			},
			[]string{"outcome"},
		),
		RecommendLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "recommend_latency_seconds",
				Help:    "Recommendation query latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"cache_status"},
		),
		FuzzyMatchScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fuzzy_match_score",
				Help:    "Best fuzzy match score per resolved query (0-100).",
				Buckets: []float64{0, 20, 40, 60, 70, 80, 90, 95, 100},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of recommendation cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of recommendation cache misses.",
			},
		),
		EnrichAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enrich_attempts_total",
				Help: "Metadata-service request attempts by result (ok, http_error, transport_error).",
			},
			[]string{"result"},
		),
		EnrichLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "enrich_lookups_total",
				Help: "Completed enrichment lookups by outcome (found, absent, no_credential).",
			},
			[]string{"outcome"},
		),
		BackfillConsidered: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "backfill_entries_considered_total",
				Help: "Catalog entries considered by the poster backfill job.",
			},
		),
		BackfillFilled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "backfill_posters_filled_total",
				Help: "Posters written by the poster backfill job.",
			},
		),
		CatalogEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "catalog_entries",
				Help: "Number of entries in the loaded catalog.",
			},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.RecommendTotal,
		m.RecommendLatency,
		m.FuzzyMatchScore,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.EnrichAttemptsTotal,
		m.EnrichLookupsTotal,
		m.BackfillConsidered,
		m.BackfillFilled,
		m.CatalogEntries,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
