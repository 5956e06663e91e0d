package analytics

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/kafka"
)

// AggregatedStats is the rolled-up view served by the stats endpoint.
type AggregatedStats struct {
	TotalQueries     int64        `json:"total_queries"`
	NoMatchCount     int64        `json:"no_match_count"`
	EmptyQueryCount  int64        `json:"empty_query_count"`
	CacheHits        int64        `json:"cache_hits"`
	CacheMisses      int64        `json:"cache_misses"`
	PostersFilled    int64        `json:"posters_filled"`
	BackfillRuns     int64        `json:"backfill_runs"`
	AvgLatencyMs     float64      `json:"avg_latency_ms"`
	P50LatencyMs     int64        `json:"p50_latency_ms"`
	P95LatencyMs     int64        `json:"p95_latency_ms"`
	TopQueries       []QueryCount `json:"top_queries"`
	NoMatchQueries   []QueryCount `json:"no_match_queries"`
	QueriesPerMinute float64      `json:"queries_per_minute"`
}

// QueryCount pairs a query string with its occurrence count.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator consumes analytics events from Kafka and maintains in-memory
// rollups.
type Aggregator struct {
	mu             sync.RWMutex
	totalQueries   atomic.Int64
	noMatch        atomic.Int64
	emptyQueries   atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	postersFilled  atomic.Int64
	backfillRuns   atomic.Int64
	latencies      []int64
	queryCounts    map[string]int64
	noMatchQueries map[string]int64
	startTime      time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

// NewAggregator creates an Aggregator fed by the given consumer.
func NewAggregator(consumer *kafka.Consumer) *Aggregator {
	return &Aggregator{
		latencies:      make([]int64, 0, 10000),
		queryCounts:    make(map[string]int64),
		noMatchQueries: make(map[string]int64),
		startTime:      time.Now(),
		consumer:       consumer,
		logger:         slog.Default().With("component", "analytics-aggregator"),
	}
}

// Start enters the consume loop until ctx is cancelled.
func (a *Aggregator) Start(ctx context.Context) error {
	a.logger.Info("analytics aggregator starting")
	return a.consumer.Start(ctx)
}

// HandleEvent returns a kafka.MessageHandler that records events into agg.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[QueryEvent](value)
		if err == nil && event.Type != EventBackfillRun && event.Type != "" {
			agg.RecordQueryEvent(event)
			return nil
		}
		bfEvent, bfErr := kafka.DecodeJSON[BackfillEvent](value)
		if bfErr == nil && bfEvent.Type == EventBackfillRun {
			agg.RecordBackfillEvent(bfEvent)
			return nil
		}
		agg.logger.Error("unrecognized analytics event", "decode_error", err)
		return nil
	}
}

// RecordQueryEvent folds a single query event into the rollups.
func (a *Aggregator) RecordQueryEvent(event QueryEvent) {
	a.totalQueries.Add(1)

	switch event.Type {
	case EventNoMatch:
		a.noMatch.Add(1)
	case EventEmptyQuery:
		a.emptyQueries.Add(1)
	}
	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	if event.Query != "" {
		a.queryCounts[event.Query]++
		if event.Type == EventNoMatch {
			a.noMatchQueries[event.Query]++
		}
	}
	a.mu.Unlock()
}

// RecordBackfillEvent folds a backfill run summary into the rollups.
func (a *Aggregator) RecordBackfillEvent(event BackfillEvent) {
	a.backfillRuns.Add(1)
	a.postersFilled.Add(int64(event.Filled))
}

// Stats returns a snapshot of the current rollups.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalQueries:    a.totalQueries.Load(),
		NoMatchCount:    a.noMatch.Load(),
		EmptyQueryCount: a.emptyQueries.Load(),
		CacheHits:       a.cacheHits.Load(),
		CacheMisses:     a.cacheMisses.Load(),
		PostersFilled:   a.postersFilled.Load(),
		BackfillRuns:    a.backfillRuns.Load(),
	}
	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
	}
	stats.TopQueries = topN(a.queryCounts, 10)
	stats.NoMatchQueries = topN(a.noMatchQueries, 10)
	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalQueries) / elapsed
	}

	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
