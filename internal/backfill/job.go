// Package backfill batch-fills missing poster artwork by driving the
// metadata enricher over catalog entries and persisting the result.
package backfill

import (
	"context"
	"log/slog"
	"time"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/analytics"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/catalog"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/enrich"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/metrics"
	"golang.org/x/time/rate"
)

// Pacer bounds the rate of successive entry lookups. rate.Limiter satisfies
// it; tests substitute a no-op.
type Pacer interface {
	Wait(ctx context.Context) error
}

type nopPacer struct{}

func (nopPacer) Wait(context.Context) error { return nil }

// Summary reports what a run did.
type Summary struct {
	Considered int `json:"considered"`
	Filled     int `json:"filled"`
}

// Job fills missing posters in catalog order. It is the single writer for
// poster URLs: never run two jobs (or a job and any other poster writer)
// concurrently against the same catalog.
type Job struct {
	catalog   *catalog.Catalog
	enricher  enrich.Enricher
	store     catalog.Store
	pacer     Pacer
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Job.
type Option func(*Job)

// WithPacer overrides the inter-entry pacer. The default allows one entry
// per second; this delay is separate from the enricher's own per-attempt
// pacing.
func WithPacer(p Pacer) Option {
	return func(j *Job) {
		if p != nil {
			j.pacer = p
		}
	}
}

// WithCollector publishes run summaries as backfill events.
func WithCollector(c *analytics.Collector) Option {
	return func(j *Job) {
		j.collector = c
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(j *Job) {
		j.metrics = m
	}
}

// New creates a Job with the given entry delay between successive lookups.
func New(cat *catalog.Catalog, enricher enrich.Enricher, store catalog.Store, entryDelay time.Duration, opts ...Option) *Job {
	var pacer Pacer = nopPacer{}
	if entryDelay > 0 {
		pacer = rate.NewLimiter(rate.Every(entryDelay), 1)
	}
	j := &Job{
		catalog:  cat,
		enricher: enricher,
		store:    store,
		pacer:    pacer,
		logger:   slog.Default().With("component", "poster-backfill"),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run scans entries missing a poster, in catalog order, stopping once limit
// entries have been considered (looked up, whether or not a poster was
// found). Finds are written in place through the catalog's guarded setter.
// The full catalog is persisted afterwards; a persistence failure is logged
// and swallowed, so the in-memory state still reflects the updates. Re-runs
// are idempotent: filled entries are skipped.
func (j *Job) Run(ctx context.Context, limit int) Summary {
	start := time.Now()
	var summary Summary

	for i, entry := range j.catalog.Snapshot() {
		if entry.PosterURL != "" {
			continue
		}
		if limit > 0 && summary.Considered >= limit {
			break
		}
		if err := j.pacer.Wait(ctx); err != nil {
			j.logger.Warn("backfill cancelled", "error", err)
			break
		}

		summary.Considered++
		if j.metrics != nil {
			j.metrics.BackfillConsidered.Inc()
		}

		meta := j.enricher.Search(ctx, entry.Title, entry.Year)
		if meta == nil || meta.PosterURL == nil {
			j.logger.Debug("no poster found", "title", entry.Title, "year", entry.Year)
			continue
		}
		if err := j.catalog.SetPosterURL(i, *meta.PosterURL); err != nil {
			j.logger.Error("poster write failed", "title", entry.Title, "error", err)
			continue
		}
		summary.Filled++
		if j.metrics != nil {
			j.metrics.BackfillFilled.Inc()
		}
		j.logger.Info("poster filled", "title", entry.Title, "poster_url", *meta.PosterURL)
	}

	j.persist(ctx)

	elapsed := time.Since(start)
	j.logger.Info("backfill run complete",
		"considered", summary.Considered,
		"filled", summary.Filled,
		"elapsed", elapsed.Round(time.Millisecond),
	)
	if j.collector != nil {
		j.collector.Track(analytics.BackfillEvent{
			Type:       analytics.EventBackfillRun,
			Considered: summary.Considered,
			Filled:     summary.Filled,
			DurationMs: elapsed.Milliseconds(),
			Timestamp:  time.Now().UTC(),
		})
	}
	return summary
}

// persist saves the full catalog. Failures do not abort the run: the batch
// already updated in-memory state, and the next successful run will persist
// everything again.
func (j *Job) persist(ctx context.Context) {
	if j.store == nil {
		return
	}
	if err := j.store.Save(ctx, j.catalog); err != nil {
		j.logger.Error("catalog persist failed, keeping in-memory updates", "error", err)
	}
}
