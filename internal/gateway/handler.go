// Package gateway exposes the HTTP API: recommendations, suggestions,
// on-demand enrichment, analytics stats, and cache operations.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/analytics"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/enrich"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/recommend"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/resolver"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/config"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/logger"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/metrics"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/middleware"
)

// RecommendEngine is the query capability the handler depends on.
type RecommendEngine interface {
	Recommend(ctx context.Context, query string, topN int) recommend.Result
}

// Handler holds the request-layer dependencies.
type Handler struct {
	engine    RecommendEngine
	resolver  resolver.Resolver
	enricher  enrich.Enricher
	cache     *recommend.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	cfg       config.RecommendConfig
	logger    *slog.Logger
}

// New creates a Handler. cache, collector, and m may be nil; the affected
// features degrade quietly.
func New(
	engine RecommendEngine,
	res resolver.Resolver,
	enricher enrich.Enricher,
	cache *recommend.QueryCache,
	collector *analytics.Collector,
	m *metrics.Metrics,
	cfg config.RecommendConfig,
) *Handler {
	return &Handler{
		engine:    engine,
		resolver:  res,
		enricher:  enricher,
		cache:     cache,
		collector: collector,
		metrics:   m,
		cfg:       cfg,
		logger:    slog.Default().With("component", "gateway"),
	}
}

// Recommend serves GET /api/recommend?q=<query>&n=<topN>.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	topN := h.cfg.DefaultTopN
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		parsed, err := strconv.Atoi(nStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		if parsed > h.cfg.MaxTopN {
			parsed = h.cfg.MaxTopN
		}
		topN = parsed
	}

	var result *recommend.Result
	cacheHit := false
	if h.cache != nil && strings.TrimSpace(query) != "" {
		result, cacheHit = h.cache.GetOrCompute(ctx, query, topN, func() *recommend.Result {
			r := h.engine.Recommend(ctx, query, topN)
			return &r
		})
	} else {
		r := h.engine.Recommend(ctx, query, topN)
		result = &r
	}

	latencyMs := time.Since(start).Milliseconds()
	outcome := h.classify(result)
	h.observe(result, outcome, cacheHit, start)

	log.Info("recommend completed",
		"query", query,
		"matched_title", result.MatchedTitle,
		"returned", len(result.Results),
		"outcome", outcome,
		"cache_hit", cacheHit,
		"latency_ms", latencyMs,
	)
	if h.collector != nil {
		h.collector.Track(analytics.QueryEvent{
			Type:         eventType(outcome),
			Query:        query,
			MatchedTitle: result.MatchedTitle,
			FuzzyScore:   result.FuzzyScore,
			Returned:     len(result.Results),
			LatencyMs:    latencyMs,
			CacheHit:     cacheHit,
			Timestamp:    time.Now().UTC(),
			RequestID:    middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Suggest serves GET /api/suggest?q=<query>&limit=<n>.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit := h.cfg.SuggestLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	suggestions := h.resolver.Suggest(query, limit)
	if suggestions == nil {
		suggestions = []string{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"query":       query,
		"suggestions": suggestions,
	})
}

// Enrich serves GET /api/enrich?title=<title>&year=<year>. It is invoked
// independently of Recommend for on-demand single-title lookups.
func (h *Handler) Enrich(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if strings.TrimSpace(title) == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'title' is required")
		return
	}
	year := r.URL.Query().Get("year")

	meta := h.enricher.Search(r.Context(), title, year)
	if meta == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"found": false})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"found":    true,
		"metadata": meta,
	})
}

// CacheStats serves GET /api/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate serves POST /api/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) classify(result *recommend.Result) string {
	switch {
	case result.Error == "":
		return "ok"
	case strings.HasPrefix(result.Error, "Please enter"):
		return "empty_query"
	case strings.HasPrefix(result.Error, "No close match"):
		return "no_match"
	default:
		return "not_indexed"
	}
}

func (h *Handler) observe(result *recommend.Result, outcome string, cacheHit bool, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecommendTotal.WithLabelValues(outcome).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.RecommendLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	if outcome != "empty_query" && !cacheHit {
		h.metrics.FuzzyMatchScore.Observe(float64(result.FuzzyScore))
	}
}

func eventType(outcome string) analytics.EventType {
	switch outcome {
	case "empty_query":
		return analytics.EventEmptyQuery
	case "no_match", "not_indexed":
		return analytics.EventNoMatch
	default:
		return analytics.EventRecommend
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
