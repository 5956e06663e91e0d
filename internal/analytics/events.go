// Package analytics tracks recommendation query and backfill events,
// publishes them to Kafka, and aggregates them into serving stats.
package analytics

import "time"

type EventType string

const (
	EventRecommend   EventType = "recommend"
	EventNoMatch     EventType = "no_match"
	EventEmptyQuery  EventType = "empty_query"
	EventBackfillRun EventType = "backfill_run"
)

// QueryEvent captures one recommendation request.
type QueryEvent struct {
	Type         EventType `json:"type"`
	Query        string    `json:"query"`
	MatchedTitle string    `json:"matched_title,omitempty"`
	FuzzyScore   int       `json:"fuzzy_score"`
	Returned     int       `json:"returned"`
	LatencyMs    int64     `json:"latency_ms"`
	CacheHit     bool      `json:"cache_hit"`
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id"`
}

// BackfillEvent captures one poster backfill run.
type BackfillEvent struct {
	Type       EventType `json:"type"`
	Considered int       `json:"considered"`
	Filled     int       `json:"filled"`
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}
