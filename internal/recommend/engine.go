// Package recommend orchestrates title resolution and the similarity index
// into ranked recommendation results.
package recommend

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/catalog"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/resolver"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/similarity"
)

// User-facing messages for the three failure modes. The engine never returns
// a raw error to its caller; it always produces a readable tri-state Result.
const (
	msgEmptyQuery    = "Please enter a movie name."
	msgNotInIndex    = "Matched title not found."
	suggestionsInErr = 5
)

// Recommendation is one ranked result row.
type Recommendation struct {
	Title     string  `json:"title"`
	Genres    string  `json:"genres"`
	PosterURL *string `json:"poster_url"`
	Year      string  `json:"year"`
	Score     float64 `json:"score"`
}

// Result is the tri-state outcome of a recommendation query. Error and
// non-empty Results are mutually exclusive: when Error is set, Results is
// empty and MatchedTitle is "".
type Result struct {
	Results      []Recommendation `json:"results"`
	MatchedTitle string           `json:"matched_title,omitempty"`
	Error        string           `json:"error,omitempty"`
	FuzzyScore   int              `json:"-"`
}

// Engine serves recommendation queries against a catalog built once at
// startup. All reads are safe for concurrent use.
type Engine struct {
	catalog  *catalog.Catalog
	index    similarity.VectorIndex
	resolver resolver.Resolver
	logger   *slog.Logger
}

// New creates an Engine.
func New(cat *catalog.Catalog, index similarity.VectorIndex, res resolver.Resolver) *Engine {
	return &Engine{
		catalog:  cat,
		index:    index,
		resolver: res,
		logger:   slog.Default().With("component", "recommend-engine"),
	}
}

// Recommend resolves query to a catalog title and returns the topN most
// similar entries, excluding the matched entry itself.
func (e *Engine) Recommend(ctx context.Context, query string, topN int) Result {
	if strings.TrimSpace(query) == "" {
		return Result{Results: []Recommendation{}, Error: msgEmptyQuery}
	}

	match, err := e.resolver.Resolve(query)
	if err != nil {
		e.logger.Error("title resolution failed", "query", query, "error", err)
		return Result{Results: []Recommendation{}, Error: msgNotInIndex}
	}
	if match.Score < resolver.MinConfidentMatch {
		suggestions := e.resolver.Suggest(query, suggestionsInErr)
		return Result{
			Results:    []Recommendation{},
			Error:      "No close match found. Did you mean: " + strings.Join(suggestions, ", ") + "?",
			FuzzyScore: match.Score,
		}
	}

	row, ok := e.catalog.RowOf(match.Title)
	if !ok {
		// Defensive: a confident match must exist in the index built from
		// the same snapshot.
		e.logger.Error("matched title missing from index", "title", match.Title)
		return Result{Results: []Recommendation{}, Error: msgNotInIndex, FuzzyScore: match.Score}
	}

	pairs := e.index.SimilarityRow(row)
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})

	results := make([]Recommendation, 0, topN)
	for _, pair := range pairs {
		if pair.Index == row {
			// Self-similarity is always the maximum; it never appears in
			// the output.
			continue
		}
		if len(results) >= topN {
			break
		}
		entry := e.catalog.EntryAt(pair.Index)
		results = append(results, Recommendation{
			Title:     entry.Title,
			Genres:    entry.Genres,
			PosterURL: nullable(entry.PosterURL),
			Year:      entry.Year,
			Score:     math.Round(pair.Score*1000) / 1000,
		})
	}

	return Result{
		Results:      results,
		MatchedTitle: match.Title,
		FuzzyScore:   match.Score,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
