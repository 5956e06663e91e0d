// Package resolver fuzzy-matches free-text queries against catalog titles.
package resolver

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	apperrors "github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/errors"
)

// MinConfidentMatch is the fuzzy score at or above which a resolved title is
// trusted to drive ranking. Below it, callers must fall back to suggestions.
const MinConfidentMatch = 60

// Match is a resolved title with its fuzzy score (0-100).
type Match struct {
	Title string
	Score int
}

// Resolver resolves queries to catalog titles. It is an interface so an
// alternate backend (trigram index, phonetic matcher) can replace the
// edit-distance scan without touching the engine.
type Resolver interface {
	// Resolve returns the single best match for query. Fails with
	// ErrNoCatalog when there are no titles to match against.
	Resolve(query string) (Match, error)
	// Suggest returns up to limit titles ranked by descending fuzzy score,
	// ties broken by catalog order.
	Suggest(query string, limit int) []string
}

// LevenshteinResolver scores every catalog title with a normalized
// edit-distance ratio.
type LevenshteinResolver struct {
	titles []string
	folded []string
}

var _ Resolver = (*LevenshteinResolver)(nil)

// NewLevenshtein creates a resolver over titles in catalog order.
func NewLevenshtein(titles []string) *LevenshteinResolver {
	folded := make([]string, len(titles))
	for i, t := range titles {
		folded[i] = fold(t)
	}
	return &LevenshteinResolver{titles: titles, folded: folded}
}

// Resolve scans all titles and keeps the best score. On ties the earlier
// catalog entry wins, keeping resolution stable.
func (r *LevenshteinResolver) Resolve(query string) (Match, error) {
	if len(r.titles) == 0 {
		return Match{}, apperrors.ErrNoCatalog
	}
	q := fold(query)
	best := Match{Score: -1}
	for i, candidate := range r.folded {
		score := Ratio(q, candidate)
		if score > best.Score {
			best = Match{Title: r.titles[i], Score: score}
		}
	}
	return best, nil
}

// Suggest returns the top titles for query by descending score.
func (r *LevenshteinResolver) Suggest(query string, limit int) []string {
	if len(r.titles) == 0 || limit <= 0 {
		return nil
	}
	q := fold(query)
	scored := make([]Match, len(r.titles))
	for i, candidate := range r.folded {
		scored[i] = Match{Title: r.titles[i], Score: Ratio(q, candidate)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	titles := make([]string, len(scored))
	for i, m := range scored {
		titles[i] = m.Title
	}
	return titles
}

// Ratio is a 0-100 similarity score between two already-folded strings:
// 100 * (1 - editDistance / longerLength).
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	longer := len([]rune(a))
	if l := len([]rune(b)); l > longer {
		longer = l
	}
	if longer == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	score := 100 * (1 - float64(d)/float64(longer))
	if score < 0 {
		return 0
	}
	return int(math.Round(score))
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
