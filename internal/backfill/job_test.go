package backfill

import (
	"context"
	"errors"
	"testing"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/catalog"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/enrich"
)

// fakeEnricher returns canned posters keyed by title and records lookups.
type fakeEnricher struct {
	posters map[string]string
	looked  []string
}

func (f *fakeEnricher) Search(ctx context.Context, title, year string) *enrich.Metadata {
	f.looked = append(f.looked, title)
	poster, ok := f.posters[title]
	if !ok {
		return &enrich.Metadata{Title: title}
	}
	return &enrich.Metadata{Title: title, PosterURL: &poster}
}

// memStore records saves and optionally fails them.
type memStore struct {
	saves   int
	failErr error
	saved   []catalog.Entry
}

func (s *memStore) Save(ctx context.Context, c *catalog.Catalog) error {
	s.saves++
	if s.failErr != nil {
		return s.failErr
	}
	s.saved = c.Snapshot()
	return nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Entry{
		{Title: "Star Wars", Year: "1977"},
		{Title: "Star Trek", Year: "2009", PosterURL: "https://img.example/trek.jpg"},
		{Title: "The Notebook", Year: "2004"},
		{Title: "Interstellar", Year: "2014"},
	})
}

func TestRunFillsOnlyMissingPosters(t *testing.T) {
	cat := testCatalog()
	enricher := &fakeEnricher{posters: map[string]string{
		"Star Wars":    "https://img.example/wars.jpg",
		"Interstellar": "https://img.example/interstellar.jpg",
	}}
	store := &memStore{}

	job := New(cat, enricher, store, 0, WithPacer(nopPacer{}))
	summary := job.Run(context.Background(), 0)

	if summary.Considered != 3 {
		t.Errorf("Considered = %d, want 3", summary.Considered)
	}
	if summary.Filled != 2 {
		t.Errorf("Filled = %d, want 2", summary.Filled)
	}
	for _, title := range enricher.looked {
		if title == "Star Trek" {
			t.Error("already-filled entry was looked up")
		}
	}
	if got := cat.EntryAt(0).PosterURL; got != "https://img.example/wars.jpg" {
		t.Errorf("Star Wars poster = %q", got)
	}
	if got := cat.EntryAt(2).PosterURL; got != "" {
		t.Errorf("The Notebook poster = %q, want empty (no metadata)", got)
	}
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}
}

func TestRunStopsAtConsideredLimit(t *testing.T) {
	cat := testCatalog()
	enricher := &fakeEnricher{posters: map[string]string{}}
	job := New(cat, enricher, &memStore{}, 0, WithPacer(nopPacer{}))

	summary := job.Run(context.Background(), 2)

	// The limit counts entries looked up, not entries filled.
	if summary.Considered != 2 {
		t.Errorf("Considered = %d, want 2", summary.Considered)
	}
	if len(enricher.looked) != 2 {
		t.Errorf("enricher saw %d lookups, want 2", len(enricher.looked))
	}
	if enricher.looked[0] != "Star Wars" || enricher.looked[1] != "The Notebook" {
		t.Errorf("lookups out of catalog order: %v", enricher.looked)
	}
}

func TestRunSwallowsPersistFailure(t *testing.T) {
	cat := testCatalog()
	enricher := &fakeEnricher{posters: map[string]string{
		"Star Wars": "https://img.example/wars.jpg",
	}}
	store := &memStore{failErr: errors.New("disk full")}

	job := New(cat, enricher, store, 0, WithPacer(nopPacer{}))
	summary := job.Run(context.Background(), 0)

	if summary.Filled != 1 {
		t.Errorf("Filled = %d, want 1", summary.Filled)
	}
	// In-memory updates survive the failed save.
	if got := cat.EntryAt(0).PosterURL; got != "https://img.example/wars.jpg" {
		t.Errorf("poster lost after persist failure: %q", got)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cat := testCatalog()
	enricher := &fakeEnricher{posters: map[string]string{
		"Star Wars":    "https://img.example/wars.jpg",
		"The Notebook": "https://img.example/notebook.jpg",
		"Interstellar": "https://img.example/interstellar.jpg",
	}}
	job := New(cat, enricher, &memStore{}, 0, WithPacer(nopPacer{}))

	first := job.Run(context.Background(), 0)
	if first.Filled != 3 {
		t.Fatalf("first run Filled = %d, want 3", first.Filled)
	}

	second := job.Run(context.Background(), 0)
	if second.Considered != 0 || second.Filled != 0 {
		t.Errorf("second run = %+v, want all entries skipped", second)
	}
}

func TestRunWithoutStore(t *testing.T) {
	cat := testCatalog()
	enricher := &fakeEnricher{posters: map[string]string{}}
	job := New(cat, enricher, nil, 0, WithPacer(nopPacer{}))

	summary := job.Run(context.Background(), 0)
	if summary.Considered != 3 {
		t.Errorf("Considered = %d, want 3", summary.Considered)
	}
}
