package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/errors"
)

func TestReadCanonicalColumns(t *testing.T) {
	src := strings.Join([]string{
		"title,year,genres,overview,language,poster_url",
		"Star Wars,1977,Sci-Fi,jedi knights in space,en,https://img.example/wars.jpg",
		"The Notebook,2004,Romance,an enduring love story,en,",
	}, "\n")

	c, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	e := c.EntryAt(0)
	if e.Title != "Star Wars" || e.Year != "1977" || e.Genres != "Sci-Fi" ||
		e.Overview != "jedi knights in space" || e.Language != "en" ||
		e.PosterURL != "https://img.example/wars.jpg" {
		t.Errorf("entry 0 = %+v", e)
	}
	if got := c.EntryAt(1).PosterURL; got != "" {
		t.Errorf("entry 1 poster = %q, want empty", got)
	}
}

func TestReadResolvesColumnAliases(t *testing.T) {
	src := strings.Join([]string{
		"movie_title,release_year,genre,plot,original_language,poster",
		"Interstellar,2014,Sci-Fi,astronauts travel through a wormhole,en,/abc.jpg",
	}, "\n")

	c, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	e := c.EntryAt(0)
	if e.Title != "Interstellar" {
		t.Errorf("Title = %q (movie_title alias not resolved)", e.Title)
	}
	if e.Year != "2014" {
		t.Errorf("Year = %q (release_year alias not resolved)", e.Year)
	}
	if e.Genres != "Sci-Fi" {
		t.Errorf("Genres = %q (genre alias not resolved)", e.Genres)
	}
	if e.Overview != "astronauts travel through a wormhole" {
		t.Errorf("Overview = %q (plot alias not resolved)", e.Overview)
	}
	if e.Language != "en" {
		t.Errorf("Language = %q (original_language alias not resolved)", e.Language)
	}
	if e.PosterURL != "/abc.jpg" {
		t.Errorf("PosterURL = %q (poster alias not resolved)", e.PosterURL)
	}
}

func TestReadHeaderIsCaseInsensitive(t *testing.T) {
	src := "Title, Overview\nStar Trek,space exploration"
	c, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := c.EntryAt(0).Title; got != "Star Trek" {
		t.Errorf("Title = %q", got)
	}
}

func TestReadMissingTitleColumn(t *testing.T) {
	src := "overview,genres\nsome plot,Drama"
	_, err := Read(strings.NewReader(src))
	if !errors.Is(err, apperrors.ErrSchema) {
		t.Errorf("err = %v, want ErrSchema", err)
	}
}

func TestReadMissingOptionalFieldsDefaultEmpty(t *testing.T) {
	src := "title\nStar Wars"
	c, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	e := c.EntryAt(0)
	if e.Overview != "" || e.Genres != "" || e.Year != "" || e.PosterURL != "" || e.Language != "" {
		t.Errorf("optional fields not empty: %+v", e)
	}
}

func TestRowOfDuplicateTitlesLastWins(t *testing.T) {
	c := New([]Entry{
		{Title: "Dune", Year: "1984"},
		{Title: "Dune", Year: "2021"},
	})
	row, ok := c.RowOf("dune")
	if !ok || row != 1 {
		t.Errorf("RowOf(dune) = (%d, %v), want (1, true)", row, ok)
	}
}

func TestRowOfIsCaseInsensitive(t *testing.T) {
	c := New([]Entry{{Title: "The Notebook"}})
	if _, ok := c.RowOf("THE NOTEBOOK"); !ok {
		t.Error("RowOf should match case-insensitively")
	}
	if _, ok := c.RowOf("missing"); ok {
		t.Error("RowOf matched a missing title")
	}
}

func TestDocumentsJoinTitleOverviewGenres(t *testing.T) {
	c := New([]Entry{{Title: "Star Wars", Overview: "space opera", Genres: "Sci-Fi"}})
	docs := c.Documents()
	if docs[0] != "Star Wars space opera Sci-Fi" {
		t.Errorf("document = %q", docs[0])
	}
}

func TestSetPosterURL(t *testing.T) {
	c := New([]Entry{{Title: "Star Wars"}})
	if err := c.SetPosterURL(0, "https://img.example/wars.jpg"); err != nil {
		t.Fatalf("SetPosterURL: %v", err)
	}
	if got := c.EntryAt(0).PosterURL; got != "https://img.example/wars.jpg" {
		t.Errorf("poster = %q", got)
	}
	if err := c.SetPosterURL(5, "x"); err == nil {
		t.Error("expected out-of-range error")
	}
	if err := c.SetPosterURL(-1, "x"); err == nil {
		t.Error("expected out-of-range error for negative index")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New([]Entry{{Title: "Star Wars"}})
	snap := c.Snapshot()
	snap[0].PosterURL = "mutated"
	if got := c.EntryAt(0).PosterURL; got != "" {
		t.Errorf("snapshot mutation leaked into catalog: %q", got)
	}
}

func TestCSVStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	c := New([]Entry{
		{Title: "Star Wars", Year: "1977", Genres: "Sci-Fi", Overview: "jedi, empires, and droids", Language: "en"},
		{Title: "The Notebook", Year: "2004", Genres: "Romance", Overview: "a love story", Language: "en", PosterURL: "https://img.example/n.jpg"},
	})

	store := CSVStore{Path: path}
	if err := store.Save(context.Background(), c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("reloaded Len() = %d, want 2", reloaded.Len())
	}
	got := reloaded.EntryAt(0)
	if got.Overview != "jedi, empires, and droids" {
		t.Errorf("comma-bearing overview did not survive the round trip: %q", got.Overview)
	}
	if reloaded.EntryAt(1).PosterURL != "https://img.example/n.jpg" {
		t.Errorf("poster lost in round trip")
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind after save")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing catalog file")
	}
}
