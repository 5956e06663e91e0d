package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	apperrors "github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/errors"
)

// Column aliases, in resolution priority order. The first alias present in
// the source header wins; absent optional fields default to "".
var (
	titleAliases    = []string{"title", "movie_title", "name"}
	overviewAliases = []string{"overview", "description", "plot", "synopsis", "story"}
	genreAliases    = []string{"genres", "genre", "categories"}
	yearAliases     = []string{"year", "release_year", "release_date"}
	posterAliases   = []string{"poster_url", "poster", "image", "img"}
	languageAliases = []string{"language", "original_language"}
)

// Load reads the CSV catalog at path and builds a Catalog. A title column is
// mandatory; its absence is a schema error that should abort startup.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	slog.Default().With("component", "catalog").Info("catalog loaded",
		"path", path,
		"entries", c.Len(),
	)
	return c, nil
}

// Read parses a CSV catalog from r. Split out from Load for tests.
func Read(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	titleCol, ok := resolveColumn(columns, titleAliases)
	if !ok {
		return nil, apperrors.New(apperrors.ErrSchema, http.StatusInternalServerError,
			"no title column found in catalog source")
	}
	overviewCol, _ := resolveColumn(columns, overviewAliases)
	genreCol, _ := resolveColumn(columns, genreAliases)
	yearCol, _ := resolveColumn(columns, yearAliases)
	posterCol, _ := resolveColumn(columns, posterAliases)
	languageCol, _ := resolveColumn(columns, languageAliases)

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog row: %w", err)
		}
		entries = append(entries, Entry{
			Title:     field(record, titleCol),
			Year:      field(record, yearCol),
			Genres:    field(record, genreCol),
			Overview:  field(record, overviewCol),
			Language:  field(record, languageCol),
			PosterURL: field(record, posterCol),
		})
	}

	return New(entries), nil
}

// resolveColumn returns the index of the first alias present in the header.
func resolveColumn(columns map[string]int, aliases []string) (int, bool) {
	for _, alias := range aliases {
		if i, ok := columns[alias]; ok {
			return i, true
		}
	}
	return -1, false
}

func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return record[col]
}
