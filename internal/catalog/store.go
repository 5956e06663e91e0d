package catalog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/postgres"
)

// Store persists a full catalog snapshot to durable storage. Backfill calls
// Save after each run; callers treat failures as non-fatal.
type Store interface {
	Save(ctx context.Context, c *Catalog) error
}

// CSVStore rewrites the catalog back to its CSV source with canonical column
// names. This mirrors the original load-modify-save flow when no database is
// configured.
type CSVStore struct {
	Path string
}

var csvHeader = []string{"title", "year", "genres", "overview", "language", "poster_url"}

// Save writes the full catalog to the configured path atomically (temp file
// plus rename).
func (s CSVStore) Save(ctx context.Context, c *Catalog) error {
	tmp := s.Path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range c.Snapshot() {
		record := []string{e.Title, e.Year, e.Genres, e.Overview, e.Language, e.PosterURL}
		if err := w.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("writing row for %q: %w", e.Title, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.Path, err)
	}
	return nil
}

// PostgresStore upserts catalog entries keyed by their catalog position.
//
// It requires a `catalog_entries` table:
//
//	CREATE TABLE catalog_entries (
//	    position   INT PRIMARY KEY,
//	    title      TEXT NOT NULL,
//	    year       TEXT NOT NULL DEFAULT '',
//	    genres     TEXT NOT NULL DEFAULT '',
//	    overview   TEXT NOT NULL DEFAULT '',
//	    language   TEXT NOT NULL DEFAULT '',
//	    poster_url TEXT NOT NULL DEFAULT '',
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresStore struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(db *postgres.Client) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: slog.Default().With("component", "catalog-store"),
	}
}

// Save upserts every entry inside a single transaction.
func (s *PostgresStore) Save(ctx context.Context, c *Catalog) error {
	entries := c.Snapshot()
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO catalog_entries (position, title, year, genres, overview, language, poster_url, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			ON CONFLICT (position) DO UPDATE SET
				title = EXCLUDED.title,
				year = EXCLUDED.year,
				genres = EXCLUDED.genres,
				overview = EXCLUDED.overview,
				language = EXCLUDED.language,
				poster_url = EXCLUDED.poster_url,
				updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("preparing upsert: %w", err)
		}
		defer stmt.Close()
		for i, e := range entries {
			if _, err := stmt.ExecContext(ctx, i, e.Title, e.Year, e.Genres, e.Overview, e.Language, e.PosterURL); err != nil {
				return fmt.Errorf("upserting entry %d (%q): %w", i, e.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("catalog persisted", "entries", len(entries))
	return nil
}
