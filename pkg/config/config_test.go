package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Catalog.MaxFeatures != 20000 {
		t.Errorf("Catalog.MaxFeatures = %d, want 20000", cfg.Catalog.MaxFeatures)
	}
	if cfg.Recommend.DefaultTopN != 12 || cfg.Recommend.MaxTopN != 50 {
		t.Errorf("Recommend = %+v", cfg.Recommend)
	}
	if cfg.TMDB.MaxAttempts != 3 {
		t.Errorf("TMDB.MaxAttempts = %d, want 3", cfg.TMDB.MaxAttempts)
	}
	if cfg.TMDB.PacingDelay != time.Second || cfg.TMDB.FailureDelay != 2*time.Second {
		t.Errorf("TMDB delays = %v/%v", cfg.TMDB.PacingDelay, cfg.TMDB.FailureDelay)
	}
	if cfg.TMDB.RequestTimeout != 8*time.Second {
		t.Errorf("TMDB.RequestTimeout = %v, want 8s", cfg.TMDB.RequestTimeout)
	}
	if cfg.Postgres.Enabled {
		t.Error("Postgres.Enabled should default to false")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9999
catalog:
  path: /data/catalog.csv
backfill:
  limit: 50
  entryDelay: 500ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Catalog.Path != "/data/catalog.csv" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if cfg.Backfill.Limit != 50 || cfg.Backfill.EntryDelay != 500*time.Millisecond {
		t.Errorf("Backfill = %+v", cfg.Backfill)
	}
	// Untouched sections keep their defaults.
	if cfg.Recommend.DefaultTopN != 12 {
		t.Errorf("Recommend.DefaultTopN = %d, want default 12", cfg.Recommend.DefaultTopN)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TMDB_KEY", "secret-key")
	t.Setenv("MR_SERVER_PORT", "8888")
	t.Setenv("MR_CATALOG_PATH", "/tmp/movies.csv")
	t.Setenv("MR_KAFKA_BROKERS", "kafka1:9092,kafka2:9092")
	t.Setenv("MR_POSTGRES_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TMDB.APIKey != "secret-key" {
		t.Errorf("TMDB.APIKey = %q", cfg.TMDB.APIKey)
	}
	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Catalog.Path != "/tmp/movies.csv" {
		t.Errorf("Catalog.Path = %q", cfg.Catalog.Path)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka2:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
	if !cfg.Postgres.Enabled {
		t.Error("Postgres.Enabled override not applied")
	}
}

func TestAPIKeyNeverComesFromYAML(t *testing.T) {
	t.Setenv("TMDB_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tmdb:\n  apiKey: leaked\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TMDB.APIKey != "" {
		t.Errorf("TMDB.APIKey = %q, want empty (file values must be ignored)", cfg.TMDB.APIKey)
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "db.internal", Port: 5433, Database: "movierec",
		User: "svc", Password: "pw", SSLMode: "require",
	}
	want := "host=db.internal port=5433 user=svc password=pw dbname=movierec sslmode=require"
	if got := p.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
