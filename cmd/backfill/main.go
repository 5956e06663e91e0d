// Command backfill runs one poster backfill pass over the catalog and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/analytics"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/backfill"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/catalog"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/enrich"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/config"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/kafka"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/logger"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	limit := flag.Int("limit", 0, "max entries to consider (0 uses the configured limit)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting poster backfill", "catalog", cfg.Catalog.Path)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	enricher := enrich.NewClient(cfg.TMDB)
	if !enricher.Configured() {
		slog.Warn("TMDB_KEY not set, run will consider entries but fill nothing")
	}

	var store catalog.Store
	if cfg.Postgres.Enabled {
		db, err := postgres.New(cfg.Postgres)
		if err != nil {
			slog.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = catalog.NewPostgresStore(db)
	} else {
		store = catalog.CSVStore{Path: cfg.Catalog.Path}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.BackfillEvents)
	collector := analytics.NewCollector(producer, 100)
	collector.Start(ctx)
	defer collector.Close()

	runLimit := cfg.Backfill.Limit
	if *limit > 0 {
		runLimit = *limit
	}

	job := backfill.New(cat, enricher, store, cfg.Backfill.EntryDelay,
		backfill.WithCollector(collector),
	)
	summary := job.Run(ctx, runLimit)

	fmt.Printf("considered=%d filled=%d\n", summary.Considered, summary.Filled)
}
