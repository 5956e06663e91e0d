package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/analytics"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/catalog"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/enrich"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/gateway"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/recommend"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/resolver"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/internal/similarity"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/config"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/health"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/kafka"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/logger"
	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/metrics"
	pkgredis "github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting recommendation service", "port", cfg.Server.Port, "catalog", cfg.Catalog.Path)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.CatalogEntries.Set(float64(cat.Len()))
	}

	index := similarity.Build(cat.Documents(), cfg.Catalog.MaxFeatures)
	res := resolver.NewLevenshtein(cat.Titles())
	engine := recommend.New(cat, index, res)

	var queryCache *recommend.QueryCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, recommendation caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = recommend.NewCache(redisClient, cfg.Redis)
		slog.Info("recommendation cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents)
	collector := analytics.NewCollector(producer, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.QueryEvents)

	var aggregator *analytics.Aggregator
	consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.QueryEvents, func(ctx context.Context, key, value []byte) error {
		return analytics.HandleEvent(aggregator)(ctx, key, value)
	})
	aggregator = analytics.NewAggregator(consumer)
	statsHandler := analytics.NewHandler(aggregator)

	go func() {
		if err := aggregator.Start(ctx); err != nil {
			slog.Error("analytics aggregator error", "error", err)
		}
	}()
	slog.Info("analytics aggregator started")

	enricher := enrich.NewClient(cfg.TMDB, enrich.WithMetrics(m))
	if !enricher.Configured() {
		slog.Warn("TMDB_KEY not set, /api/enrich will return absent results")
	}

	checker := health.NewChecker()
	checker.Register("catalog", func(ctx context.Context) health.ComponentHealth {
		if cat.Len() > 0 {
			return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d entries", cat.Len())}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "empty catalog"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("tmdb", func(ctx context.Context) health.ComponentHealth {
		if !enricher.Configured() {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "no credential"}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := shutdownMetrics(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	h := gateway.New(engine, res, enricher, queryCache, collector, m, cfg.Recommend)
	chain := gateway.NewRouter(h, statsHandler, checker, m, cfg.Server.RequestTimeout)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("recommendation service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("recommendation service stopped")
}
