// Package config loads and validates application configuration from YAML
// files with environment-variable overrides. It provides typed structs for
// every subsystem (Server, Catalog, Recommend, TMDB, Backfill, Redis, etc.).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Recommend RecommendConfig `yaml:"recommend"`
	TMDB      TMDBConfig      `yaml:"tmdb"`
	Backfill  BackfillConfig  `yaml:"backfill"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// CatalogConfig holds the catalog source path and vector-space limits.
type CatalogConfig struct {
	Path        string `yaml:"path"`
	MaxFeatures int    `yaml:"maxFeatures"`
}

// RecommendConfig controls result limits for the recommendation API.
type RecommendConfig struct {
	DefaultTopN  int `yaml:"defaultTopN"`
	MaxTopN      int `yaml:"maxTopN"`
	SuggestLimit int `yaml:"suggestLimit"`
}

// TMDBConfig holds the metadata-service credential, endpoints, and the
// retry/pacing schedule for lookups. The API key is only read from the
// TMDB_KEY environment variable; an empty key degrades enrichment to a no-op.
type TMDBConfig struct {
	APIKey         string        `yaml:"-"`
	BaseURL        string        `yaml:"baseUrl"`
	ImageBaseURL   string        `yaml:"imageBaseUrl"`
	MaxAttempts    int           `yaml:"maxAttempts"`
	PacingDelay    time.Duration `yaml:"pacingDelay"`
	FailureDelay   time.Duration `yaml:"failureDelay"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// BackfillConfig controls the poster backfill batch job.
type BackfillConfig struct {
	Limit      int           `yaml:"limit"`
	EntryDelay time.Duration `yaml:"entryDelay"`
}

// PostgresConfig holds PostgreSQL connection parameters. When Enabled is
// false the backfill job persists the catalog back to its CSV source instead.
type PostgresConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers       []string    `yaml:"brokers"`
	ConsumerGroup string      `yaml:"consumerGroup"`
	Topics        KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	QueryEvents    string `yaml:"queryEvents"`
	BackfillEvents string `yaml:"backfillEvents"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with sensible defaults for any
// missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// defaultConfig returns a Config with production-ready defaults for local
// development.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			RequestTimeout:  25 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Catalog: CatalogConfig{
			Path:        "data/movies.csv",
			MaxFeatures: 20000,
		},
		Recommend: RecommendConfig{
			DefaultTopN:  12,
			MaxTopN:      50,
			SuggestLimit: 8,
		},
		TMDB: TMDBConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			ImageBaseURL:   "https://image.tmdb.org/t/p/w500",
			MaxAttempts:    3,
			PacingDelay:    time.Second,
			FailureDelay:   2 * time.Second,
			RequestTimeout: 8 * time.Second,
		},
		Backfill: BackfillConfig{
			Limit:      200,
			EntryDelay: time.Second,
		},
		Postgres: PostgresConfig{
			Enabled:         false,
			Host:            "localhost",
			Port:            5432,
			Database:        "movierec",
			User:            "movierec",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 10,
			CacheTTL: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			ConsumerGroup: "movierec-group",
			Topics: KafkaTopics{
				QueryEvents:    "recommend-query-events",
				BackfillEvents: "poster-backfill-events",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads MR_* environment variables (and TMDB_KEY) and
// overrides the corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	cfg.TMDB.APIKey = os.Getenv("TMDB_KEY")

	if v := os.Getenv("MR_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("MR_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("MR_TMDB_BASE_URL"); v != "" {
		cfg.TMDB.BaseURL = v
	}
	if v := os.Getenv("MR_TMDB_IMAGE_BASE_URL"); v != "" {
		cfg.TMDB.ImageBaseURL = v
	}
	if v := os.Getenv("MR_POSTGRES_ENABLED"); v != "" {
		cfg.Postgres.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("MR_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("MR_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("MR_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("MR_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("MR_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("MR_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("MR_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("MR_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("MR_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("MR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MR_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
