package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/config"
	pkgredis "github.com/Karthik-Raja-S/Movie-Recommendation-Platform/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "recommend:"

// QueryCache memoizes recommendation results in Redis. Concurrent misses on
// the same key are collapsed with singleflight so the engine computes each
// result once. The catalog is immutable per process, so entries only need to
// expire to pick up poster backfill writes.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a QueryCache.
func NewCache(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "recommend-cache"),
	}
}

// Get returns a cached Result for (query, topN), if present.
func (c *QueryCache) Get(ctx context.Context, query string, topN int) (*Result, bool) {
	key := c.buildKey(query, topN)
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.misses.Add(1)
		return nil, false
	}
	var result Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &result, true
}

// Set stores a Result with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, query string, topN int, result *Result) {
	key := c.buildKey(query, topN)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached Result or computes and stores it. The
// second return value reports whether the result came from cache.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	topN int,
	computeFn func() *Result,
) (*Result, bool) {
	if result, ok := c.Get(ctx, query, topN); ok {
		return result, true
	}
	key := c.buildKey(query, topN)
	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, query, topN); ok {
			return result, nil
		}
		result := computeFn()
		c.Set(ctx, query, topN, result)
		return result, nil
	})
	return val.(*Result), false
}

// Invalidate deletes all cached recommendation results. Called after a
// backfill run so poster URLs refresh immediately.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.client.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating recommend cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns cumulative hit and miss counts.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(query string, topN int) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	raw := fmt.Sprintf("%s:top=%d", normalized, topN)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
