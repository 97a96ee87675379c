// Package store provides the optional Redis-backed cache for analysis
// results served over HTTP.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lvonguyen/intelgraph/internal/config"
)

// ErrCacheMiss is returned when no cached result exists for a key.
var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "intelgraph:analysis:"

// Cache stores serialized analysis bundles keyed by a digest of the request
// body. A nil client means caching is disabled and every lookup misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a cache from config. An empty Redis address disables caching
// without error; the engine runs fine without it.
func New(cfg config.RedisConfig, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("result_cache")

	if cfg.Addr == "" {
		logger.Info("result cache disabled")
		return &Cache{ttl: cfg.CacheTTL, logger: logger}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: os.Getenv(cfg.PasswordEnv),
		DB:       cfg.DB,
	})
	logger.Info("result cache enabled", zap.String("addr", cfg.Addr))
	return &Cache{client: client, ttl: cfg.CacheTTL, logger: logger}
}

// Key derives the cache key for a raw request body.
func Key(body []byte) string {
	sum := sha256.Sum256(body)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached payload for a key, or ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.client == nil {
		return nil, ErrCacheMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		c.logger.Warn("cache get failed", zap.Error(err))
		return nil, ErrCacheMiss
	}
	return data, nil
}

// Set stores a payload under a key with the configured TTL. Failures are
// logged and swallowed; caching is best-effort.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
