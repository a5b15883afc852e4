package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL is the expiration applied to entries when the caller does not
// override it per-instance or per-call.
const DefaultTTL = 24 * time.Hour

// connectTimeout bounds the liveness ping issued at construction.
const connectTimeout = 5 * time.Second

// Config holds the Redis connection settings for a cache instance.
// Zero-valued fields are resolved from the environment (REDIS_HOST,
// REDIS_PORT, REDIS_PASSWORD) and then from built-in defaults
// (localhost:6379, no password, db 0, 24h TTL). Explicit fields always win.
type Config struct {
	Host       string        `yaml:"host" json:"host"`
	Port       int           `yaml:"port" json:"port"`
	DB         int           `yaml:"db" json:"db"`
	Password   string        `yaml:"password" json:"password"`
	DefaultTTL time.Duration `yaml:"default_ttl" json:"default_ttl"`
}

// withDefaults returns a copy with unset fields filled from the environment
// and built-in defaults.
func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = os.Getenv("REDIS_HOST")
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		if p, err := strconv.Atoi(os.Getenv("REDIS_PORT")); err == nil && p > 0 {
			c.Port = p
		}
	}
	if c.Port == 0 {
		c.Port = 6379
	}
	if c.Password == "" {
		c.Password = os.Getenv("REDIS_PASSWORD")
	}
	if c.DefaultTTL == 0 {
		c.DefaultTTL = DefaultTTL
	}
	return c
}

// Cache is a content-addressed memoization layer in front of Redis. Keys are
// derived from the parsed content itself (see DeriveKey), values are stored
// as JSON with a native Redis TTL.
//
// A Cache is safe for concurrent use. If Redis is unreachable at
// construction the instance is permanently disabled: every Get reports a
// miss and every write is a silent no-op, so parsing proceeds without it.
type Cache struct {
	client  *redis.Client
	cfg     Config
	enabled bool
	stats   counters
	logger  *zap.Logger
}

// BatchItem pairs one piece of source content with the value to cache for it.
type BatchItem struct {
	Content string
	Value   any
}

// New creates a cache and probes the backend once. It never returns an
// error: a failed probe yields a disabled cache and a single warning log.
func New(cfg Config, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "cache"))

	cfg = cfg.withDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	c := &Cache{
		client: client,
		cfg:    cfg,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis connection failed, caching disabled",
			zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			zap.Error(err),
		)
		return c
	}

	c.enabled = true
	logger.Info("cache enabled",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Duration("default_ttl", cfg.DefaultTTL),
	)
	return c
}

// Enabled reports whether the backend probe succeeded at construction.
// A disabled cache stays disabled for its lifetime.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Get looks up previously cached data for content and unmarshals it into
// dest. It returns true only on a well-formed hit. Absent keys, a disabled
// cache, backend errors and malformed stored values all count as misses;
// every call moves exactly one of the hit/miss counters.
func (c *Cache) Get(ctx context.Context, content string, dest any) bool {
	if !c.enabled {
		// The caller must recompute either way, so this still counts
		// as a miss.
		c.stats.recordMiss()
		return false
	}

	key := DeriveKey(content)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		c.stats.recordMiss()
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Corrupted or foreign data under our namespace.
		c.logger.Warn("cache entry malformed, treating as miss",
			zap.String("key", key), zap.Error(err))
		c.stats.recordMiss()
		return false
	}

	c.stats.recordHit()
	return true
}

// Set stores value for content with the given TTL (0 means the instance
// default). Serialization errors propagate; backend write failures are
// logged and swallowed so a flaky Redis never interrupts parsing. Writes
// never touch the hit/miss counters.
func (c *Cache) Set(ctx context.Context, content string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	if !c.enabled {
		return nil
	}
	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}

	key := DeriveKey(content)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// SetBatch stores all items in a single pipelined round trip and returns the
// number of entries written. Partial failures are best-effort: entries that
// succeeded stay cached, nothing is rolled back. A disabled cache returns 0.
func (c *Cache) SetBatch(ctx context.Context, items []BatchItem, ttl time.Duration) (int, error) {
	type encoded struct {
		key  string
		data []byte
	}

	// Serialize everything up front so an unrepresentable value surfaces
	// before any network I/O.
	payload := make([]encoded, 0, len(items))
	for _, item := range items {
		data, err := json.Marshal(item.Value)
		if err != nil {
			return 0, fmt.Errorf("marshal batch value: %w", err)
		}
		payload = append(payload, encoded{key: DeriveKey(item.Content), data: data})
	}

	if !c.enabled || len(payload) == 0 {
		return 0, nil
	}
	if ttl <= 0 {
		ttl = c.cfg.DefaultTTL
	}

	pipe := c.client.Pipeline()
	for _, p := range payload {
		pipe.Set(ctx, p.key, p.data, ttl)
	}

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		c.logger.Warn("cache batch set failed", zap.Int("items", len(payload)), zap.Error(err))
	}

	stored := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			stored++
		}
	}
	return stored, nil
}

// Invalidate deletes every key matching pattern within the cache namespace
// and returns the number removed. Patterns that do not already carry
// KeyPrefix are scoped to it, so a bare "*" can never sweep foreign keys.
// An empty pattern means the whole namespace. Returns 0 when disabled.
func (c *Cache) Invalidate(ctx context.Context, pattern string) int {
	if !c.enabled {
		return 0
	}

	pattern = scopePattern(pattern)

	deleted := 0
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := c.client.Del(ctx, batch...).Result()
		if err != nil {
			c.logger.Warn("cache invalidation delete failed", zap.Error(err))
		}
		deleted += int(n)
		batch = batch[:0]
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			flush()
		}
	}
	flush()

	if err := iter.Err(); err != nil {
		c.logger.Warn("cache invalidation scan failed",
			zap.String("pattern", pattern), zap.Error(err))
	}
	return deleted
}

// scopePattern forces a glob into the cache namespace.
func scopePattern(pattern string) string {
	if pattern == "" {
		return KeyPrefix + "*"
	}
	if len(pattern) >= len(KeyPrefix) && pattern[:len(KeyPrefix)] == KeyPrefix {
		return pattern
	}
	return KeyPrefix + pattern
}

// Stats returns a snapshot of the instance's read-path counters.
func (c *Cache) Stats() Stats {
	return c.stats.snapshot(c.enabled)
}

// ResetStats zeroes the hit/miss counters. Stored entries and the
// enabled/disabled state are unaffected.
func (c *Cache) ResetStats() {
	c.stats.reset()
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
