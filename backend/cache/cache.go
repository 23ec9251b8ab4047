// Package cache is the response cache: a key-value Store with per-key TTL and
// glob invalidation, and a best-effort Cache wrapper that logs store failures
// instead of returning them.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cursifynova/backend/utils"
)

// KeyPrefix namespaces every cached HTTP response.
const KeyPrefix = "api:"

// ErrMiss is returned by Store.Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is the backing key-value namespace.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// DelPattern removes every key matching a Redis-style glob and returns how
	// many were removed.
	DelPattern(ctx context.Context, pattern string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// Cache never fails its caller: store errors are logged and reported as a
// miss or as false.
type Cache struct {
	store Store
	log   *utils.Logger
}

func New(store Store, log *utils.Logger) *Cache {
	return &Cache{store: store, log: log.With("service", "Cache")}
}

// Key builds the cache key of a request path including its query string.
func Key(originalURL string) string {
	return KeyPrefix + originalURL
}

func (c *Cache) Store() Store {
	return c.store
}

// GetRaw returns stored bytes; ok is false on a miss or a store failure.
func (c *Cache) GetRaw(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.log.Warn("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return raw, true
}

func (c *Cache) SetRaw(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
		return false
	}
	return true
}

// Get decodes the JSON value at key into dst.
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) bool {
	raw, ok := c.GetRaw(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores value JSON-encoded for ttl.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", "key", key, "error", err)
		return false
	}
	return c.SetRaw(ctx, key, raw, ttl)
}

func (c *Cache) Del(ctx context.Context, key string) bool {
	if err := c.store.Del(ctx, key); err != nil {
		c.log.Warn("cache del failed", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Cache) DelPattern(ctx context.Context, pattern string) bool {
	n, err := c.store.DelPattern(ctx, pattern)
	if err != nil {
		c.log.Warn("cache pattern invalidation failed", "pattern", pattern, "error", err)
		return false
	}
	c.log.Debug("cache invalidated", "pattern", pattern, "keys", n)
	return true
}
