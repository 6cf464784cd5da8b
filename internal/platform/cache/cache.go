package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ridloal/blood-portal/internal/platform/logger"
)

// SummaryCache keeps short-lived copies of per-row backend summaries.
// Failures are logged and treated as a miss.
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCache(rdb *redis.Client, prefix string) SummaryCache {
	return &redisCache{rdb: rdb, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Error("Cache.Get: redis error", err, map[string]interface{}{"key": key})
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		logger.Error("Cache.Set: redis error", err, map[string]interface{}{"key": key})
	}
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, c.prefix+key).Err(); err != nil {
		logger.Error("Cache.Delete: redis error", err, map[string]interface{}{"key": key})
	}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory is used when no redis address is configured. Expired entries are
// dropped on read.
func NewMemory() SummaryCache {
	return &memoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
}

func (c *memoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
