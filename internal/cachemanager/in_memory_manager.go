package cachemanager

import (
	"context"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/wordstack/internal/log"
)

const DefaultExpiration = 30 * time.Minute
const DefaultCleanupInterval = 5 * time.Minute

// UseDefault passed as a ttl applies the cache's default expiration.
const UseDefault = gocache.DefaultExpiration

// NoExpiration keeps an entry until it is deleted.
const NoExpiration = gocache.NoExpiration

// NewInMemoryCacheManager initializes the in-memory cache. A cleanupInterval
// <= 0 disables the background janitor, so expired entries are only hidden
// from reads and never evicted.
func NewInMemoryCacheManager[K ~string, V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[K, V] {
	return &InMemoryCacheManager[K, V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// InMemoryCacheManager is the go-cache implementation of CacheManager.
type InMemoryCacheManager[K ~string, V any] struct {
	useCase string
	cache   *gocache.Cache
}

// Get retrieves an item from the cache by its key
func (c *InMemoryCacheManager[K, V]) Get(ctx context.Context, key K) (V, bool) {
	var zeroValue V

	value, found := c.cache.Get(string(key))
	if !found {
		return zeroValue, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)

		return zeroValue, false
	}

	return v, true
}

// GetWithRefresh retrieves an item from the cache if one is found we extend the ttl
// by putting the item back in the cache
func (c *InMemoryCacheManager[K, V]) GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool) {
	value, found := c.Get(ctx, key)
	if !found {
		return value, found
	}

	c.Set(ctx, key, value, ttl)

	return value, found
}

// Set sets a value in the cache with a key and TTL
func (c *InMemoryCacheManager[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) {
	c.cache.Set(string(key), value, ttl)
}

// Delete removes values from the cache. The eviction callback, if any,
// runs for every key that was present.
func (c *InMemoryCacheManager[K, V]) Delete(ctx context.Context, keys ...K) error {
	for _, key := range keys {
		c.cache.Delete(string(key))
	}

	return nil
}

// Keys returns the unexpired keys in sorted order.
func (c *InMemoryCacheManager[K, V]) Keys(ctx context.Context) []K {
	items := c.cache.Items()
	keys := make([]K, 0, len(items))
	for k := range items {
		keys = append(keys, K(k))
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

// Count returns the number of unexpired entries.
func (c *InMemoryCacheManager[K, V]) Count(ctx context.Context) int {
	return len(c.cache.Items())
}

// OnEvicted registers fn to run whenever an entry is removed by Delete or
// by the janitor after expiry. It is not called on Flush.
func (c *InMemoryCacheManager[K, V]) OnEvicted(fn func(key K, value V)) {
	if fn == nil {
		c.cache.OnEvicted(nil)
		return
	}
	c.cache.OnEvicted(func(key string, value interface{}) {
		v, ok := value.(V)
		if !ok {
			log.Error(log.CatCache, "wrong type assertion on eviction", "cache", c.useCase, "key", key)
			return
		}
		fn(K(key), v)
	})
}

// Flush removes every entry without running eviction callbacks.
func (c *InMemoryCacheManager[K, V]) Flush(ctx context.Context) error {
	c.cache.Flush()

	log.Debug(log.CatCache, "cache flushed", "cache", c.useCase)

	return nil
}
