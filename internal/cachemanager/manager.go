// Package cachemanager provides a typed, TTL-bound in-memory store.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is a typed key/value store whose entries expire after a TTL.
type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Keys(ctx context.Context) []K
	Count(ctx context.Context) int
	OnEvicted(fn func(key K, value V))
	Flush(ctx context.Context) error
}
