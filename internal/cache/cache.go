// Package cache memoizes expensive Azure directory lookups (subscriptions,
// resource groups, clusters) for a bounded time. Entries are organized in
// named groups so a whole resource family can be invalidated at once.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a TTL key/value store partitioned into groups. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under (group, key) if it is present and
	// unexpired. A positive ttl additionally bounds how old the entry may be.
	Get(ctx context.Context, group, key string, ttl time.Duration) (any, bool)
	// Set stores value with an absolute expiry of now+ttl and records key in
	// the group index. A cancelled ctx leaves the cache untouched.
	Set(ctx context.Context, group, key string, value any, ttl time.Duration) error
	// Load returns the cached value or runs fn once per (group, key) across
	// concurrent callers and caches its successful result.
	Load(ctx context.Context, group, key string, ttl time.Duration, fn func(context.Context) (any, error)) (any, error)
	GroupKeys(ctx context.Context, group string) []string
	Delete(ctx context.Context, group, key string)
	ClearGroup(ctx context.Context, group string)
	Clear(ctx context.Context)
}

// Get is a typed wrapper around Cache.Get. A value of a different type is a miss.
func Get[T any](ctx context.Context, c Cache, group, key string, ttl time.Duration) (T, bool) {
	var zero T
	v, ok := c.Get(ctx, group, key, ttl)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// GetOrLoad returns the cached T for (group, key), calling load on a miss.
func GetOrLoad[T any](ctx context.Context, c Cache, group, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Load(ctx, group, key, ttl, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %s/%s holds %T, not %T", group, key, v, zero)
	}
	return typed, nil
}
