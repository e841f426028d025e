package cache

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryCache is the process-local Cache. Values live inside their group's
// map, so the group index and the value store change under the same lock and
// a key can never be indexed without a value.
type MemoryCache struct {
	mu     sync.RWMutex
	groups map[string]map[string]entry
	clock  clock.Clock
	flight singleflight.Group
}

type Option func(*MemoryCache)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option {
	return func(m *MemoryCache) {
		m.clock = c
	}
}

func NewMemoryCache(opts ...Option) *MemoryCache {
	m := &MemoryCache{
		groups: make(map[string]map[string]entry),
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryCache) Get(_ context.Context, group, key string, ttl time.Duration) (any, bool) {
	now := m.clock.Now()

	m.mu.RLock()
	e, ok := m.groups[group][key]
	m.mu.RUnlock()

	if !ok || !e.fresh(now, ttl) {
		return nil, false
	}
	return e.value, true
}

func (m *MemoryCache) Set(ctx context.Context, group, key string, value any, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	keys, ok := m.groups[group]
	if !ok {
		keys = make(map[string]entry)
		m.groups[group] = keys
	}
	keys[key] = entry{value: value, storedAt: now, expiresAt: now.Add(ttl)}
	m.evictExpiredLocked(group, now)
	return nil
}

// Load shares one fn call among concurrent misses on (group, key). The shared
// call runs under the context of the caller that started it; a caller that
// joined it and is still live retries under its own context when the starter
// was cancelled.
func (m *MemoryCache) Load(ctx context.Context, group, key string, ttl time.Duration, fn func(context.Context) (any, error)) (any, error) {
	if v, ok := m.Get(ctx, group, key, ttl); ok {
		return v, nil
	}

	for {
		ran := false
		v, err, _ := m.flight.Do(group+"\x00"+key, func() (any, error) {
			ran = true
			if v, ok := m.Get(ctx, group, key, ttl); ok {
				return v, nil
			}
			v, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			if err := m.Set(ctx, group, key, v, ttl); err != nil {
				return nil, err
			}
			return v, nil
		})
		if err != nil && !ran && isContextErr(err) && ctx.Err() == nil {
			continue
		}
		return v, err
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// GroupKeys returns the unexpired keys of group in sorted order.
func (m *MemoryCache) GroupKeys(_ context.Context, group string) []string {
	now := m.clock.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.groups[group]))
	for k, e := range m.groups[group] {
		if e.fresh(now, 0) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (m *MemoryCache) Delete(_ context.Context, group, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys, ok := m.groups[group]
	if !ok {
		return
	}
	delete(keys, key)
	if len(keys) == 0 {
		delete(m.groups, group)
	}
}

func (m *MemoryCache) ClearGroup(_ context.Context, group string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups, group)
}

func (m *MemoryCache) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = make(map[string]map[string]entry)
}

// evictExpiredLocked drops dead entries of one group so abandoned keys do not
// accumulate. Callers hold m.mu for writing.
func (m *MemoryCache) evictExpiredLocked(group string, now time.Time) {
	for k, e := range m.groups[group] {
		if !e.fresh(now, 0) {
			delete(m.groups[group], k)
		}
	}
}

func (e entry) fresh(now time.Time, ttl time.Duration) bool {
	if !now.Before(e.expiresAt) {
		return false
	}
	if ttl > 0 && !now.Before(e.storedAt.Add(ttl)) {
		return false
	}
	return true
}

var _ Cache = (*MemoryCache)(nil)
