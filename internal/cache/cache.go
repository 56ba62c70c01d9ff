// Package cache provides a keyed, TTL-bound cache with per-key fetch
// de-duplication.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type item[V any] struct {
	value   V
	expires time.Time
}

// Cache holds one value per key. An empty key never fetches.
type Cache[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu    sync.Mutex
	items map[string]item[V]
}

// New creates a cache whose entries expire after ttl. A non-positive ttl keeps
// entries until they are replaced.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]item[V]),
	}
}

// Get returns the cached value for key, fetching it if missing or expired.
// The boolean reports whether a value is available. Concurrent callers for the
// same key share one fetch. The fetch runs detached from ctx cancellation so a
// result that arrives after the caller gave up is still stored.
func (c *Cache[V]) Get(ctx context.Context, key string, fetch func(context.Context) (V, error)) (V, bool, error) {
	return c.GetSettled(ctx, key, fetch, nil)
}

// GetSettled is Get with settle applied to a fetched value under the cache
// lock right before it is stored. Updates made while the fetch was in flight
// are visible to settle, so none of them are lost when the result lands.
func (c *Cache[V]) GetSettled(
	ctx context.Context,
	key string,
	fetch func(context.Context) (V, error),
	settle func(V) V,
) (V, bool, error) {
	var zero V
	if key == "" {
		return zero, false, nil
	}

	if v, ok := c.Peek(key); ok {
		return v, true, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		v, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		return c.store(key, v, settle), nil
	})

	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, false, fmt.Errorf("failed to fetch %q: %w", key, res.Err)
		}
		return res.Val.(V), true, nil
	}
}

// Peek returns the cached value without fetching.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok || c.expired(it) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set stores v under key, resetting its expiry.
func (c *Cache[V]) Set(key string, v V) {
	if key == "" {
		return
	}

	c.store(key, v, nil)
}

func (c *Cache[V]) store(key string, v V, settle func(V) V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if settle != nil {
		v = settle(v)
	}
	c.items[key] = item[V]{value: v, expires: c.expiry()}
	return v
}

// Update replaces the value under key with fn(current) while holding the lock.
// It reports false and leaves the cache unchanged when nothing is stored. An
// expired entry is still patched and keeps its original expiry, so the next
// Get refetches it.
func (c *Cache[V]) Update(key string, fn func(V) V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}

	it.value = fn(it.value)
	c.items[key] = it
	return it.value, true
}

// Delete drops the entry for key.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

func (c *Cache[V]) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(c.ttl)
}

func (c *Cache[V]) expired(it item[V]) bool {
	return !it.expires.IsZero() && !c.now().Before(it.expires)
}
