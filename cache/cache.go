// Package cache implements the generic TTL cache the API facade wraps both
// the resolver and the RDAP client in. It is a direct adaptation of blocky's
// cache/expirationcache.ExpiringLRUCache: an LRU-bounded map with lazy,
// read-time expiry plus a periodic background sweep.
//
// Per spec, only successful lookups are ever cached; the cache is
// per-process with no persistence or cross-process sharing, so there is no
// Redis- or disk-backed implementation here, unlike blocky's own cache
// package (see DESIGN.md).
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	defaultCleanupInterval = 30 * time.Second
	defaultSize            = 10_000
)

// Clock abstracts time.Now so tests can control expiry deterministically
// without sleeping (spec §8 invariant 6, "expiry behavior").
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type element[T any] struct {
	val     *T
	expires time.Time
}

// Cache is a generic, concurrency-safe TTL cache bounded by an LRU of at
// most Options.MaxSize entries.
type Cache[T any] struct {
	clock           Clock
	cleanupInterval time.Duration
	onHit           func(key string)
	onMiss          func(key string)
	lru             *lru.Cache
}

// Options configures a Cache. The zero value is valid and uses sane
// defaults for every field.
type Options struct {
	MaxSize         uint
	CleanupInterval time.Duration
	OnHit           func(key string)
	OnMiss          func(key string)
	clock           Clock // test-only override, see WithClock
}

// New creates a Cache and starts its background cleanup goroutine, which
// stops when ctx is done.
func New[T any](ctx context.Context, opts Options) *Cache[T] {
	size := defaultSize
	if opts.MaxSize > 0 {
		size = int(opts.MaxSize)
	}

	l, _ := lru.New(size)

	c := &Cache[T]{
		clock:           opts.clock,
		cleanupInterval: defaultCleanupInterval,
		onHit:           opts.OnHit,
		onMiss:          opts.OnMiss,
		lru:             l,
	}

	if c.clock == nil {
		c.clock = realClock{}
	}

	if opts.CleanupInterval > 0 {
		c.cleanupInterval = opts.CleanupInterval
	}

	if c.onHit == nil {
		c.onHit = func(string) {}
	}

	if c.onMiss == nil {
		c.onMiss = func(string) {}
	}

	go c.periodicCleanup(ctx)

	return c
}

// WithClock overrides the cache's time source. Exported for tests in other
// packages that need to assert expiry behavior without sleeping.
func WithClock(opts Options, clock Clock) Options {
	opts.clock = clock

	return opts
}

func (c *Cache[T]) periodicCleanup(ctx context.Context) {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-ctx.Done():
			return
		}
	}
}

func (c *Cache[T]) evictExpired() {
	now := c.clock.Now()

	for _, k := range c.lru.Keys() {
		v, ok := c.lru.Peek(k)
		if !ok {
			continue
		}

		if el, ok := v.(*element[T]); ok && now.After(el.expires) {
			c.lru.Remove(k)
		}
	}
}

// Put stores val under key with the given ttl. A non-positive ttl is a
// no-op: the entry is considered already expired and is never stored, so a
// failed lookup can never poison the cache (spec §4.4: "the cache stores
// successful results only").
func (c *Cache[T]) Put(key string, val T, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.lru.Add(key, &element[T]{val: &val, expires: c.clock.Now().Add(ttl)})
}

// Get returns the cached value and whether it was found. The second return
// is false on a miss or on an expired entry, which is evicted on the spot.
func (c *Cache[T]) Get(key string) (val T, ok bool) {
	raw, found := c.lru.Get(key)
	if !found {
		c.onMiss(key)

		return val, false
	}

	el, _ := raw.(*element[T])

	remaining := el.expires.Sub(c.clock.Now())
	if remaining <= 0 {
		c.lru.Remove(key)
		c.onMiss(key)

		return val, false
	}

	c.onHit(key)

	return *el.val, true
}

// Len returns the number of valid (non-expired) entries, evicting any
// expired ones it encounters along the way.
func (c *Cache[T]) Len() int {
	c.evictExpired()

	return c.lru.Len()
}

// Invalidate removes a single key, regardless of expiry.
func (c *Cache[T]) Invalidate(key string) {
	c.lru.Remove(key)
}

// Clear removes every entry.
func (c *Cache[T]) Clear() {
	c.lru.Purge()
}
