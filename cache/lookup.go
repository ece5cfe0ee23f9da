package cache

import (
	"context"
	"time"
)

// Lookup is the explicit replacement for the original Python decorator that
// derived a cache key from a wrapped function's positional arguments. A
// cache, a precomputed key, and a thunk are passed in directly instead of
// relying on reflection over argument names (spec §9, "Decorator-based
// caching").
//
// Only the thunk's success is cached, matching spec §4.4: a failing thunk
// is never stored and will be retried on the next call with the same key.
func Lookup[T any](ctx context.Context, c *Cache[T], key string, ttl time.Duration,
	thunk func(ctx context.Context) (T, error),
) (T, error) {
	if val, ok := c.Get(key); ok {
		return val, nil
	}

	val, err := thunk(ctx)
	if err != nil {
		var zero T

		return zero, err
	}

	c.Put(key, val, ttl)

	return val, nil
}
