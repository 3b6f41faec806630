// Package cache is a best-effort read-through cache for public catalog reads.
// A cache failure never fails the request; callers fall back to the loader.
package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache stores JSON-encodable values by key.
type Cache interface {
	// Get decodes the value stored under key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores v under key. A zero ttl uses the cache default.
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	// DelPrefix removes every key starting with prefix.
	DelPrefix(ctx context.Context, prefix string) error
}

// Remember returns the cached value for key, or calls load and caches its result.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	found, err := c.Get(ctx, key, &cached)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "cache").Str("key", key).Msg("cache get failed")
	}
	if found && err == nil {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, key, v, ttl); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "cache").Str("key", key).Msg("cache set failed")
	}
	return v, nil
}

// Noop never stores anything. It is used when REDIS_ADDR is empty.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }

func (Noop) DelPrefix(context.Context, string) error { return nil }
