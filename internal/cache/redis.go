package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"umrahportal/internal/config"
)

const scanBatch = 200

// Redis is a Cache backed by a Redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	events *prometheus.CounterVec
}

var _ Cache = (*Redis)(nil)

// New returns a Redis cache for cfg, or Noop when no address is configured.
func New(cfg config.RedisConfig, reg prometheus.Registerer) (Cache, error) {
	if cfg.Addr == "" {
		return Noop{}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	return NewRedis(client, cfg.TTL, reg)
}

// NewRedis wraps an existing client. reg may be nil to skip metric registration.
func NewRedis(client *redis.Client, ttl time.Duration, reg prometheus.Registerer) (*Redis, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_events_total",
		Help: "Catalog cache events by type (hit, miss, set, del, error).",
	}, []string{"event"})
	if reg != nil {
		if err := reg.Register(events); err != nil {
			return nil, err
		}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Redis{client: client, ttl: ttl, events: events}, nil
}

func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.events.WithLabelValues("miss").Inc()
		return false, nil
	}
	if err != nil {
		r.events.WithLabelValues("error").Inc()
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		r.events.WithLabelValues("error").Inc()
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	r.events.WithLabelValues("hit").Inc()
	return true, nil
}

func (r *Redis) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	if ttl <= 0 {
		ttl = r.ttl
	}
	r.events.WithLabelValues("set").Inc()
	return r.client.Set(ctx, key, b, ttl).Err()
}

// DelPrefix walks the keyspace with SCAN so large keyspaces never block the server.
func (r *Redis) DelPrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			r.events.WithLabelValues("error").Inc()
			return err
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				r.events.WithLabelValues("error").Inc()
				return err
			}
			r.events.WithLabelValues("del").Add(float64(len(keys)))
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Ping checks connectivity to the server.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
