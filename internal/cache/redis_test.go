package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umrahportal/internal/config"
)

type item struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedis_SetGet(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	var got item
	found, err := c.Get(ctx, "catalog:packages:1", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "catalog:packages:1", item{Name: "Umrah Plus", Price: 40_000_000}, 0))
	assert.Equal(t, time.Minute, mr.TTL("catalog:packages:1"))

	found, err = c.Get(ctx, "catalog:packages:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Umrah Plus", got.Name)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.events.WithLabelValues("miss")))
}

func TestRedis_Expiry(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", item{Name: "x"}, 10*time.Second))
	mr.FastForward(11 * time.Second)

	var got item
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_DelPrefix(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	for _, k := range []string{"catalog:packages:a", "catalog:packages:b", "catalog:promos", "session:1"} {
		require.NoError(t, c.Set(ctx, k, item{Name: k}, 0))
	}

	require.NoError(t, c.DelPrefix(ctx, "catalog:"))

	assert.False(t, mr.Exists("catalog:packages:a"))
	assert.False(t, mr.Exists("catalog:promos"))
	assert.True(t, mr.Exists("session:1"))
}

func TestRedis_CorruptValue(t *testing.T) {
	c, mr := newTestRedis(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var got item
	found, err := c.Get(context.Background(), "bad", &got)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestRemember(t *testing.T) {
	c, _ := newTestRedis(t)
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{Name: "Haji Furoda"}}, nil
	}

	first, err := Remember(ctx, c, "catalog:hajj", 0, load)
	require.NoError(t, err)
	second, err := Remember(ctx, c, "catalog:hajj", 0, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestRemember_LoaderError(t *testing.T) {
	_, err := Remember(context.Background(), Noop{}, "k", 0, func(context.Context) (int, error) {
		return 0, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
}

func TestRemember_UnreachableRedisFallsBack(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	c, err := NewRedis(client, time.Minute, nil)
	require.NoError(t, err)
	defer c.Close()

	v, err := Remember(context.Background(), c, "k", 0, func(context.Context) (string, error) { return "fresh", nil })
	assert.NoError(t, err)
	assert.Equal(t, "fresh", v)
}

func TestNew_NoAddrIsNoop(t *testing.T) {
	c, err := New(config.RedisConfig{}, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.IsType(t, Noop{}, c)
}
