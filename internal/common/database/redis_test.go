package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realestate-marketplace/internal/common/config"
)

type cachedThing struct {
	ID    string   `json:"id"`
	Items []string `json:"items"`
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client.GetClient()
}

func TestCacheRoundTrip(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, CacheSet(ctx, rdb, "thing:1", cachedThing{ID: "1", Items: []string{"a"}}, time.Minute))

	var got cachedThing
	assert.True(t, CacheGet(ctx, rdb, "thing:1", &got))
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, []string{"a"}, got.Items)

	mr.FastForward(2 * time.Minute)
	assert.False(t, CacheGet(ctx, rdb, "thing:1", &got))
}

func TestCacheGet_CorruptValueIsMiss(t *testing.T) {
	mr, rdb := setupRedis(t)
	require.NoError(t, mr.Set("thing:bad", "{not json"))

	var got cachedThing
	assert.False(t, CacheGet(context.Background(), rdb, "thing:bad", &got))
}

func TestCacheDel(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("a", "1"))

	require.NoError(t, CacheDel(ctx, rdb, "a", "missing"))
	assert.False(t, mr.Exists("a"))
}

func TestCacheHelpers_NilClient(t *testing.T) {
	ctx := context.Background()
	var got cachedThing
	assert.False(t, CacheGet(ctx, nil, "k", &got))
	assert.NoError(t, CacheSet(ctx, nil, "k", got, time.Second))
	assert.NoError(t, CacheDel(ctx, nil, "k"))
}

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
}
