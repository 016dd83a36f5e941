package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pribylovaa/catalog-service/internal/models"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "test:", time.Minute), mr
}

func TestCategories_MissThenHit(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	_, ok, err := c.Categories(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	cats := []models.Category{{Name: "Apparel", Count: 3}, {Name: "Books", Count: 1}}
	require.NoError(t, c.SetCategories(ctx, cats))
	require.True(t, mr.Exists("test:categories"))

	got, ok, err := c.Categories(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, cats, got)
}

func TestCount_RoundTripAndTTL(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SetCount(ctx, "items:Apparel", 42))

	val, err := mr.Get("test:count:items:Apparel")
	require.NoError(t, err)
	require.Equal(t, "42", val)
	require.Equal(t, time.Minute, mr.TTL("test:count:items:Apparel"))

	n, ok, err := c.Count(ctx, "items:Apparel")
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 42, n)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Count(ctx, "items:Apparel")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCount_ZeroIsCached(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.SetCount(ctx, "search:nothing", 0))

	n, ok, err := c.Count(ctx, "search:nothing")
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, n)
}

func TestCategories_CorruptedValue(t *testing.T) {
	c, mr := setupTestRedis(t)

	require.NoError(t, mr.Set("test:categories", "{not json"))

	_, ok, err := c.Categories(context.Background())
	require.Error(t, err)
	require.False(t, ok)
}

func TestRedisDown_ReturnsError(t *testing.T) {
	c, mr := setupTestRedis(t)
	mr.Close()

	_, ok, err := c.Count(context.Background(), "items:All")
	require.Error(t, err)
	require.False(t, ok)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "://nope", "", time.Minute)
	require.Error(t, err)
}

func TestNewRedisCache_DefaultPrefix(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache(context.Background(), "redis://"+mr.Addr()+"/0", "", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.SetCount(context.Background(), "items:All", 7))
	require.True(t, mr.Exists("catalog:count:items:All"))
}

func TestNop_AlwaysMisses(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()

	require.NoError(t, c.SetCategories(ctx, []models.Category{{Name: "x", Count: 1}}))
	_, ok, err := c.Categories(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.SetCount(ctx, "k", 1))
	_, ok, err = c.Count(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.Close())
}
