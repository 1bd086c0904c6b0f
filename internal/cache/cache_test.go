package cache_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/millionaire/internal/cache"
	"github.com/vytor/millionaire/internal/models"
)

func newCache(t *testing.T, ttl time.Duration) (*cache.RedisScoreCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisScoreCache(client, ttl), mr
}

func TestRedisScoreCache_RoundTripAndInvalidate(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, 3)
	assert.False(t, ok)

	rows := []models.ScoreRow{{Rank: 1, Score: 500, Sessions: 2, UserID: 9, UserName: "Ada"}}
	c.Set(ctx, 3, rows)
	assert.True(t, mr.Exists("millionaire:scores:3"))

	got, ok := c.Get(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, rows, got)

	c.Invalidate(ctx, 3)
	assert.False(t, mr.Exists("millionaire:scores:3"))
}

func TestRedisScoreCache_EmptyLeaderboardIsAHit(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, 1, nil)
	got, ok := c.Get(ctx, 1)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedisScoreCache_Expires(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, 1, []models.ScoreRow{{Rank: 1}})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
}

func TestRedisScoreCache_CorruptValueIsDropped(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	require.NoError(t, mr.Set("millionaire:scores:5", "not json"))

	_, ok := c.Get(context.Background(), 5)
	assert.False(t, ok)
	assert.False(t, mr.Exists("millionaire:scores:5"))
}

func TestNoop(t *testing.T) {
	var c cache.ScoreCache = cache.Noop{}
	c.Set(context.Background(), 1, []models.ScoreRow{{Rank: 1}})
	_, ok := c.Get(context.Background(), 1)
	assert.False(t, ok)
}
