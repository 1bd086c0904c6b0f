// Package cache keeps rendered leaderboards in Redis between rebuilds.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vytor/millionaire/internal/logger"
	"github.com/vytor/millionaire/internal/models"
)

// ScoreCache stores the leaderboard of a game. Failures are logged and reported as misses.
type ScoreCache interface {
	Get(ctx context.Context, gameID int64) ([]models.ScoreRow, bool)
	Set(ctx context.Context, gameID int64, rows []models.ScoreRow)
	Invalidate(ctx context.Context, gameID int64)
}

// RedisScoreCache stores each leaderboard as one JSON value: millionaire:scores:{gameID}.
type RedisScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisScoreCache(client *redis.Client, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{client: client, ttl: ttl}
}

func (c *RedisScoreCache) Get(ctx context.Context, gameID int64) ([]models.ScoreRow, bool) {
	log := logger.FromContext(ctx).WithPrefix("score_cache")

	raw, err := c.client.Get(ctx, key(gameID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn("failed to read leaderboard of game %d: %v", gameID, err)
		}
		return nil, false
	}
	var rows []models.ScoreRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Warn("dropping unreadable leaderboard of game %d: %v", gameID, err)
		c.Invalidate(ctx, gameID)
		return nil, false
	}
	log.Debug("leaderboard cache hit: game=%d, rows=%d", gameID, len(rows))
	return rows, true
}

func (c *RedisScoreCache) Set(ctx context.Context, gameID int64, rows []models.ScoreRow) {
	log := logger.FromContext(ctx).WithPrefix("score_cache")

	if rows == nil {
		rows = []models.ScoreRow{}
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		log.Warn("failed to encode leaderboard of game %d: %v", gameID, err)
		return
	}
	if err := c.client.Set(ctx, key(gameID), raw, c.ttl).Err(); err != nil {
		log.Warn("failed to store leaderboard of game %d: %v", gameID, err)
	}
}

func (c *RedisScoreCache) Invalidate(ctx context.Context, gameID int64) {
	if err := c.client.Del(ctx, key(gameID)).Err(); err != nil {
		logger.FromContext(ctx).WithPrefix("score_cache").Warn("failed to invalidate leaderboard of game %d: %v", gameID, err)
	}
}

// Ping reports whether Redis answers.
func (c *RedisScoreCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func key(gameID int64) string {
	return "millionaire:scores:" + strconv.FormatInt(gameID, 10)
}

// Noop is used when no Redis address is configured. Every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, int64) ([]models.ScoreRow, bool) { return nil, false }
func (Noop) Set(context.Context, int64, []models.ScoreRow)        {}
func (Noop) Invalidate(context.Context, int64)                     {}
