package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "arcade:leaderboard:points"

// Board is a fast ranking of point totals kept next to the durable ledger.
type Board interface {
	Add(ctx context.Context, userID string, points int) error
	Top(ctx context.Context, limit int) ([]Standing, error)
}

// RedisBoard keeps totals in a sorted set, one member per user.
type RedisBoard struct {
	client *redis.Client
	key    string
}

func NewRedisBoard(client *redis.Client) *RedisBoard {
	return &RedisBoard{client: client, key: leaderboardKey}
}

func (b *RedisBoard) Add(ctx context.Context, userID string, points int) error {
	if err := b.client.ZIncrBy(ctx, b.key, float64(points), userID).Err(); err != nil {
		return fmt.Errorf("incrementing leaderboard: %w", err)
	}
	return nil
}

func (b *RedisBoard) Top(ctx context.Context, limit int) ([]Standing, error) {
	// ZREVRANGE returns highest to lowest.
	results, err := b.client.ZRevRangeWithScores(ctx, b.key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	standings := make([]Standing, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		standings[i] = Standing{UserID: member, Points: int64(z.Score), Rank: int64(i) + 1}
	}
	return standings, nil
}

// Rebuild replaces the sorted set with the durable balances.
func (b *RedisBoard) Rebuild(ctx context.Context, standings []Standing) error {
	pipe := b.client.TxPipeline()
	pipe.Del(ctx, b.key)
	for _, s := range standings {
		pipe.ZAdd(ctx, b.key, redis.Z{Score: float64(s.Points), Member: s.UserID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rebuilding leaderboard: %w", err)
	}
	return nil
}
