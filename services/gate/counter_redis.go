package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const counterKeyPrefix = "gate:hits:"

// RedisCounter is a Counter backed by a sorted set per key, shared across
// instances. Timestamps are scores; a hit is pruned out of the set once it
// leaves the rolling window.
type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) RecordAndCheck(ctx context.Context, key string, window time.Duration, limit int) (bool, error) {
	redisKey := counterKeyPrefix + key
	now := time.Now()
	cutoff := now.Add(-window)

	pipe := c.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("%d", cutoff.UnixNano()))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate counter check failed: %w", err)
	}

	if countCmd.Val() >= int64(limit) {
		return false, nil
	}

	member := fmt.Sprintf("%d", now.UnixNano())
	pipe = c.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, &redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate counter record failed: %w", err)
	}
	return true, nil
}
