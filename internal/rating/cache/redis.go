package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	ratingdomain "github.com/craftbid/matchengine/internal/rating/domain"
	redis "github.com/redis/go-redis/v9"
)

const keyTotalScore = "rating:supplier:%s"

// RedisScoreCache keeps total scores hot during a fan-out. A nil client is
// legal and behaves as an always-miss cache.
type RedisScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisScoreCache(client *redis.Client, ttl time.Duration) ratingdomain.ScoreCache {
	return &RedisScoreCache{client: client, ttl: ttl}
}

func (c *RedisScoreCache) Get(ctx context.Context, supplierID snowflake.ID) (float64, bool, error) {
	if c == nil || c.client == nil {
		return 0, false, nil
	}
	value, err := c.client.Get(ctx, c.key(supplierID)).Float64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return value, true, nil
}

func (c *RedisScoreCache) Set(ctx context.Context, supplierID snowflake.ID, total float64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, c.key(supplierID), total, c.ttl).Err()
}

func (c *RedisScoreCache) Delete(ctx context.Context, supplierID snowflake.ID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(supplierID)).Err()
}

func (c *RedisScoreCache) key(supplierID snowflake.ID) string {
	return fmt.Sprintf(keyTotalScore, supplierID.String())
}
