package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// UsageRedisRepository keeps the running token total in a Redis counter.
type UsageRedisRepository struct {
	client *redis.Client
	key    string
}

// NewUsageRedisRepository constructs the repository.
func NewUsageRedisRepository(client *redis.Client, key string) *UsageRedisRepository {
	return &UsageRedisRepository{client: client, key: key}
}

// Add increments the counter and returns the new total.
func (r *UsageRedisRepository) Add(ctx context.Context, tokens int64) (int64, error) {
	total, err := r.client.IncrBy(ctx, r.key, tokens).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incrby %s: %w", r.key, err)
	}
	return total, nil
}

// Total reads the counter, zero when the key does not exist.
func (r *UsageRedisRepository) Total(ctx context.Context) (int64, error) {
	total, err := r.client.Get(ctx, r.key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return total, nil
}
