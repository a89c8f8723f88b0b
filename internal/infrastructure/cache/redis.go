package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trananhdev/meeting-minutes/pkg/config"
)

// DedupeStore is the advisory first-seen check used by the webhook gateway.
// The durable dedupe lives in the job store; this only cuts down on
// redundant inserts under provider redelivery storms.
type DedupeStore interface {
	// SetNX records key if absent and reports whether this caller was first.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

// RedisStore is the Redis-backed DedupeStore
type RedisStore struct {
	client *redis.Client
}

// NewRedisClient creates a Redis client and verifies connectivity
func NewRedisClient(cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// SetNX implements DedupeStore
func (r *RedisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, ttl).Result()
}

// Close closes the underlying connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
