package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "studymentor:"

// RedisSlotRepo keeps slots as plain string keys in Redis.
type RedisSlotRepo struct {
	client *redis.Client
	prefix string
}

// RedisURLFromEnv returns STUDYMENTOR_REDIS_URL.
func RedisURLFromEnv() string {
	return os.Getenv("STUDYMENTOR_REDIS_URL")
}

// NewRedisSlotRepo connects to the Redis instance at url and verifies it
// responds to PING.
func NewRedisSlotRepo(ctx context.Context, url string) (*RedisSlotRepo, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisSlotRepoFromClient(client), nil
}

// NewRedisSlotRepoFromClient wraps an existing client.
func NewRedisSlotRepoFromClient(client *redis.Client) *RedisSlotRepo {
	return &RedisSlotRepo{client: client, prefix: defaultRedisPrefix}
}

func (r *RedisSlotRepo) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", key, err)
	}
	return data, nil
}

func (r *RedisSlotRepo) Write(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

func (r *RedisSlotRepo) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("clear slot %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisSlotRepo) Close() error {
	return r.client.Close()
}
