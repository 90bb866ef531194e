package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const visitedURLPrefix = "visited:"

// RedisVisited records recently scraped URLs in Redis with an expiry
type RedisVisited struct {
	client *redis.Client
}

// NewRedisVisited connects to addr and verifies the connection
func NewRedisVisited(ctx context.Context, addr string) (*RedisVisited, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisVisited{client: client}, nil
}

// visitedKey hashes the URL into a fixed-length key
func visitedKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return visitedURLPrefix + hex.EncodeToString(sum[:])
}

// MarkVisited sets the URL's key with the given expiry
func (r *RedisVisited) MarkVisited(ctx context.Context, url string, expiry time.Duration) error {
	return r.client.Set(ctx, visitedKey(url), "1", expiry).Err()
}

// IsVisited reports whether the URL's key still exists
func (r *RedisVisited) IsVisited(ctx context.Context, url string) (bool, error) {
	n, err := r.client.Exists(ctx, visitedKey(url)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Close closes the Redis client
func (r *RedisVisited) Close() error {
	return r.client.Close()
}
