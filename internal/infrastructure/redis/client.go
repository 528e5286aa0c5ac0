// Package redis provides Redis connection and caching utilities.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mutugading/marketplace-backend/internal/infrastructure/config"
)

const keyPrefix = "marketplace:"

// Client wraps the Redis client with key prefixing.
type Client struct {
	client *redis.Client
	prefix string
}

// NewClient creates a new Redis client and verifies the connection.
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().
		Str("address", cfg.Address()).
		Int("db", cfg.DB).
		Msg("Redis connection established")

	return &Client{client: client, prefix: keyPrefix}, nil
}

// Close closes the Redis client.
func (c *Client) Close() error {
	return c.client.Close()
}

// Ping checks if Redis is available.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get retrieves a value from cache.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, c.prefix+key).Result()
}

// Set stores a value in cache with TTL.
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Exists reports whether key is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes keys from cache.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	prefixedKeys := make([]string, len(keys))
	for i, k := range keys {
		prefixedKeys[i] = c.prefix + k
	}
	return c.client.Del(ctx, prefixedKeys...).Err()
}

// MGet retrieves several values at once. Missing keys yield empty strings
// and false in the matching position of found.
func (c *Client) MGet(ctx context.Context, keys ...string) (values []string, found []bool, err error) {
	prefixedKeys := make([]string, len(keys))
	for i, k := range keys {
		prefixedKeys[i] = c.prefix + k
	}
	raw, err := c.client.MGet(ctx, prefixedKeys...).Result()
	if err != nil {
		return nil, nil, err
	}
	values = make([]string, len(raw))
	found = make([]bool, len(raw))
	for i, v := range raw {
		if s, ok := v.(string); ok {
			values[i] = s
			found[i] = true
		}
	}
	return values, found, nil
}
