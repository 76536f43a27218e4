package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"carpool-service/pkg/config"
)

// Client wraps the Redis connection.
type Client struct {
	rdb *goredis.Client
	log *zap.Logger
}

// NewClient connects to Redis with retry.
func NewClient(cfg *config.Config, log *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr})
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err == nil {
			cancel()
			log.Info("connected to Redis")
			return &Client{rdb: rdb, log: log}, nil
		}
		cancel()
		log.Info("waiting for Redis...", zap.Int("attempt", i+1))
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

// SetJSON stores a JSON-serialised value under key with a TTL.
func (c *Client) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// GetJSON loads a JSON value into dest. Returns false when the key is absent.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

// Delete removes one or more keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
