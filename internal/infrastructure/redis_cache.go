package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RedisOptions configures the response cache connection.
type RedisOptions struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisCache is the Redis-backed response cache. Entries never expire.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisClient opens a go-redis client with the cache timeouts.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

func NewRedisCache(client *redis.Client, prefix string, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, prefix: prefix, logger: logger}
}

// Ping verifies the connection. A failing ping does not disable the cache.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return eris.Wrap(err, "redis cache: ping")
	}
	return nil
}

func (c *RedisCache) Get(ctx context.Context, message string) (string, bool) {
	val, err := c.client.Get(ctx, c.prefix+message).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Warn("cache get failed, treating as miss", zap.Error(err))
		return "", false
	}
	return val, true
}

func (c *RedisCache) Put(ctx context.Context, message, response string) {
	if err := c.client.Set(ctx, c.prefix+message, response, 0).Err(); err != nil {
		c.logger.Warn("cache put failed", zap.Error(err))
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
