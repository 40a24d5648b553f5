package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// redisCache implements Cache on top of a Redis server.
type redisCache struct {
	client *redis.Client
	ctx    context.Context
	logger *zap.Logger
}

// RedisConfig contains options for connecting to Redis.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisCache connects to Redis and verifies the connection with a ping.
func NewRedisCache(cfg RedisConfig, logger *zap.Logger) (Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	logger.Info("connected to Redis", zap.String("address", cfg.Address))
	return &redisCache{client: rdb, ctx: ctx, logger: logger}, nil
}

// Get retrieves a value. A missing key returns "" with no error.
func (r *redisCache) Get(key string) (string, error) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		r.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return val, nil
}

// Set stores a value with an expiration.
func (r *redisCache) Set(key string, value interface{}, expiration time.Duration) error {
	if err := r.client.Set(r.ctx, key, value, expiration).Err(); err != nil {
		r.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a value.
func (r *redisCache) Delete(key string) error {
	if err := r.client.Del(r.ctx, key).Err(); err != nil {
		r.logger.Warn("redis delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
