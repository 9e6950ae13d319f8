package db

import (
	"context"
	"fmt"
	"time"

	"sneakerwears-be/internal/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects the product cache. The cache is optional: callers get a
// nil client back on failure and must treat every cache miss as a DB read.
func InitRedis(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
