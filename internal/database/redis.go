package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wallpix/backend/internal/config"
	"github.com/wallpix/backend/pkg/logger"
)

// ConnectRedis opens and pings a Redis client for the share-view cache.
// Returns nil when no address is configured; callers treat a nil client as
// "no cache".
func ConnectRedis(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis_unavailable", map[string]interface{}{
			"addr":  cfg.Addr,
			"error": err.Error(),
		})
		return nil
	}

	logger.Info("redis_connected", map[string]interface{}{"addr": cfg.Addr})
	return rdb
}
