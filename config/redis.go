package config

import (
	"fmt"
	"log/slog"

	"github.com/go-redis/redis"
)

// InitRedis connects to the Redis instance backing the query embedding cache.
// It returns a nil client when no address is configured.
func InitRedis(cfg *Config) (*redis.Client, error) {
	addr := cfg.Redis.Addr
	if addr == "" {
		slog.Info("redis addr empty, skipping redis init")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})

	if _, err := client.Ping().Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis initialized", "addr", addr)
	return client, nil
}
