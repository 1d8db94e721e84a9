package server

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/ferndale/console-edge/internal/platform/logger"
)

// ConnectRedis creates the snapshot-store client and returns it with a
// cleanup function.
func ConnectRedis(ctx context.Context, config Config, log logger.Logger) (*redis.Client, func(), error) {
	log.Info(ctx, "connecting to redis", "address", config.RedisAddress)

	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	// Test the connection
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Error(ctx, "failed to ping redis", "error", err)
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info(ctx, "redis connection established successfully")

	cleanup := func() {
		log.Info(context.Background(), "closing redis client")
		_ = client.Close()
	}

	return client, cleanup, nil
}
