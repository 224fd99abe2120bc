package config

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	appConfig "pair-programming-backend/shared/common/config"
)

type StreamInfo struct {
	StreamKey string
	Group     string
	Consumer  string
}

var (
	PairNotification = StreamInfo{
		StreamKey: "pair_notification_stream",
		Group:     "pair_notification_group",
		Consumer:  "pair_notification_consumer",
	}
)

// NewRedisClient connects to the configured Redis and checks it answers.
func NewRedisClient(ctx context.Context, cfg *appConfig.AppConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}
