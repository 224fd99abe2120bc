package adapter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pair-programming-backend/domains/message"
	"pair-programming-backend/domains/notification/application/port"
	"pair-programming-backend/infrastructure/redis/config"
	"pair-programming-backend/shared/common/logger"
)

type PairNotificationPublisherAdapter struct {
	client *redis.Client
	stream string
}

func NewPairNotificationPublisherPort(client *redis.Client) port.PairNotificationPublisherPort {
	return &PairNotificationPublisherAdapter{
		client: client,
		stream: config.PairNotification.StreamKey,
	}
}

// Publish appends every message to the stream in one round trip.
func (a *PairNotificationPublisherAdapter) Publish(ctx context.Context, msgs []*message.PairNotificationMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	cmds, err := a.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, msg := range msgs {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: a.stream,
				Values: msg.ToRedisValues(),
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish pair notifications: %w", err)
	}

	for _, cmd := range cmds {
		if xadd, ok := cmd.(*redis.StringCmd); ok {
			logger.Debug("Pair notification queued",
				zap.String("stream", a.stream),
				zap.String("message_id", xadd.Val()))
		}
	}
	return nil
}
