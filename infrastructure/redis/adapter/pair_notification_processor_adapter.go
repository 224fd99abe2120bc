package adapter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pair-programming-backend/domains/message"
	"pair-programming-backend/domains/notification/application/usecase"
	"pair-programming-backend/infrastructure/redis/consumer"
	"pair-programming-backend/shared/common/logger"
)

type PairNotificationProcessorAdapter struct {
	deliverUseCase usecase.DeliverPairNotificationUseCase
}

func NewPairNotificationProcessorAdapter(deliverUseCase usecase.DeliverPairNotificationUseCase) consumer.MessageProcessor {
	return &PairNotificationProcessorAdapter{
		deliverUseCase: deliverUseCase,
	}
}

func (a *PairNotificationProcessorAdapter) ProcessBatch(ctx context.Context, messages []redis.XMessage) error {
	if len(messages) == 0 {
		return nil
	}

	msgs := a.parseMessages(messages)
	if len(msgs) == 0 {
		return nil
	}

	report, err := a.deliverUseCase.Deliver(ctx, msgs)
	if err != nil {
		return fmt.Errorf("failed to deliver pair notifications: %w", err)
	}

	logger.Debug("Processed pair notification batch",
		zap.Int("batch_size", len(msgs)),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return nil
}

func (a *PairNotificationProcessorAdapter) parseMessages(messages []redis.XMessage) []*message.PairNotificationMessage {
	msgs := make([]*message.PairNotificationMessage, 0, len(messages))
	for _, m := range messages {
		msg, err := message.ParseFromRedisValues(m.Values)
		if err != nil {
			// skip invalid messages but keep the rest of the batch
			logger.Warn("Error parsing message", zap.String("message_id", m.ID), logger.WithError(err))
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}
