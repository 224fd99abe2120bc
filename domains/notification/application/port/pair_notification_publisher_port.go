package port

import (
	"context"

	"pair-programming-backend/domains/message"
)

type PairNotificationPublisherPort interface {
	Publish(ctx context.Context, msgs []*message.PairNotificationMessage) error
}
