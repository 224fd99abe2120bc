package usecase

import (
	"context"

	"pair-programming-backend/domains/message"
)

type DeliveryReport struct {
	Sent    int
	Skipped int
	Failed  int
}

type DeliverPairNotificationUseCase interface {
	Deliver(ctx context.Context, msgs []*message.PairNotificationMessage) (*DeliveryReport, error)
}
