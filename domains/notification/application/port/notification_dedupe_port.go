package port

import (
	"context"

	"pair-programming-backend/domains/message"
)

type NotificationDedupePort interface {
	// MarkSent claims delivery of msg and reports whether this caller won the claim.
	MarkSent(ctx context.Context, msg *message.PairNotificationMessage) (bool, error)
	// Release drops a claim so a later delivery can retry.
	Release(ctx context.Context, msg *message.PairNotificationMessage) error
}
