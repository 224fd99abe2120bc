package port

import (
	"context"
	"errors"
)

// ErrDeliveryDisabled is returned by senders that are not configured to send anything.
var ErrDeliveryDisabled = errors.New("email delivery is disabled")

type EmailSenderPort interface {
	// SendPairEmail tells toEmail who their new partner is and returns the provider's notification id.
	SendPairEmail(ctx context.Context, toEmail, pairName, pairEmail string) (string, error)
}
