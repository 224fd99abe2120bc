package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pair-programming-backend/domains/message"
	"pair-programming-backend/domains/notification/application/port"
)

const notificationSentTTL = 24 * time.Hour

type NotificationDedupeAdapter struct {
	client    *redis.Client
	keyFormat string
	ttl       time.Duration
}

func NewNotificationDedupePort(client *redis.Client) port.NotificationDedupePort {
	return &NotificationDedupeAdapter{
		client:    client,
		keyFormat: "notification:sent:%s:%s:%d",
		ttl:       notificationSentTTL,
	}
}

func (a *NotificationDedupeAdapter) MarkSent(ctx context.Context, msg *message.PairNotificationMessage) (bool, error) {
	value := msg.RequestID
	if value == "" {
		value = "true"
	}
	return a.client.SetNX(ctx, a.key(msg), value, a.ttl).Result()
}

func (a *NotificationDedupeAdapter) Release(ctx context.Context, msg *message.PairNotificationMessage) error {
	return a.client.Del(ctx, a.key(msg)).Err()
}

func (a *NotificationDedupeAdapter) key(msg *message.PairNotificationMessage) string {
	return fmt.Sprintf(a.keyFormat, msg.RecipientID, msg.PartnerID, msg.PairedAt.Unix())
}
