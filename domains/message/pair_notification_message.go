package message

import (
	"fmt"
	"time"
)

// PairNotificationMessage asks for RecipientEmail to be told who they were paired with.
type PairNotificationMessage struct {
	RecipientID    string    `json:"recipientId"`
	RecipientName  string    `json:"recipientName"`
	RecipientEmail string    `json:"recipientEmail"`
	PartnerID      string    `json:"partnerId"`
	PartnerName    string    `json:"partnerName"`
	PartnerEmail   string    `json:"partnerEmail"`
	PairedAt       time.Time `json:"pairedAt"`
	RequestID      string    `json:"requestId"`
}

func NewPairNotificationMessage(
	recipientID, recipientName, recipientEmail string,
	partnerID, partnerName, partnerEmail string,
	pairedAt time.Time,
	requestID string,
) *PairNotificationMessage {
	return &PairNotificationMessage{
		RecipientID:    recipientID,
		RecipientName:  recipientName,
		RecipientEmail: recipientEmail,
		PartnerID:      partnerID,
		PartnerName:    partnerName,
		PartnerEmail:   partnerEmail,
		PairedAt:       pairedAt,
		RequestID:      requestID,
	}
}

// ToRedisValues converts the message to Redis stream values
func (m *PairNotificationMessage) ToRedisValues() map[string]interface{} {
	return map[string]interface{}{
		"recipientId":    m.RecipientID,
		"recipientName":  m.RecipientName,
		"recipientEmail": m.RecipientEmail,
		"partnerId":      m.PartnerID,
		"partnerName":    m.PartnerName,
		"partnerEmail":   m.PartnerEmail,
		"pairedAt":       m.PairedAt.UTC().Format(time.RFC3339),
		"requestId":      m.RequestID,
	}
}

// ParseFromRedisValues creates a message from Redis stream values (all strings)
func ParseFromRedisValues(values map[string]interface{}) (*PairNotificationMessage, error) {
	getString := func(key string) string {
		if v, ok := values[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
		return ""
	}

	msg := &PairNotificationMessage{
		RecipientID:    getString("recipientId"),
		RecipientName:  getString("recipientName"),
		RecipientEmail: getString("recipientEmail"),
		PartnerID:      getString("partnerId"),
		PartnerName:    getString("partnerName"),
		PartnerEmail:   getString("partnerEmail"),
		RequestID:      getString("requestId"),
	}

	if msg.RecipientEmail == "" || msg.PartnerEmail == "" {
		return nil, fmt.Errorf("pair notification is missing recipient or partner email")
	}

	// pairedAt is part of the dedupe key, so a message without a usable one is rejected
	pairedAt, err := time.Parse(time.RFC3339, getString("pairedAt"))
	if err != nil {
		return nil, fmt.Errorf("pair notification has an invalid pairedAt: %w", err)
	}
	msg.PairedAt = pairedAt

	return msg, nil
}
