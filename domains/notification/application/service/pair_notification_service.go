package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"pair-programming-backend/domains/message"
	"pair-programming-backend/domains/notification/application/port"
	"pair-programming-backend/domains/notification/application/usecase"
	"pair-programming-backend/shared/common/logger"
	"pair-programming-backend/shared/common/metrics"
	"pair-programming-backend/shared/common/tracing"
)

type outcome int

const (
	sent outcome = iota
	skipped
	failed
)

type PairNotificationService struct {
	sender  port.EmailSenderPort
	dedupe  port.NotificationDedupePort
	metrics metrics.Recorder
}

func NewPairNotificationService(
	sender port.EmailSenderPort,
	dedupe port.NotificationDedupePort,
	recorder metrics.Recorder,
) usecase.DeliverPairNotificationUseCase {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return &PairNotificationService{
		sender:  sender,
		dedupe:  dedupe,
		metrics: recorder,
	}
}

// Deliver sends one email per message. Individual failures are counted, logged and released
// for a later retry; they do not stop the rest of the batch.
func (s *PairNotificationService) Deliver(ctx context.Context, msgs []*message.PairNotificationMessage) (*usecase.DeliveryReport, error) {
	ctx, span := tracing.Start(ctx, "PairNotificationService.Deliver", attribute.Int("batch.size", len(msgs)))
	defer span.End()

	report := &usecase.DeliveryReport{}
	for _, msg := range msgs {
		switch s.deliver(ctx, msg) {
		case sent:
			report.Sent++
		case skipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}

	span.SetAttributes(
		attribute.Int("notifications.sent", report.Sent),
		attribute.Int("notifications.skipped", report.Skipped),
		attribute.Int("notifications.failed", report.Failed))
	return report, nil
}

func (s *PairNotificationService) deliver(ctx context.Context, msg *message.PairNotificationMessage) outcome {
	claimed := true
	if s.dedupe != nil {
		var err error
		claimed, err = s.dedupe.MarkSent(ctx, msg)
		if err != nil {
			// at-least-once: send anyway if the dedupe store is down
			logger.Warn("Error claiming pair notification",
				logger.WithString("recipient_id", msg.RecipientID),
				logger.WithError(err))
			claimed = true
		}
	}
	if !claimed {
		logger.Debug("Pair notification already sent",
			logger.WithString("recipient_id", msg.RecipientID),
			logger.WithString("partner_id", msg.PartnerID))
		return skipped
	}

	notificationID, err := s.sender.SendPairEmail(ctx, msg.RecipientEmail, msg.PartnerName, msg.PartnerEmail)
	if errors.Is(err, port.ErrDeliveryDisabled) {
		logger.Debug("Email delivery disabled, skipping pair notification",
			logger.WithString("recipient_id", msg.RecipientID),
			logger.WithString("partner_id", msg.PartnerID))
		s.release(ctx, msg)
		return skipped
	}
	if err != nil {
		s.metrics.Count(ctx, metrics.PairNotificationFailed, 1)
		logger.Error("Error sending pair notification",
			logger.WithString("recipient_id", msg.RecipientID),
			logger.WithString("partner_id", msg.PartnerID),
			logger.WithString("request_id", msg.RequestID),
			logger.WithError(err))
		s.release(ctx, msg)
		return failed
	}

	s.metrics.Count(ctx, metrics.PairNotificationSent, 1)
	logger.Info("Pair notification sent",
		logger.WithString("recipient_id", msg.RecipientID),
		logger.WithString("partner_id", msg.PartnerID),
		logger.WithString("notification_id", notificationID))
	return sent
}

// release drops the dedupe claim so a later delivery of msg is not skipped.
func (s *PairNotificationService) release(ctx context.Context, msg *message.PairNotificationMessage) {
	if s.dedupe == nil {
		return
	}
	if err := s.dedupe.Release(ctx, msg); err != nil {
		logger.Warn("Error releasing pair notification claim", logger.WithError(err))
	}
}
