package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"pair-programming-backend/domains/message"
	notificationPort "pair-programming-backend/domains/notification/application/port"
	"pair-programming-backend/domains/user/application/port"
	"pair-programming-backend/domains/user/application/usecase"
	"pair-programming-backend/domains/user/domain"
	"pair-programming-backend/shared/common/logger"
	"pair-programming-backend/shared/common/metrics"
	"pair-programming-backend/shared/common/tracing"
)

type PairingService struct {
	repo      port.UserRepositoryPort
	publisher notificationPort.PairNotificationPublisherPort
	metrics   metrics.Recorder
	now       func() time.Time
}

func NewPairingService(
	repo port.UserRepositoryPort,
	publisher notificationPort.PairNotificationPublisherPort,
	recorder metrics.Recorder,
) usecase.PairingUseCase {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return &PairingService{
		repo:      repo,
		publisher: publisher,
		metrics:   recorder,
		now:       time.Now,
	}
}

// Pair matches the user with email to someone they have not paired with yet.
// Once everyone has been paired with, any other user is accepted.
func (s *PairingService) Pair(ctx context.Context, email string) (_ *domain.PairResult, err error) {
	ctx, span := tracing.Start(ctx, "PairingService.Pair")
	defer func() { tracing.End(span, err) }()

	email, err = domain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	partner, err := s.findPartner(ctx, user)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		logger.Info("No partner available", logger.WithString("user_id", user.ID), logger.WithRequestID(ctx))
		return domain.NewUnpairedResult(), nil
	}

	if err := s.repo.AddPairing(ctx, user.ID, partner.ID); err != nil {
		return nil, fmt.Errorf("failed to record pairing: %w", err)
	}
	if err := s.repo.AddPairing(ctx, partner.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to record pairing: %w", err)
	}
	// the returned partner keeps the paired list it had before this pairing
	span.SetAttributes(attribute.String("partner.id", partner.ID))

	s.metrics.Count(ctx, metrics.UserPaired, 1)
	logger.Info("Users paired",
		logger.WithString("user_id", user.ID),
		logger.WithString("partner_id", partner.ID),
		logger.WithRequestID(ctx))

	s.notify(ctx, user, partner)

	return domain.NewPairedResult(partner), nil
}

func (s *PairingService) findPartner(ctx context.Context, user *domain.User) (*domain.User, error) {
	partner, err := s.repo.FindFirstExcluding(ctx, user.PairExclusions())
	if err != nil {
		return nil, fmt.Errorf("failed to find partner: %w", err)
	}
	if partner != nil {
		return partner, nil
	}

	// every other user has been paired with already
	partner, err = s.repo.FindFirstExcluding(ctx, []string{user.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to find partner: %w", err)
	}
	return partner, nil
}

// notify failures never fail the pairing itself.
func (s *PairingService) notify(ctx context.Context, user, partner *domain.User) {
	if s.publisher == nil {
		return
	}

	pairedAt := s.now()
	requestID := logger.RequestID(ctx)
	msgs := []*message.PairNotificationMessage{
		message.NewPairNotificationMessage(user.ID, user.Name, user.Email, partner.ID, partner.Name, partner.Email, pairedAt, requestID),
		message.NewPairNotificationMessage(partner.ID, partner.Name, partner.Email, user.ID, user.Name, user.Email, pairedAt, requestID),
	}

	if err := s.publisher.Publish(ctx, msgs); err != nil {
		s.metrics.Count(ctx, metrics.PairNotificationFailed, float64(len(msgs)))
		logger.Error("Error publishing pair notifications",
			logger.WithString("user_id", user.ID),
			logger.WithString("partner_id", partner.ID),
			logger.WithError(err))
	}
}
