package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"pair-programming-backend/domains/user/application/port"
	"pair-programming-backend/domains/user/application/usecase"
	"pair-programming-backend/domains/user/domain"
	"pair-programming-backend/shared/common/logger"
	"pair-programming-backend/shared/common/metrics"
	"pair-programming-backend/shared/common/tracing"
)

type UserService struct {
	repo    port.UserRepositoryPort
	metrics metrics.Recorder
}

func NewUserService(repo port.UserRepositoryPort, recorder metrics.Recorder) usecase.UserUseCase {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return &UserService{
		repo:    repo,
		metrics: recorder,
	}
}

func (s *UserService) Register(ctx context.Context, name, email string) (_ *domain.User, err error) {
	ctx, span := tracing.Start(ctx, "UserService.Register")
	defer func() { tracing.End(span, err) }()

	user, err := domain.NewUser(name, email)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyRegistered
	}

	id, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	user.ID = id
	span.SetAttributes(attribute.String("user.id", id))

	s.metrics.Count(ctx, metrics.UserRegistered, 1)
	logger.Info("User registered",
		logger.WithString("user_id", id),
		logger.WithRequestID(ctx))
	return user, nil
}

func (s *UserService) List(ctx context.Context) (_ []*domain.User, err error) {
	ctx, span := tracing.Start(ctx, "UserService.List")
	defer func() { tracing.End(span, err) }()

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}
