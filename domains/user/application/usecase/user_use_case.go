package usecase

import (
	"context"

	"pair-programming-backend/domains/user/domain"
)

type UserUseCase interface {
	Register(ctx context.Context, name, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type PairingUseCase interface {
	Pair(ctx context.Context, email string) (*domain.PairResult, error)
}
