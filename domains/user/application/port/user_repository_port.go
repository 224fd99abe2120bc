package port

import (
	"context"

	"pair-programming-backend/domains/user/domain"
)

type UserRepositoryPort interface {
	// Save inserts user and returns its new id. A duplicate email yields domain.ErrUserAlreadyRegistered.
	Save(ctx context.Context, user *domain.User) (string, error)
	// FindByEmail returns nil, nil when no user has email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindFirstExcluding returns the first user whose id is not in excludeIDs, or nil, nil.
	FindFirstExcluding(ctx context.Context, excludeIDs []string) (*domain.User, error)
	AddPairing(ctx context.Context, userID, partnerID string) error
}
