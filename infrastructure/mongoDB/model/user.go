package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pair-programming-backend/domains/user/domain"
	"pair-programming-backend/shared/common/logger"
)

type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Name       string               `bson:"name"`
	Email      string               `bson:"email"`
	PairedWith []primitive.ObjectID `bson:"paired_with"`
}

// NewUserModel converts a domain user for insertion. Ids that are not valid hex
// are dropped.
func NewUserModel(user *domain.User) *User {
	m := &User{
		Name:       user.Name,
		Email:      user.Email,
		PairedWith: ObjectIDs(user.PairedWith),
	}
	if id, err := primitive.ObjectIDFromHex(user.ID); err == nil {
		m.ID = id
	}
	return m
}

func (u *User) ToDomain() *domain.User {
	pairedWith := make([]string, 0, len(u.PairedWith))
	for _, id := range u.PairedWith {
		pairedWith = append(pairedWith, id.Hex())
	}
	return &domain.User{
		ID:         u.ID.Hex(),
		Name:       u.Name,
		Email:      u.Email,
		PairedWith: pairedWith,
	}
}

// ObjectIDs parses hex ids, skipping any that are malformed.
func ObjectIDs(hexIDs []string) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, hex := range hexIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			logger.Warn("Skipping malformed user id", logger.WithString("id", hex))
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
