package domain

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// User is a developer that can be paired with others.
// PairedWith holds the hex ids of every user this one has been paired with.
type User struct {
	ID         string
	Name       string
	Email      string
	PairedWith []string
}

func NewUser(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidUser)
	}

	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	return &User{
		Name:       name,
		Email:      email,
		PairedWith: []string{},
	}, nil
}

// NormalizeEmail trims and lower-cases email after checking it is a valid address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validate.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: invalid email %q", ErrInvalidUser, email)
	}
	return email, nil
}

func (u *User) IsPairedWith(userID string) bool {
	for _, id := range u.PairedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// AddPairing records userID once, mirroring $addToSet in the store.
func (u *User) AddPairing(userID string) {
	if !u.IsPairedWith(userID) {
		u.PairedWith = append(u.PairedWith, userID)
	}
}

// PairExclusions returns the ids that must not be offered as a fresh partner.
func (u *User) PairExclusions() []string {
	ids := make([]string, 0, len(u.PairedWith)+1)
	ids = append(ids, u.ID)
	return append(ids, u.PairedWith...)
}
