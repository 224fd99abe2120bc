package domain

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserAlreadyRegistered = errors.New("user already registered")
	ErrInvalidUser           = errors.New("invalid user")
	ErrInvalidUserID         = errors.New("invalid user id")
)
