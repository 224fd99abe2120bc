package web

import "pair-programming-backend/domains/user/domain"

type RegisterUserRequest struct {
	Name  string `json:"name" binding:"required,min=1"`
	Email string `json:"email" binding:"required,email"`
}

type PairRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UserResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	PairedWith []string `json:"paired_with"`
}

type PairResponse struct {
	PairedWith *UserResponse `json:"paired_with"`
	Message    string        `json:"message"`
}

func newUserResponse(user *domain.User) *UserResponse {
	pairedWith := user.PairedWith
	if pairedWith == nil {
		pairedWith = []string{}
	}
	return &UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		PairedWith: pairedWith,
	}
}

func newPairResponse(result *domain.PairResult) *PairResponse {
	resp := &PairResponse{Message: result.Message}
	if result.Partner != nil {
		resp.PairedWith = newUserResponse(result.Partner)
	}
	return resp
}
