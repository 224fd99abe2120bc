package domain

import "fmt"

const NoPartnerAvailableMessage = "No other users available to pair."

// PairResult is the outcome of a pairing request. Partner is nil when nobody else is registered.
type PairResult struct {
	Partner *User
	Message string
}

func NewPairedResult(partner *User) *PairResult {
	return &PairResult{
		Partner: partner,
		Message: fmt.Sprintf("Paired with %s (%s)", partner.Name, partner.Email),
	}
}

func NewUnpairedResult() *PairResult {
	return &PairResult{Message: NoPartnerAvailableMessage}
}
