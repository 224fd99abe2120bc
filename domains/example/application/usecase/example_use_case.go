package usecase

import "context"

// ExampleUseCase backs the placeholder /example endpoints that prove the
// service can reach its dependencies.
type ExampleUseCase interface {
	Ping(ctx context.Context) bool
	RoundTripDocument(ctx context.Context) (map[string]interface{}, error)
	ProbeLocalstack(ctx context.Context) (int, error)
}
