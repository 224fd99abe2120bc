package service

import (
	"context"
	"fmt"
	"strings"

	"pair-programming-backend/domains/example/application/port"
	"pair-programming-backend/domains/example/application/usecase"
	"pair-programming-backend/shared/common/logger"
)

type ExampleService struct {
	repo          port.ExampleRepositoryPort
	probe         port.HTTPProbePort
	localstackURL string
}

func NewExampleService(repo port.ExampleRepositoryPort, probe port.HTTPProbePort, localstackURL string) usecase.ExampleUseCase {
	return &ExampleService{
		repo:          repo,
		probe:         probe,
		localstackURL: strings.TrimRight(localstackURL, "/"),
	}
}

func (s *ExampleService) Ping(ctx context.Context) bool {
	logger.Info("TEST ENDPOINT", logger.WithRequestID(ctx))
	return true
}

func (s *ExampleService) RoundTripDocument(ctx context.Context) (map[string]interface{}, error) {
	if err := s.repo.Insert(ctx, map[string]interface{}{"foo": "bar"}); err != nil {
		return nil, fmt.Errorf("failed to insert example document: %w", err)
	}

	doc, err := s.repo.FindOne(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read example document: %w", err)
	}
	return doc, nil
}

func (s *ExampleService) ProbeLocalstack(ctx context.Context) (int, error) {
	status, err := s.probe.Get(ctx, s.localstackURL+"/health")
	if err != nil {
		return 0, fmt.Errorf("failed to reach localstack: %w", err)
	}
	return status, nil
}
