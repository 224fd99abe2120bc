package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

var errMockExample = errors.New("boom")

type mockExampleRepository struct {
	InsertFunc  func(ctx context.Context, doc map[string]interface{}) error
	FindOneFunc func(ctx context.Context) (map[string]interface{}, error)
	inserted    []map[string]interface{}
}

func (m *mockExampleRepository) Insert(ctx context.Context, doc map[string]interface{}) error {
	m.inserted = append(m.inserted, doc)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, doc)
	}
	return nil
}

func (m *mockExampleRepository) FindOne(ctx context.Context) (map[string]interface{}, error) {
	if m.FindOneFunc != nil {
		return m.FindOneFunc(ctx)
	}
	if len(m.inserted) == 0 {
		return nil, nil
	}
	return m.inserted[0], nil
}

type mockProbe struct {
	GetFunc func(ctx context.Context, url string) (int, error)
	urls    []string
}

func (m *mockProbe) Get(ctx context.Context, url string) (int, error) {
	m.urls = append(m.urls, url)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, url)
	}
	return 200, nil
}

func TestPing(t *testing.T) {
	svc := NewExampleService(&mockExampleRepository{}, &mockProbe{}, "")
	if !svc.Ping(context.Background()) {
		t.Error("Ping() = false")
	}
}

func TestRoundTripDocument(t *testing.T) {
	repo := &mockExampleRepository{}
	svc := NewExampleService(repo, &mockProbe{}, "")

	doc, err := svc.RoundTripDocument(context.Background())
	if err != nil {
		t.Fatalf("RoundTripDocument() error = %v", err)
	}
	if want := map[string]interface{}{"foo": "bar"}; !reflect.DeepEqual(doc, want) {
		t.Errorf("doc = %v, want %v", doc, want)
	}
}

func TestRoundTripDocumentFailures(t *testing.T) {
	tests := []struct {
		name string
		repo *mockExampleRepository
	}{
		{"insert", &mockExampleRepository{InsertFunc: func(context.Context, map[string]interface{}) error { return errMockExample }}},
		{"find", &mockExampleRepository{FindOneFunc: func(context.Context) (map[string]interface{}, error) { return nil, errMockExample }}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewExampleService(tt.repo, &mockProbe{}, "")
			if _, err := svc.RoundTripDocument(context.Background()); !errors.Is(err, errMockExample) {
				t.Errorf("error = %v, want %v", err, errMockExample)
			}
		})
	}
}

func TestProbeLocalstack(t *testing.T) {
	probe := &mockProbe{}
	svc := NewExampleService(&mockExampleRepository{}, probe, "http://localstack:4566/")

	status, err := svc.ProbeLocalstack(context.Background())
	if err != nil {
		t.Fatalf("ProbeLocalstack() error = %v", err)
	}
	if status != 200 {
		t.Errorf("status = %d, want 200", status)
	}
	if len(probe.urls) != 1 || probe.urls[0] != "http://localstack:4566/health" {
		t.Errorf("urls = %v", probe.urls)
	}

	probe.GetFunc = func(context.Context, string) (int, error) { return 0, errMockExample }
	if _, err := svc.ProbeLocalstack(context.Background()); !errors.Is(err, errMockExample) {
		t.Errorf("error = %v, want %v", err, errMockExample)
	}
}
