package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"pair-programming-backend/domains/message"
	"pair-programming-backend/domains/user/domain"
)

var (
	errMockStore   = errors.New("store unavailable")
	errMockPublish = errors.New("stream unavailable")
)

// memoryUserRepository keeps users in insertion order, like a collection scanned by _id.
type memoryUserRepository struct {
	mu      sync.Mutex
	users   []*domain.User
	nextID  int
	pairing [][2]string

	FindByEmailErr error
	SaveErr        error
	FindAllErr     error
	FindFirstErr   error
	AddPairingErr  error
}

func (r *memoryUserRepository) add(name, email string, pairedWith ...string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u := &domain.User{
		ID:         fmt.Sprintf("%024d", r.nextID),
		Name:       name,
		Email:      email,
		PairedWith: append([]string{}, pairedWith...),
	}
	r.users = append(r.users, u)
	return u
}

func (r *memoryUserRepository) copyOf(u *domain.User) *domain.User {
	c := *u
	c.PairedWith = append([]string{}, u.PairedWith...)
	return &c
}

func (r *memoryUserRepository) Save(_ context.Context, user *domain.User) (string, error) {
	if r.SaveErr != nil {
		return "", r.SaveErr
	}
	stored := r.add(user.Name, user.Email, user.PairedWith...)
	return stored.ID, nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.FindByEmailErr != nil {
		return nil, r.FindByEmailErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return r.copyOf(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindAll(_ context.Context) ([]*domain.User, error) {
	if r.FindAllErr != nil {
		return nil, r.FindAllErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		out = append(out, r.copyOf(u))
	}
	return out, nil
}

func (r *memoryUserRepository) FindFirstExcluding(_ context.Context, excludeIDs []string) (*domain.User, error) {
	if r.FindFirstErr != nil {
		return nil, r.FindFirstErr
	}
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if !excluded[u.ID] {
			return r.copyOf(u), nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) AddPairing(_ context.Context, userID, partnerID string) error {
	if r.AddPairingErr != nil {
		return r.AddPairingErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pairing = append(r.pairing, [2]string{userID, partnerID})
	for _, u := range r.users {
		if u.ID == userID {
			u.AddPairing(partnerID)
			return nil
		}
	}
	return nil
}

func (r *memoryUserRepository) get(id string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return r.copyOf(u)
		}
	}
	return nil
}

type mockPublisher struct {
	PublishFunc func(ctx context.Context, msgs []*message.PairNotificationMessage) error
	published   []*message.PairNotificationMessage
}

func (m *mockPublisher) Publish(ctx context.Context, msgs []*message.PairNotificationMessage) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(ctx, msgs); err != nil {
			return err
		}
	}
	m.published = append(m.published, msgs...)
	return nil
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]float64
}

func (r *countingRecorder) Count(_ context.Context, name string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = make(map[string]float64)
	}
	r.counts[name] += value
}

func (r *countingRecorder) get(name string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}
