package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kaustubhduse/medical-chatbot/internal/core/domain"
)

// MemoryUserRepository is a mutex-guarded in-memory credential store used by
// the "memory" backend and by tests. Each method copies records on the way
// in and out so callers never share mutable state with the store.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User // keyed by id
}

// NewMemoryUserRepository creates an empty in-memory store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

// Create inserts a new user and assigns its ID.
// Returns domain.ErrEmailTaken when the email is already registered.
func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	user.ID = uuid.NewString()
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns the user matching the given email, or (nil, nil).
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

// GetByID returns the user with the given id, or (nil, nil).
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	out := u
	return &out, nil
}

// Update replaces the stored record identified by user.ID.
// Returns domain.ErrEmailTaken when the email belongs to a different record.
func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, u := range r.users {
		if u.Email == user.Email && id != user.ID {
			return domain.ErrEmailTaken
		}
	}

	if _, ok := r.users[user.ID]; !ok {
		return nil
	}
	r.users[user.ID] = *user
	return nil
}
