package user

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryRepository creates a new in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users: make(map[string]*User),
	}
}

// Get retrieves a user by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	cpy := *u
	return &cpy, nil
}

// GetByEmail retrieves a user by email address.
func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			cpy := *u
			return &cpy, nil
		}
	}
	return nil, ErrUserNotFound
}

// Create creates a new user.
func (r *InMemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *u
	r.users[u.ID] = &cpy
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
