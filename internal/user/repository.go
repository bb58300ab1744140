package user

import "context"

// Repository defines the interface for user data persistence.
type Repository interface {
	// Get retrieves a user by ID.
	// Returns ErrUserNotFound if no such user exists.
	Get(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Create creates a new user.
	Create(ctx context.Context, user *User) error
}
