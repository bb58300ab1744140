// Package user provides crew member identity services.
package user

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrUserNotFound = errors.New("user not found")
)

// User represents a crew member or administrator.
type User struct {
	ID    string
	Name  string
	Email string

	// PasswordHash is a bcrypt hash; never exposed through the API.
	PasswordHash string

	// Admin grants access to approval and flight-management endpoints.
	Admin bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the best human-readable identifier for error and
// conflict messages: the name when set, otherwise the email, otherwise the id.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
