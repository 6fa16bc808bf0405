package repository

import (
	"context"

	"mandado/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create adds a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateProfile updates name, phone and photo for a user.
	UpdateProfile(ctx context.Context, user *domain.User) error

	// SetRecoveryToken stores a password recovery token for a user.
	SetRecoveryToken(ctx context.Context, id, token string) error

	// UpdatePassword replaces the password hash and clears any
	// recovery token.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Delete removes a user account.
	Delete(ctx context.Context, id string) error
}
