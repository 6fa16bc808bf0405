package repository

import (
	"context"

	"mandado/internal/domain"
)

// ProviderRepository defines the persistence operations for providers.
type ProviderRepository interface {
	// Create adds a new provider profile.
	Create(ctx context.Context, provider *domain.Provider) error

	// GetByID retrieves a provider by ID.
	GetByID(ctx context.Context, id string) (*domain.Provider, error)

	// GetByUserID retrieves the provider profile owned by a user.
	GetByUserID(ctx context.Context, userID string) (*domain.Provider, error)

	// GetAll retrieves all providers.
	GetAll(ctx context.Context) ([]*domain.Provider, error)

	// UpdateStatus updates the availability of a provider.
	UpdateStatus(ctx context.Context, id string, status domain.ProviderStatus) error

	// UpdateRating stores a new average rating for a provider.
	UpdateRating(ctx context.Context, id string, rating float64) error
}
