package repository

import (
	"context"

	"mandado/internal/domain"
)

// RequestRepository defines the persistence operations for service requests.
type RequestRepository interface {
	// Create persists a new service request.
	Create(ctx context.Context, req *domain.ServiceRequest) error

	// GetByID retrieves a service request by ID.
	GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error)

	// ListByRequester retrieves the requests created by a user, newest first.
	ListByRequester(ctx context.Context, requesterID string) ([]*domain.ServiceRequest, error)

	// ListPending retrieves requests still waiting for a provider.
	ListPending(ctx context.Context) ([]*domain.ServiceRequest, error)

	// Update updates an existing service request.
	Update(ctx context.Context, req *domain.ServiceRequest) error
}
