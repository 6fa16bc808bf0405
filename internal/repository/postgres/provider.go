package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mandado/internal/domain"
	"mandado/internal/repository"
)

// ProviderRepository is a PostgreSQL implementation of repository.ProviderRepository.
type ProviderRepository struct {
	q Querier
}

// NewProviderRepository creates a new PostgreSQL provider repository.
func NewProviderRepository(db *sql.DB) *ProviderRepository {
	return &ProviderRepository{q: db}
}

// NewProviderRepositoryWithTx creates a provider repository using a transaction.
func NewProviderRepositoryWithTx(tx *sql.Tx) *ProviderRepository {
	return &ProviderRepository{q: tx}
}

// Create adds a new provider profile.
func (r *ProviderRepository) Create(ctx context.Context, provider *domain.Provider) error {
	query := `
		INSERT INTO providers (id, user_id, name, phone, vehicle, plate, rating, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.ExecContext(ctx, query,
		provider.ID,
		provider.UserID,
		provider.Name,
		provider.Phone,
		provider.Vehicle,
		provider.Plate,
		provider.Rating,
		provider.Status,
	)
	return err
}

// GetByID retrieves a provider by ID.
func (r *ProviderRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	return r.getBy(ctx, "id", id)
}

// GetByUserID retrieves the provider profile owned by a user.
func (r *ProviderRepository) GetByUserID(ctx context.Context, userID string) (*domain.Provider, error) {
	return r.getBy(ctx, "user_id", userID)
}

func (r *ProviderRepository) getBy(ctx context.Context, column, value string) (*domain.Provider, error) {
	query := `
		SELECT id, user_id, name, phone, vehicle, plate, rating, status
		FROM providers WHERE ` + column + ` = $1
	`

	var provider domain.Provider
	err := r.q.QueryRowContext(ctx, query, value).Scan(
		&provider.ID,
		&provider.UserID,
		&provider.Name,
		&provider.Phone,
		&provider.Vehicle,
		&provider.Plate,
		&provider.Rating,
		&provider.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &provider, nil
}

// GetAll retrieves all providers.
func (r *ProviderRepository) GetAll(ctx context.Context) ([]*domain.Provider, error) {
	query := `SELECT id, user_id, name, phone, vehicle, plate, rating, status FROM providers`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []*domain.Provider
	for rows.Next() {
		var provider domain.Provider
		if err := rows.Scan(
			&provider.ID,
			&provider.UserID,
			&provider.Name,
			&provider.Phone,
			&provider.Vehicle,
			&provider.Plate,
			&provider.Rating,
			&provider.Status,
		); err != nil {
			return nil, err
		}
		providers = append(providers, &provider)
	}
	return providers, rows.Err()
}

// UpdateStatus updates the availability of a provider.
func (r *ProviderRepository) UpdateStatus(ctx context.Context, id string, status domain.ProviderStatus) error {
	result, err := r.q.ExecContext(ctx, `UPDATE providers SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateRating stores a new average rating for a provider.
func (r *ProviderRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	result, err := r.q.ExecContext(ctx, `UPDATE providers SET rating = $1 WHERE id = $2`, rating, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}
