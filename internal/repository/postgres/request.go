package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mandado/internal/domain"
	"mandado/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

const requestColumns = `id, requester_id, description, category, origin_lat, origin_lng, origin_address,
		destination_lat, destination_lng, destination_address, price, status, assigned_provider_id,
		paid_at, cancelled_at, cancel_reason, created_at`

// Create persists a new service request.
func (r *RequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	query := `
		INSERT INTO service_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.q.ExecContext(ctx, query,
		req.ID,
		req.RequesterID,
		req.Description,
		req.Category,
		req.OriginLat,
		req.OriginLng,
		req.OriginAddress,
		req.DestinationLat,
		req.DestinationLng,
		req.DestinationAddress,
		req.Price,
		req.Status,
		nullString(req.AssignedProviderID),
		nullTime(req.PaidAt),
		nullTime(req.CancelledAt),
		nullString(req.CancelReason),
		req.CreatedAt,
	)
	return err
}

// GetByID retrieves a service request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE id = $1`

	row := r.q.QueryRowContext(ctx, query, id)
	req, err := scanRequest(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// ListByRequester retrieves the requests created by a user, newest first.
func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE requester_id = $1 ORDER BY created_at DESC LIMIT 100`
	return r.list(ctx, query, requesterID)
}

// ListPending retrieves requests still waiting for a provider.
func (r *RequestRepository) ListPending(ctx context.Context) ([]*domain.ServiceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM service_requests WHERE status = $1 ORDER BY created_at ASC LIMIT 100`
	return r.list(ctx, query, domain.RequestStatusPendente)
}

func (r *RequestRepository) list(ctx context.Context, query string, args ...any) ([]*domain.ServiceRequest, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.ServiceRequest
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Update updates an existing service request.
func (r *RequestRepository) Update(ctx context.Context, req *domain.ServiceRequest) error {
	query := `
		UPDATE service_requests
		SET description = $1, category = $2, price = $3, status = $4, assigned_provider_id = $5,
		    paid_at = $6, cancelled_at = $7, cancel_reason = $8
		WHERE id = $9
	`

	result, err := r.q.ExecContext(ctx, query,
		req.Description,
		req.Category,
		req.Price,
		req.Status,
		nullString(req.AssignedProviderID),
		nullTime(req.PaidAt),
		nullTime(req.CancelledAt),
		nullString(req.CancelReason),
		req.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// scanRequest scans one service request row.
func scanRequest(scan func(dest ...any) error) (*domain.ServiceRequest, error) {
	var req domain.ServiceRequest
	var assignedProviderID, cancelReason sql.NullString
	var paidAt, cancelledAt sql.NullTime

	err := scan(
		&req.ID,
		&req.RequesterID,
		&req.Description,
		&req.Category,
		&req.OriginLat,
		&req.OriginLng,
		&req.OriginAddress,
		&req.DestinationLat,
		&req.DestinationLng,
		&req.DestinationAddress,
		&req.Price,
		&req.Status,
		&assignedProviderID,
		&paidAt,
		&cancelledAt,
		&cancelReason,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedProviderID.Valid {
		req.AssignedProviderID = assignedProviderID.String
	}
	if cancelReason.Valid {
		req.CancelReason = cancelReason.String
	}
	if paidAt.Valid {
		req.PaidAt = paidAt.Time
	}
	if cancelledAt.Valid {
		req.CancelledAt = cancelledAt.Time
	}

	return &req, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
