package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mandado/internal/domain"
	"mandado/internal/repository"
)

// UserRepository is a PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	q Querier
}

// NewUserRepository creates a new PostgreSQL user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

// Create adds a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, phone, cpf, account_type, password_hash, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var photoURL sql.NullString
	if user.PhotoURL != "" {
		photoURL = sql.NullString{String: user.PhotoURL, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.CPF,
		user.AccountType,
		user.PasswordHash,
		photoURL,
		user.CreatedAt,
	)
	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := `
		SELECT id, name, email, phone, cpf, account_type, password_hash, photo_url, recovery_token, created_at
		FROM users WHERE ` + column + ` = $1
	`

	var user domain.User
	var photoURL, recoveryToken sql.NullString

	err := r.q.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.CPF,
		&user.AccountType,
		&user.PasswordHash,
		&photoURL,
		&recoveryToken,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if photoURL.Valid {
		user.PhotoURL = photoURL.String
	}
	if recoveryToken.Valid {
		user.RecoveryToken = recoveryToken.String
	}

	return &user, nil
}

// UpdateProfile updates name, phone and photo for a user.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = $1, phone = $2, photo_url = $3 WHERE id = $4`

	var photoURL sql.NullString
	if user.PhotoURL != "" {
		photoURL = sql.NullString{String: user.PhotoURL, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query, user.Name, user.Phone, photoURL, user.ID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetRecoveryToken stores a password recovery token for a user.
func (r *UserRepository) SetRecoveryToken(ctx context.Context, id, token string) error {
	result, err := r.q.ExecContext(ctx, `UPDATE users SET recovery_token = $1 WHERE id = $2`, token, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdatePassword replaces the password hash and clears any recovery token.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, recovery_token = NULL WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes a user account.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// requireRow converts a zero-rows-affected result into ErrNotFound.
func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
