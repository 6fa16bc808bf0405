package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"mandado/internal/domain"
	"mandado/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Create persists a new wallet.
func (r *WalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, balance, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		wallet.ID,
		wallet.UserID,
		wallet.Balance,
		wallet.Version,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	)
	return err
}

// GetByUserID retrieves the wallet owned by a user.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	return r.getBy(ctx, "user_id", userID)
}

// GetByID retrieves a wallet by ID.
func (r *WalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	return r.getBy(ctx, "id", id)
}

func (r *WalletRepository) getBy(ctx context.Context, column, value string) (*domain.Wallet, error) {
	query := `
		SELECT id, user_id, balance, version, created_at, updated_at
		FROM wallets WHERE ` + column + ` = $1
	`

	var wallet domain.Wallet
	err := r.q.QueryRowContext(ctx, query, value).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.Version,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &wallet, nil
}

// Credit adds amount to the wallet balance and increments the version.
func (r *WalletRepository) Credit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, balance, version, created_at, updated_at
	`
	return r.mutate(ctx, query, amount, walletID)
}

// Debit subtracts amount from the wallet balance and increments the
// version. The WHERE clause guarantees the balance never goes negative.
func (r *WalletRepository) Debit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	query := `
		UPDATE wallets
		SET balance = balance - $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND balance >= $1
		RETURNING id, user_id, balance, version, created_at, updated_at
	`

	wallet, err := r.mutate(ctx, query, amount, walletID)
	if errors.Is(err, repository.ErrNotFound) {
		// Distinguish a missing wallet from a refused debit.
		if _, getErr := r.GetByID(ctx, walletID); getErr == nil {
			return nil, repository.ErrInsufficientBalance
		}
		return nil, repository.ErrNotFound
	}
	return wallet, err
}

func (r *WalletRepository) mutate(ctx context.Context, query string, amount decimal.Decimal, walletID string) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := r.q.QueryRowContext(ctx, query, amount, walletID).Scan(
		&wallet.ID,
		&wallet.UserID,
		&wallet.Balance,
		&wallet.Version,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

// TransactionRepository is a PostgreSQL implementation of repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a transaction repository using a transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create appends a ledger entry.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, wallet_id, type, amount, description, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		tx.ID,
		tx.WalletID,
		tx.Type,
		tx.Amount,
		tx.Description,
		nullString(tx.ReferenceID),
		tx.CreatedAt,
	)
	return err
}

// ListByWallet retrieves the ledger entries for a wallet, newest first.
func (r *TransactionRepository) ListByWallet(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, wallet_id, type, amount, description, reference_id, created_at
		FROM transactions WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT 200
	`

	rows, err := r.q.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Transaction
	for rows.Next() {
		entry, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetByReferenceID retrieves a ledger entry by its reference.
func (r *TransactionRepository) GetByReferenceID(ctx context.Context, referenceID string) (*domain.Transaction, error) {
	query := `
		SELECT id, wallet_id, type, amount, description, reference_id, created_at
		FROM transactions WHERE reference_id = $1
	`

	row := r.q.QueryRowContext(ctx, query, referenceID)
	entry, err := scanTransaction(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func scanTransaction(scan func(dest ...any) error) (*domain.Transaction, error) {
	var entry domain.Transaction
	var referenceID sql.NullString

	err := scan(
		&entry.ID,
		&entry.WalletID,
		&entry.Type,
		&entry.Amount,
		&entry.Description,
		&referenceID,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if referenceID.Valid {
		entry.ReferenceID = referenceID.String
	}
	return &entry, nil
}

// PixChargeRepository is a PostgreSQL implementation of repository.PixChargeRepository.
type PixChargeRepository struct {
	q Querier
}

// NewPixChargeRepository creates a new PostgreSQL PIX charge repository.
func NewPixChargeRepository(db *sql.DB) *PixChargeRepository {
	return &PixChargeRepository{q: db}
}

// NewPixChargeRepositoryWithTx creates a PIX charge repository using a transaction.
func NewPixChargeRepositoryWithTx(tx *sql.Tx) *PixChargeRepository {
	return &PixChargeRepository{q: tx}
}

// Create persists a new charge.
func (r *PixChargeRepository) Create(ctx context.Context, charge *domain.PixCharge) error {
	query := `
		INSERT INTO pix_charges (id, wallet_id, amount, code, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		charge.ID,
		charge.WalletID,
		charge.Amount,
		charge.Code,
		charge.Status,
		charge.CreatedAt,
	)
	return err
}

// GetByID retrieves a charge by ID.
func (r *PixChargeRepository) GetByID(ctx context.Context, id string) (*domain.PixCharge, error) {
	query := `
		SELECT id, wallet_id, amount, code, status, created_at, paid_at
		FROM pix_charges WHERE id = $1
	`

	var charge domain.PixCharge
	var paidAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&charge.ID,
		&charge.WalletID,
		&charge.Amount,
		&charge.Code,
		&charge.Status,
		&charge.CreatedAt,
		&paidAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if paidAt.Valid {
		charge.PaidAt = paidAt.Time
	}
	return &charge, nil
}

// MarkPaid transitions a PENDING charge to PAID.
func (r *PixChargeRepository) MarkPaid(ctx context.Context, id string) error {
	query := `
		UPDATE pix_charges SET status = $1, paid_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.q.ExecContext(ctx, query, domain.PixChargePaid, id, domain.PixChargePending)
	if err != nil {
		return err
	}
	return requireRow(result)
}
