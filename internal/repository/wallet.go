package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"mandado/internal/domain"
)

// WalletRepository defines the persistence operations for wallets.
//
// Balance mutations go through Credit/Debit only. Both apply the
// signed amount and bump the wallet version in a single statement, so
// balance' = balance + signed amount holds for every committed write.
type WalletRepository interface {
	// Create persists a new wallet.
	Create(ctx context.Context, wallet *domain.Wallet) error

	// GetByUserID retrieves the wallet owned by a user.
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)

	// GetByID retrieves a wallet by ID.
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)

	// Credit adds amount to the wallet balance and increments the
	// version. Returns the updated wallet.
	Credit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error)

	// Debit subtracts amount from the wallet balance and increments
	// the version. Returns ErrInsufficientBalance without writing if
	// the balance would go negative.
	Debit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error)
}

// TransactionRepository defines the persistence operations for the ledger.
type TransactionRepository interface {
	// Create appends a ledger entry.
	Create(ctx context.Context, tx *domain.Transaction) error

	// ListByWallet retrieves the ledger entries for a wallet, newest first.
	ListByWallet(ctx context.Context, walletID string) ([]*domain.Transaction, error)

	// GetByReferenceID retrieves a ledger entry by its reference.
	// Returns nil when no entry exists with the given reference.
	GetByReferenceID(ctx context.Context, referenceID string) (*domain.Transaction, error)
}

// PixChargeRepository defines the persistence operations for PIX charges.
type PixChargeRepository interface {
	// Create persists a new charge.
	Create(ctx context.Context, charge *domain.PixCharge) error

	// GetByID retrieves a charge by ID.
	GetByID(ctx context.Context, id string) (*domain.PixCharge, error)

	// MarkPaid transitions a PENDING charge to PAID. Returns
	// ErrNotFound if the charge does not exist or is not PENDING.
	MarkPaid(ctx context.Context, id string) error
}
