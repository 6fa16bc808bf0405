package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds a user's balance. Version increases by exactly one on
// every balance mutation, so readers can order observations without
// comparing balances.
type Wallet struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransactionType marks the direction of a ledger entry.
type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

// Transaction is an append-only ledger entry. Entries are never
// updated or deleted.
type Transaction struct {
	ID          string
	WalletID    string
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	ReferenceID string
	CreatedAt   time.Time
}

// PixChargeStatus represents the lifecycle of a recharge charge.
type PixChargeStatus string

const (
	PixChargePending PixChargeStatus = "PENDING"
	PixChargePaid    PixChargeStatus = "PAID"
	PixChargeExpired PixChargeStatus = "EXPIRED"
)

// PixCharge represents a pending PIX recharge. The webhook confirms it
// and credits the wallet; confirming twice is a no-op.
type PixCharge struct {
	ID        string
	WalletID  string
	Amount    decimal.Decimal
	Code      string
	Status    PixChargeStatus
	CreatedAt time.Time
	PaidAt    time.Time
}

// PixKeyType classifies a withdrawal destination key.
type PixKeyType string

const (
	PixKeyCPF    PixKeyType = "CPF"
	PixKeyCNPJ   PixKeyType = "CNPJ"
	PixKeyPhone  PixKeyType = "TELEFONE"
	PixKeyEmail  PixKeyType = "EMAIL"
	PixKeyRandom PixKeyType = "ALEATORIA"
)
