package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mandado/internal/domain"
	"mandado/internal/format"
	"mandado/internal/repository"
	"mandado/internal/repository/postgres"
)

// WalletService handles wallet operations. The server-held balance is
// canonical; every mutation goes through WalletRepository.Credit or
// Debit, which apply the amount and bump the wallet version in one
// statement, and every mutation leaves a ledger entry.
type WalletService struct {
	db           *sql.DB
	walletRepo   repository.WalletRepository
	txRepo       repository.TransactionRepository
	chargeRepo   repository.PixChargeRepository
	requestRepo  repository.RequestRepository
	providerRepo repository.ProviderRepository
	notification *NotificationService
}

// NewWalletService creates a new WalletService. db may be nil in
// tests; multi-step operations then run without a surrounding
// transaction against the provided repositories.
func NewWalletService(
	db *sql.DB,
	walletRepo repository.WalletRepository,
	txRepo repository.TransactionRepository,
	chargeRepo repository.PixChargeRepository,
	requestRepo repository.RequestRepository,
	providerRepo repository.ProviderRepository,
	notification *NotificationService,
) *WalletService {
	return &WalletService{
		db:           db,
		walletRepo:   walletRepo,
		txRepo:       txRepo,
		chargeRepo:   chargeRepo,
		requestRepo:  requestRepo,
		providerRepo: providerRepo,
		notification: notification,
	}
}

// EnsureWallet returns the user's wallet, creating an empty one on
// first access.
func (s *WalletService) EnsureWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	wallet = &domain.Wallet{
		ID:        uuid.New().String(),
		UserID:    userID,
		Balance:   decimal.Zero,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

// Recharge creates a pending PIX charge for the user's wallet. The
// balance is only credited when the webhook confirms the charge.
func (s *WalletService) Recharge(ctx context.Context, userID string, amount decimal.Decimal) (*domain.PixCharge, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	wallet, err := s.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	charge := &domain.PixCharge{
		ID:        uuid.New().String(),
		WalletID:  wallet.ID,
		Amount:    amount,
		Status:    domain.PixChargePending,
		CreatedAt: time.Now(),
	}
	charge.Code = GeneratePixCode(charge.ID, amount)

	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return nil, err
	}
	return charge, nil
}

// ConfirmRecharge handles the payment webhook for a PIX charge. The
// PENDING -> PAID transition is the idempotency gate: only the call
// that wins it credits the wallet, so replayed webhooks are no-ops.
func (s *WalletService) ConfirmRecharge(ctx context.Context, chargeID string) (*domain.Wallet, error) {
	charge, err := s.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}

	if charge.Status == domain.PixChargePaid {
		return s.walletRepo.GetByID(ctx, charge.WalletID)
	}
	if charge.Status != domain.PixChargePending {
		return nil, ErrChargeNotPending
	}

	// Credit, ledger entry and the PENDING -> PAID flip commit or roll
	// back together. MarkPaid goes last so a failed credit leaves the
	// charge PENDING for webhook redelivery; its guarded UPDATE also
	// serializes concurrent deliveries, and the loser rolls back.
	var wallet *domain.Wallet
	err = s.withTx(ctx, func(wr repository.WalletRepository, tr repository.TransactionRepository, cr repository.PixChargeRepository) error {
		w, err := wr.Credit(ctx, charge.WalletID, charge.Amount)
		if err != nil {
			return err
		}
		wallet = w
		if err := tr.Create(ctx, &domain.Transaction{
			ID:          uuid.New().String(),
			WalletID:    charge.WalletID,
			Type:        domain.TransactionIn,
			Amount:      charge.Amount,
			Description: "Recarga PIX",
			ReferenceID: "recharge:" + charge.ID,
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}
		return cr.MarkPaid(ctx, chargeID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost the race with another webhook delivery.
			return s.walletRepo.GetByID(ctx, charge.WalletID)
		}
		return nil, err
	}

	if s.notification != nil {
		_ = s.notification.NotifyRechargePaid(ctx, wallet.UserID, charge.Amount, charge.ID)
	}
	return wallet, nil
}

// WithdrawInput contains the parameters for a PIX withdrawal.
type WithdrawInput struct {
	UserID     string
	Amount     decimal.Decimal
	PixKeyType domain.PixKeyType
	PixKey     string
}

// Withdraw debits the wallet and records the outgoing transfer. The
// debit statement itself refuses to take the balance below zero.
func (s *WalletService) Withdraw(ctx context.Context, input WithdrawInput) (*domain.Wallet, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if !validPixKey(input.PixKeyType, input.PixKey) {
		return nil, ErrInvalidPixKey
	}

	wallet, err := s.EnsureWallet(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Wallet
	err = s.withTx(ctx, func(wr repository.WalletRepository, tr repository.TransactionRepository, _ repository.PixChargeRepository) error {
		w, err := wr.Debit(ctx, wallet.ID, input.Amount)
		if err != nil {
			return err
		}
		updated = w
		return tr.Create(ctx, &domain.Transaction{
			ID:          uuid.New().String(),
			WalletID:    wallet.ID,
			Type:        domain.TransactionOut,
			Amount:      input.Amount,
			Description: fmt.Sprintf("Saque PIX (%s)", input.PixKeyType),
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	if s.notification != nil {
		_ = s.notification.NotifyWithdrawDone(ctx, input.UserID, input.Amount)
	}
	return updated, nil
}

// PayRequest pays for a service from the requester's wallet and
// credits the provider's wallet. The ledger reference makes the
// operation idempotent per request.
func (s *WalletService) PayRequest(ctx context.Context, userID, requestID string) (*domain.Wallet, error) {
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.RequesterID != userID {
		return nil, ErrInvalidRequesterID
	}
	if request.Status != domain.RequestStatusEmAndamento && request.Status != domain.RequestStatusConcluido {
		return nil, ErrRequestNotInProgress
	}

	referenceID := "payment:" + requestID
	if !request.PaidAt.IsZero() {
		return nil, ErrRequestAlreadyPaid
	}
	if existing, err := s.txRepo.GetByReferenceID(ctx, referenceID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrRequestAlreadyPaid
	}

	wallet, err := s.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	var providerWallet *domain.Wallet
	if request.AssignedProviderID != "" {
		provider, err := s.providerRepo.GetByID(ctx, request.AssignedProviderID)
		if err != nil {
			return nil, err
		}
		providerWallet, err = s.EnsureWallet(ctx, provider.UserID)
		if err != nil {
			return nil, err
		}
	}

	var updated *domain.Wallet
	err = s.withTx(ctx, func(wr repository.WalletRepository, tr repository.TransactionRepository, _ repository.PixChargeRepository) error {
		w, err := wr.Debit(ctx, wallet.ID, request.Price)
		if err != nil {
			return err
		}
		updated = w

		if err := tr.Create(ctx, &domain.Transaction{
			ID:          uuid.New().String(),
			WalletID:    wallet.ID,
			Type:        domain.TransactionOut,
			Amount:      request.Price,
			Description: "Pagamento de serviço",
			ReferenceID: referenceID,
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}

		if providerWallet == nil {
			return nil
		}
		if _, err := wr.Credit(ctx, providerWallet.ID, request.Price); err != nil {
			return err
		}
		return tr.Create(ctx, &domain.Transaction{
			ID:          uuid.New().String(),
			WalletID:    providerWallet.ID,
			Type:        domain.TransactionIn,
			Amount:      request.Price,
			Description: "Recebimento de serviço",
			ReferenceID: referenceID + ":credit",
			CreatedAt:   time.Now(),
		})
	})
	if err != nil {
		if s.notification != nil && errors.Is(err, repository.ErrInsufficientBalance) {
			_ = s.notification.NotifyPaymentResult(ctx, userID, request.Price, false, requestID)
		}
		return nil, err
	}

	request.PaidAt = time.Now()
	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	if s.notification != nil {
		_ = s.notification.NotifyPaymentResult(ctx, userID, request.Price, true, requestID)
	}
	return updated, nil
}

// Transactions retrieves the ledger for the user's wallet.
func (s *WalletService) Transactions(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	wallet, err := s.EnsureWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.txRepo.ListByWallet(ctx, wallet.ID)
}

// withTx runs fn against transaction-scoped repositories when a DB is
// available, falling back to the plain repositories otherwise.
func (s *WalletService) withTx(ctx context.Context, fn func(repository.WalletRepository, repository.TransactionRepository, repository.PixChargeRepository) error) error {
	if s.db == nil {
		return fn(s.walletRepo, s.txRepo, s.chargeRepo)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(postgres.NewWalletRepositoryWithTx(tx), postgres.NewTransactionRepositoryWithTx(tx), postgres.NewPixChargeRepositoryWithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func validPixKey(keyType domain.PixKeyType, key string) bool {
	switch keyType {
	case domain.PixKeyCPF, domain.PixKeyCNPJ, domain.PixKeyPhone, domain.PixKeyEmail, domain.PixKeyRandom:
		return format.ValidPixKey(string(keyType), key)
	default:
		return false
	}
}
