package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"mandado/internal/domain"
	"mandado/internal/repository"
	"mandado/internal/service"
)

func newWalletService(walletRepo *MockWalletRepository, txRepo *MockTransactionRepository, chargeRepo *MockPixChargeRepository, requestRepo *MockRequestRepository, providerRepo *MockProviderRepository) *service.WalletService {
	return service.NewWalletService(nil, walletRepo, txRepo, chargeRepo, requestRepo, providerRepo, nil)
}

// ──────────────────────────────────────────────
// 1. WALLET LIFECYCLE
// ──────────────────────────────────────────────

func TestEnsureWallet_CreatesOnFirstAccess(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	walletService := newWalletService(walletRepo, NewMockTransactionRepository(), NewMockPixChargeRepository(), NewMockRequestRepository(), NewMockProviderRepository())

	wallet, err := walletService.EnsureWallet(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !wallet.Balance.IsZero() {
		t.Errorf("expected zero balance, got %s", wallet.Balance)
	}
	if wallet.Version != 0 {
		t.Errorf("expected version 0, got %d", wallet.Version)
	}

	again, err := walletService.EnsureWallet(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if again.ID != wallet.ID {
		t.Error("expected the same wallet on the second access")
	}
}

// ──────────────────────────────────────────────
// 2. RECHARGE
// ──────────────────────────────────────────────

func TestRecharge_CreatesPendingChargeWithoutCrediting(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	chargeRepo := NewMockPixChargeRepository()
	walletService := newWalletService(walletRepo, NewMockTransactionRepository(), chargeRepo, NewMockRequestRepository(), NewMockProviderRepository())

	charge, err := walletService.Recharge(context.Background(), "user-1", decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if charge.Status != domain.PixChargePending {
		t.Errorf("expected PENDING, got %s", charge.Status)
	}
	if charge.Code == "" {
		t.Error("expected a copy-paste PIX code")
	}
	if !strings.Contains(charge.Code, "br.gov.bcb.pix") {
		t.Errorf("expected an EMV code carrying the PIX GUI, got %s", charge.Code)
	}

	wallet, _ := walletService.EnsureWallet(context.Background(), "user-1")
	if !wallet.Balance.IsZero() {
		t.Errorf("expected no credit before the webhook, got %s", wallet.Balance)
	}
}

func TestRecharge_NonPositiveAmount_Fails(t *testing.T) {
	t.Parallel()

	walletService := newWalletService(NewMockWalletRepository(), NewMockTransactionRepository(), NewMockPixChargeRepository(), NewMockRequestRepository(), NewMockProviderRepository())

	if _, err := walletService.Recharge(context.Background(), "user-1", decimal.Zero); !errors.Is(err, service.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if _, err := walletService.Recharge(context.Background(), "user-1", decimal.NewFromInt(-10)); !errors.Is(err, service.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestConfirmRecharge_CreditsOnce(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	txRepo := NewMockTransactionRepository()
	chargeRepo := NewMockPixChargeRepository()
	walletService := newWalletService(walletRepo, txRepo, chargeRepo, NewMockRequestRepository(), NewMockProviderRepository())

	charge, err := walletService.Recharge(context.Background(), "user-1", decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	wallet, err := walletService.ConfirmRecharge(context.Background(), charge.ID)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !wallet.Balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected balance 50, got %s", wallet.Balance)
	}
	if wallet.Version != 1 {
		t.Errorf("expected version 1 after the credit, got %d", wallet.Version)
	}

	// A replayed webhook returns the wallet without crediting again.
	replayed, err := walletService.ConfirmRecharge(context.Background(), charge.ID)
	if err != nil {
		t.Fatalf("expected replay to succeed, got: %v", err)
	}
	if !replayed.Balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected balance unchanged on replay, got %s", replayed.Balance)
	}
	if walletRepo.CreditCallCount != 1 {
		t.Errorf("expected exactly one credit, got %d", walletRepo.CreditCallCount)
	}
	if txRepo.CreateCallCount != 1 {
		t.Errorf("expected exactly one ledger entry, got %d", txRepo.CreateCallCount)
	}
}

func TestConfirmRecharge_FailedCreditLeavesChargePending(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	txRepo := NewMockTransactionRepository()
	chargeRepo := NewMockPixChargeRepository()
	walletService := newWalletService(walletRepo, txRepo, chargeRepo, NewMockRequestRepository(), NewMockProviderRepository())

	charge, err := walletService.Recharge(context.Background(), "user-1", decimal.NewFromInt(50))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// The first delivery fails mid-credit. The charge must stay
	// PENDING so a redelivered webhook can still credit the wallet.
	walletRepo.CreditError = errors.New("connection reset")
	if _, err := walletService.ConfirmRecharge(context.Background(), charge.ID); err == nil {
		t.Fatal("expected the failed credit to surface")
	}

	stored, err := chargeRepo.GetByID(context.Background(), charge.ID)
	if err != nil {
		t.Fatalf("expected the charge to exist, got: %v", err)
	}
	if stored.Status != domain.PixChargePending {
		t.Fatalf("expected the charge to stay PENDING after a failed credit, got %s", stored.Status)
	}

	// Redelivery with a healthy repository credits the wallet.
	walletRepo.CreditError = nil
	wallet, err := walletService.ConfirmRecharge(context.Background(), charge.ID)
	if err != nil {
		t.Fatalf("expected the redelivery to succeed, got: %v", err)
	}
	if !wallet.Balance.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected balance 50 after redelivery, got %s", wallet.Balance)
	}

	stored, _ = chargeRepo.GetByID(context.Background(), charge.ID)
	if stored.Status != domain.PixChargePaid {
		t.Errorf("expected PAID after redelivery, got %s", stored.Status)
	}
	if entry, _ := txRepo.GetByReferenceID(context.Background(), "recharge:"+charge.ID); entry == nil {
		t.Error("expected a ledger entry for the recharge")
	}
}

// ──────────────────────────────────────────────
// 3. WITHDRAWAL
// ──────────────────────────────────────────────

func TestWithdraw_DebitsAndRecordsLedger(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	walletRepo.AddWallet(&domain.Wallet{ID: "wallet-1", UserID: "user-1", Balance: decimal.NewFromInt(100), Version: 2})
	txRepo := NewMockTransactionRepository()
	walletService := newWalletService(walletRepo, txRepo, NewMockPixChargeRepository(), NewMockRequestRepository(), NewMockProviderRepository())

	wallet, err := walletService.Withdraw(context.Background(), service.WithdrawInput{
		UserID:     "user-1",
		Amount:     decimal.NewFromInt(30),
		PixKeyType: domain.PixKeyCPF,
		PixKey:     "123.456.789-01",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !wallet.Balance.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected balance 70, got %s", wallet.Balance)
	}
	if wallet.Version != 3 {
		t.Errorf("expected version 3, got %d", wallet.Version)
	}

	entries, _ := txRepo.ListByWallet(context.Background(), "wallet-1")
	if len(entries) != 1 || entries[0].Type != domain.TransactionOut {
		t.Fatalf("expected one OUT ledger entry, got %v", entries)
	}
}

func TestWithdraw_InsufficientBalance_Fails(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	walletRepo.AddWallet(&domain.Wallet{ID: "wallet-1", UserID: "user-1", Balance: decimal.NewFromInt(10)})
	txRepo := NewMockTransactionRepository()
	walletService := newWalletService(walletRepo, txRepo, NewMockPixChargeRepository(), NewMockRequestRepository(), NewMockProviderRepository())

	_, err := walletService.Withdraw(context.Background(), service.WithdrawInput{
		UserID:     "user-1",
		Amount:     decimal.NewFromInt(30),
		PixKeyType: domain.PixKeyEmail,
		PixKey:     "user@example.com",
	})
	if !errors.Is(err, repository.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	if got := walletRepo.GetWallet("wallet-1").Balance; !got.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected balance untouched, got %s", got)
	}
	if txRepo.CreateCallCount != 0 {
		t.Error("expected no ledger entry for a refused debit")
	}
}

func TestWithdraw_PixKeyValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		keyType domain.PixKeyType
		key     string
		wantErr bool
	}{
		{"valid cpf", domain.PixKeyCPF, "12345678901", false},
		{"valid formatted cpf", domain.PixKeyCPF, "123.456.789-01", false},
		{"cpf too short", domain.PixKeyCPF, "1234567", true},
		{"valid phone", domain.PixKeyPhone, "+5511987654321", false},
		{"valid email", domain.PixKeyEmail, "user@example.com", false},
		{"email without domain", domain.PixKeyEmail, "user@", true},
		{"valid random key", domain.PixKeyRandom, "123e4567-e89b-12d3-a456-426614174000", false},
		{"random key wrong shape", domain.PixKeyRandom, "not-a-uuid", true},
		{"unknown key type", domain.PixKeyType("IBAN"), "whatever", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			walletRepo := NewMockWalletRepository()
			walletRepo.AddWallet(&domain.Wallet{ID: "wallet-1", UserID: "user-1", Balance: decimal.NewFromInt(100)})
			walletService := newWalletService(walletRepo, NewMockTransactionRepository(), NewMockPixChargeRepository(), NewMockRequestRepository(), NewMockProviderRepository())

			_, err := walletService.Withdraw(context.Background(), service.WithdrawInput{
				UserID:     "user-1",
				Amount:     decimal.NewFromInt(10),
				PixKeyType: tc.keyType,
				PixKey:     tc.key,
			})
			if tc.wantErr && !errors.Is(err, service.ErrInvalidPixKey) {
				t.Errorf("expected ErrInvalidPixKey, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

// ──────────────────────────────────────────────
// 4. SERVICE PAYMENT
// ──────────────────────────────────────────────

func TestPayRequest_MovesMoneyToProvider(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	walletRepo.AddWallet(&domain.Wallet{ID: "wallet-1", UserID: "user-1", Balance: decimal.NewFromInt(100)})
	walletRepo.AddWallet(&domain.Wallet{ID: "wallet-2", UserID: "provider-user-1", Balance: decimal.Zero})

	providerRepo := NewMockProviderRepository()
	providerRepo.AddProvider(&domain.Provider{ID: "provider-1", UserID: "provider-user-1"})

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:                 "req-1",
		RequesterID:        "user-1",
		Status:             domain.RequestStatusConcluido,
		AssignedProviderID: "provider-1",
		Price:              decimal.RequireFromString("27.50"),
	})

	txRepo := NewMockTransactionRepository()
	walletService := newWalletService(walletRepo, txRepo, NewMockPixChargeRepository(), requestRepo, providerRepo)

	wallet, err := walletService.PayRequest(context.Background(), "user-1", "req-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !wallet.Balance.Equal(decimal.RequireFromString("72.50")) {
		t.Errorf("expected payer balance 72.50, got %s", wallet.Balance)
	}
	if got := walletRepo.GetWallet("wallet-2").Balance; !got.Equal(decimal.RequireFromString("27.50")) {
		t.Errorf("expected provider balance 27.50, got %s", got)
	}
	if requestRepo.GetRequest("req-1").PaidAt.IsZero() {
		t.Error("expected the request to be marked paid")
	}

	// Paying the same request again is refused.
	if _, err := walletService.PayRequest(context.Background(), "user-1", "req-1"); !errors.Is(err, service.ErrRequestAlreadyPaid) {
		t.Errorf("expected ErrRequestAlreadyPaid, got %v", err)
	}
	if walletRepo.DebitCallCount != 1 {
		t.Errorf("expected exactly one debit, got %d", walletRepo.DebitCallCount)
	}
}

func TestPayRequest_InsufficientBalance_LeavesRequestUnpaid(t *testing.T) {
	t.Parallel()

	walletRepo := NewMockWalletRepository()
	walletRepo.AddWallet(&domain.Wallet{ID: "wallet-1", UserID: "user-1", Balance: decimal.NewFromInt(5)})

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:          "req-1",
		RequesterID: "user-1",
		Status:      domain.RequestStatusEmAndamento,
		Price:       decimal.RequireFromString("27.50"),
	})

	walletService := newWalletService(walletRepo, NewMockTransactionRepository(), NewMockPixChargeRepository(), requestRepo, NewMockProviderRepository())

	_, err := walletService.PayRequest(context.Background(), "user-1", "req-1")
	if !errors.Is(err, repository.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	if !requestRepo.GetRequest("req-1").PaidAt.IsZero() {
		t.Error("expected the request to stay unpaid")
	}
}

func TestPayRequest_OnlyTheRequesterPays(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:          "req-1",
		RequesterID: "user-1",
		Status:      domain.RequestStatusConcluido,
		Price:       decimal.NewFromInt(20),
	})

	walletService := newWalletService(NewMockWalletRepository(), NewMockTransactionRepository(), NewMockPixChargeRepository(), requestRepo, NewMockProviderRepository())

	_, err := walletService.PayRequest(context.Background(), "user-2", "req-1")
	if !errors.Is(err, service.ErrInvalidRequesterID) {
		t.Errorf("expected ErrInvalidRequesterID, got %v", err)
	}
}

func TestPayRequest_PendingRequest_Fails(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.ServiceRequest{
		ID:          "req-1",
		RequesterID: "user-1",
		Status:      domain.RequestStatusPendente,
		Price:       decimal.NewFromInt(20),
	})

	walletService := newWalletService(NewMockWalletRepository(), NewMockTransactionRepository(), NewMockPixChargeRepository(), requestRepo, NewMockProviderRepository())

	_, err := walletService.PayRequest(context.Background(), "user-1", "req-1")
	if !errors.Is(err, service.ErrRequestNotInProgress) {
		t.Errorf("expected ErrRequestNotInProgress, got %v", err)
	}
}
