package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"mandado/internal/domain"
	"mandado/internal/redis"
	"mandado/internal/repository"
	"mandado/internal/service"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Name = user.Name
	existing.Phone = user.Phone
	existing.PhotoURL = user.PhotoURL
	return nil
}

func (m *MockUserRepository) SetRecoveryToken(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.RecoveryToken = token
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.RecoveryToken = ""
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.ServiceRequest

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.ServiceRequest),
	}
}

// AddRequest adds a request to the mock repository.
func (m *MockRequestRepository) AddRequest(req *domain.ServiceRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
}

func (m *MockRequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *req
	return &copy, nil
}

func (m *MockRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]*domain.ServiceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ServiceRequest, 0)
	for _, r := range m.requests {
		if r.RequesterID == requesterID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRequestRepository) ListPending(ctx context.Context) ([]*domain.ServiceRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ServiceRequest, 0)
	for _, r := range m.requests {
		if r.Status == domain.RequestStatusPendente {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockRequestRepository) Update(ctx context.Context, req *domain.ServiceRequest) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *req
	m.requests[req.ID] = &copy
	return nil
}

// GetRequest returns a request for test assertions.
func (m *MockRequestRepository) GetRequest(id string) *domain.ServiceRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[id]
}

// ──────────────────────────────────────────────
// MOCK PROVIDER REPOSITORY
// ──────────────────────────────────────────────

// MockProviderRepository is a mock implementation of ProviderRepository.
type MockProviderRepository struct {
	mu        sync.RWMutex
	providers map[string]*domain.Provider

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockProviderRepository creates a new mock provider repository.
func NewMockProviderRepository() *MockProviderRepository {
	return &MockProviderRepository{
		providers: make(map[string]*domain.Provider),
	}
}

// AddProvider adds a provider to the mock repository.
func (m *MockProviderRepository) AddProvider(provider *domain.Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[provider.ID] = provider
}

func (m *MockProviderRepository) Create(ctx context.Context, provider *domain.Provider) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[provider.ID] = provider
	return nil
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	provider, ok := m.providers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *provider
	return &copy, nil
}

func (m *MockProviderRepository) GetByUserID(ctx context.Context, userID string) (*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.providers {
		if p.UserID == userID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockProviderRepository) GetAll(ctx context.Context) ([]*domain.Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Provider, 0, len(m.providers))
	for _, p := range m.providers {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockProviderRepository) UpdateStatus(ctx context.Context, id string, status domain.ProviderStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	provider, ok := m.providers[id]
	if !ok {
		return repository.ErrNotFound
	}
	provider.Status = status
	return nil
}

func (m *MockProviderRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	provider, ok := m.providers[id]
	if !ok {
		return repository.ErrNotFound
	}
	provider.Rating = rating
	return nil
}

// GetProvider returns a provider for test assertions.
func (m *MockProviderRepository) GetProvider(id string) *domain.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.providers[id]
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository.
// Credit and Debit mirror the single-statement semantics of the real
// repository: apply the amount and bump the version together, and
// refuse a debit that would take the balance negative.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	// Counters for verification
	CreditCallCount int32
	DebitCallCount  int32

	// Error injection
	CreditError error
	DebitError  error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// AddWallet adds a wallet to the mock repository.
func (m *MockWalletRepository) AddWallet(wallet *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *wallet
	m.wallets[wallet.ID] = &copy
	return nil
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, w := range m.wallets {
		if w.UserID == userID {
			copy := *w
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id string) (*domain.Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wallet, ok := m.wallets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *wallet
	return &copy, nil
}

func (m *MockWalletRepository) Credit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	atomic.AddInt32(&m.CreditCallCount, 1)
	if m.CreditError != nil {
		return nil, m.CreditError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[walletID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	wallet.Balance = wallet.Balance.Add(amount)
	wallet.Version++
	wallet.UpdatedAt = time.Now()
	copy := *wallet
	return &copy, nil
}

func (m *MockWalletRepository) Debit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	atomic.AddInt32(&m.DebitCallCount, 1)
	if m.DebitError != nil {
		return nil, m.DebitError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[walletID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if wallet.Balance.LessThan(amount) {
		return nil, repository.ErrInsufficientBalance
	}
	wallet.Balance = wallet.Balance.Sub(amount)
	wallet.Version++
	wallet.UpdatedAt = time.Now()
	copy := *wallet
	return &copy, nil
}

// GetWallet returns a wallet for test assertions.
func (m *MockWalletRepository) GetWallet(id string) *domain.Wallet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.wallets[id]
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction

	// Counters for verification
	CreateCallCount int32
}

// NewMockTransactionRepository creates a new mock transaction repository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *tx
	m.transactions = append(m.transactions, &copy)
	return nil
}

func (m *MockTransactionRepository) ListByWallet(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for _, tx := range m.transactions {
		if tx.WalletID == walletID {
			copy := *tx
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTransactionRepository) GetByReferenceID(ctx context.Context, referenceID string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tx := range m.transactions {
		if tx.ReferenceID == referenceID {
			copy := *tx
			return &copy, nil
		}
	}
	return nil, nil
}

// ──────────────────────────────────────────────
// MOCK PIX CHARGE REPOSITORY
// ──────────────────────────────────────────────

// MockPixChargeRepository is a mock implementation of PixChargeRepository.
type MockPixChargeRepository struct {
	mu      sync.RWMutex
	charges map[string]*domain.PixCharge

	// Counters for verification
	MarkPaidCallCount int32
}

// NewMockPixChargeRepository creates a new mock charge repository.
func NewMockPixChargeRepository() *MockPixChargeRepository {
	return &MockPixChargeRepository{
		charges: make(map[string]*domain.PixCharge),
	}
}

// AddCharge adds a charge to the mock repository.
func (m *MockPixChargeRepository) AddCharge(charge *domain.PixCharge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.charges[charge.ID] = charge
}

func (m *MockPixChargeRepository) Create(ctx context.Context, charge *domain.PixCharge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *charge
	m.charges[charge.ID] = &copy
	return nil
}

func (m *MockPixChargeRepository) GetByID(ctx context.Context, id string) (*domain.PixCharge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	charge, ok := m.charges[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *charge
	return &copy, nil
}

func (m *MockPixChargeRepository) MarkPaid(ctx context.Context, id string) error {
	atomic.AddInt32(&m.MarkPaidCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	charge, ok := m.charges[id]
	if !ok || charge.Status != domain.PixChargePending {
		return repository.ErrNotFound
	}
	charge.Status = domain.PixChargePaid
	charge.PaidAt = time.Now()
	return nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *n
	m.notifications = append(m.notifications, &copy)
	return nil
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Notification, 0)
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			copy := *n
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// Sent returns the notifications delivered so far, for test assertions.
func (m *MockNotificationRepository) Sent() []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Notification, len(m.notifications))
	copy(result, m.notifications)
	return result
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStoreInterface.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations map[string]redis.ProviderLocation
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make(map[string]redis.ProviderLocation),
	}
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, providerID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[providerID] = redis.ProviderLocation{ProviderID: providerID, Lat: lat, Lng: lng}
	return nil
}

func (m *MockLocationStore) FindNearbyProviders(ctx context.Context, lat, lng, radiusKm float64) ([]redis.ProviderLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]redis.ProviderLocation, 0, len(m.locations))
	for _, loc := range m.locations {
		result = append(result, loc)
	}
	return result, nil
}

func (m *MockLocationStore) GetLocation(ctx context.Context, providerID string) (*redis.ProviderLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[providerID]
	if !ok {
		return nil, nil
	}
	copy := loc
	return &copy, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, providerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locations, providerID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireProviderLock(ctx context.Context, providerID string, ttl time.Duration) (bool, error) {
	return m.acquire("provider:" + providerID)
}

func (m *MockLockStore) ReleaseProviderLock(ctx context.Context, providerID string) error {
	m.release("provider:" + providerID)
	return nil
}

func (m *MockLockStore) AcquireRequestLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error) {
	return m.acquire("request:" + requestID)
}

func (m *MockLockStore) ReleaseRequestLock(ctx context.Context, requestID string) error {
	m.release("request:" + requestID)
	return nil
}

func (m *MockLockStore) acquire(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *MockLockStore) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
}

// ──────────────────────────────────────────────
// MOCK MATCHER
// ──────────────────────────────────────────────

// MockMatcher is a mock implementation of the Matcher contract. By
// default every call reports no provider available; set MatchFunc or
// SucceedAfter to script the outcome.
type MockMatcher struct {
	// CallCount counts Match invocations.
	CallCount int32

	// SucceedAfter makes the Nth call (1-based) return a match for
	// the given provider. Zero disables it.
	SucceedAfter int32
	ProviderID   string

	// MatchFunc overrides the behavior entirely when set.
	MatchFunc func(ctx context.Context, req service.MatchRequest) (*service.MatchResult, error)
}

func (m *MockMatcher) Match(ctx context.Context, req service.MatchRequest) (*service.MatchResult, error) {
	calls := atomic.AddInt32(&m.CallCount, 1)
	if m.MatchFunc != nil {
		return m.MatchFunc(ctx, req)
	}
	if m.SucceedAfter > 0 && calls >= m.SucceedAfter {
		return &service.MatchResult{ProviderID: m.ProviderID}, nil
	}
	return nil, service.ErrNoProviderAvailable
}

// Calls returns the number of Match invocations.
func (m *MockMatcher) Calls() int32 {
	return atomic.LoadInt32(&m.CallCount)
}
