package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"mandado/internal/domain"
	"mandado/internal/redis"
	"mandado/internal/repository"
	"mandado/internal/repository/postgres"
)

// ProviderService handles provider operations.
type ProviderService struct {
	db            *sql.DB
	locationStore redis.LocationStoreInterface
	lockStore     redis.LockStoreInterface
	cacheStore    *redis.CacheStore
	providerRepo  repository.ProviderRepository
	requestRepo   repository.RequestRepository
	dispatcher    *Dispatcher
	notification  *NotificationService
}

// NewProviderService creates a new ProviderService.
func NewProviderService(
	db *sql.DB,
	locationStore redis.LocationStoreInterface,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	providerRepo repository.ProviderRepository,
	requestRepo repository.RequestRepository,
	dispatcher *Dispatcher,
	notification *NotificationService,
) *ProviderService {
	return &ProviderService{
		db:            db,
		locationStore: locationStore,
		lockStore:     lockStore,
		cacheStore:    cacheStore,
		providerRepo:  providerRepo,
		requestRepo:   requestRepo,
		dispatcher:    dispatcher,
		notification:  notification,
	}
}

// RegisterProviderInput contains the parameters for creating a provider profile.
type RegisterProviderInput struct {
	UserID  string
	Name    string
	Phone   string
	Vehicle string
	Plate   string
}

// Register creates a provider profile for a prestador account.
func (s *ProviderService) Register(ctx context.Context, input RegisterProviderInput) (*domain.Provider, error) {
	if input.UserID == "" || input.Name == "" {
		return nil, ErrInvalidProviderID
	}

	provider := &domain.Provider{
		ID:      uuid.New().String(),
		UserID:  input.UserID,
		Name:    input.Name,
		Phone:   input.Phone,
		Vehicle: input.Vehicle,
		Plate:   input.Plate,
		Rating:  5.0,
		Status:  domain.ProviderStatusOffline,
	}

	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// UpdateLocationInput contains the parameters for updating provider location.
type UpdateLocationInput struct {
	ProviderID string
	Lat        float64
	Lng        float64
}

// UpdateLocation updates a provider's location in Redis and sets them
// ONLINE so they become matchable.
func (s *ProviderService) UpdateLocation(ctx context.Context, input UpdateLocationInput) error {
	if input.ProviderID == "" {
		return ErrInvalidProviderID
	}
	if !isValidLatitude(input.Lat) || !isValidLongitude(input.Lng) {
		return ErrInvalidLocation
	}

	if err := s.locationStore.UpdateLocation(ctx, input.ProviderID, input.Lat, input.Lng); err != nil {
		return err
	}

	err := s.providerRepo.UpdateStatus(ctx, input.ProviderID, domain.ProviderStatusOnline)
	if err != nil && err != repository.ErrNotFound {
		return err
	}

	if s.cacheStore != nil {
		provider, err := s.providerRepo.GetByID(ctx, input.ProviderID)
		if err == nil {
			_ = s.cacheStore.SetProvider(ctx, &redis.CachedProvider{
				ID:      provider.ID,
				UserID:  provider.UserID,
				Name:    provider.Name,
				Phone:   provider.Phone,
				Vehicle: provider.Vehicle,
				Plate:   provider.Plate,
				Rating:  provider.Rating,
				Status:  string(provider.Status),
			})
		}
	}

	return nil
}

// SetOffline takes a provider out of the matchable pool.
func (s *ProviderService) SetOffline(ctx context.Context, providerID string) error {
	if providerID == "" {
		return ErrInvalidProviderID
	}

	if err := s.providerRepo.UpdateStatus(ctx, providerID, domain.ProviderStatusOffline); err != nil {
		return err
	}

	if err := s.locationStore.RemoveLocation(ctx, providerID); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateProvider(ctx, providerID)
	}

	return nil
}

// AcceptRequest assigns a pending request to the provider who accepted
// it. The same request lock used by matching keeps an explicit accept
// and a matching pass from racing on the request.
func (s *ProviderService) AcceptRequest(ctx context.Context, providerID, requestID string) (*domain.ServiceRequest, error) {
	if providerID == "" {
		return nil, ErrInvalidProviderID
	}
	if requestID == "" {
		return nil, ErrInvalidRequestID
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRequestLock(ctx, requestID, requestLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrRequestNotPending
		}
		defer s.lockStore.ReleaseRequestLock(ctx, requestID)
	}

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if provider.Status == domain.ProviderStatusBusy {
		return nil, ErrProviderBusy
	}

	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestStatusPendente {
		return nil, ErrRequestNotPending
	}

	// The acceptance watch for this request, if any, observes the
	// status change on its next tick and stops on its own; cancel it
	// eagerly anyway.
	if s.dispatcher != nil {
		s.dispatcher.Cancel(requestID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txRequestRepo := postgres.NewRequestRepositoryWithTx(tx)
	txProviderRepo := postgres.NewProviderRepositoryWithTx(tx)

	request.Status = domain.RequestStatusEmAndamento
	request.AssignedProviderID = provider.ID

	if err = txRequestRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	if err = txProviderRepo.UpdateStatus(ctx, provider.ID, domain.ProviderStatusBusy); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateProvider(ctx, providerID)
	}
	if s.notification != nil {
		_ = s.notification.NotifyProviderAssigned(ctx, request, provider)
	}

	return request, nil
}

// ProviderDetails is the provider profile plus last known location,
// the payload a requester sees once matched.
type ProviderDetails struct {
	Provider *domain.Provider
	Location *redis.ProviderLocation
}

// Details retrieves a provider's profile and last known location.
func (s *ProviderService) Details(ctx context.Context, providerID string) (*ProviderDetails, error) {
	if providerID == "" {
		return nil, ErrInvalidProviderID
	}

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	details := &ProviderDetails{Provider: provider}
	if s.locationStore != nil {
		if loc, err := s.locationStore.GetLocation(ctx, providerID); err == nil {
			details.Location = loc
		}
	}
	return details, nil
}
