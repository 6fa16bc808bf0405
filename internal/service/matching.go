package service

import (
	"context"
	"database/sql"
	"time"

	"mandado/internal/domain"
	"mandado/internal/redis"
	"mandado/internal/repository"
	"mandado/internal/repository/postgres"
)

const (
	defaultSearchRadiusKm = 5.0
	providerLockTTL       = 10 * time.Second
	requestLockTTL        = 30 * time.Second // Lock request during matching
)

// MatchingService assigns available providers to pending requests.
type MatchingService struct {
	db            *sql.DB
	locationStore redis.LocationStoreInterface
	lockStore     redis.LockStoreInterface
	cacheStore    *redis.CacheStore
	providerRepo  repository.ProviderRepository
	requestRepo   repository.RequestRepository
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(
	db *sql.DB,
	locationStore redis.LocationStoreInterface,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
	providerRepo repository.ProviderRepository,
	requestRepo repository.RequestRepository,
) *MatchingService {
	return &MatchingService{
		db:            db,
		locationStore: locationStore,
		lockStore:     lockStore,
		cacheStore:    cacheStore,
		providerRepo:  providerRepo,
		requestRepo:   requestRepo,
	}
}

// MatchRequest contains the parameters for matching a service request.
type MatchRequest struct {
	RequestID string
	Lat       float64
	Lng       float64
	RadiusKm  float64 // Optional: 0 uses default
}

// MatchResult contains the result of a successful match.
type MatchResult struct {
	ProviderID string
	Request    *domain.ServiceRequest
}

// Match finds and assigns an available provider to a request. The
// request lock prevents two matchers from assigning the same request;
// the per-provider lock prevents one provider from taking two requests
// at once.
func (s *MatchingService) Match(ctx context.Context, req MatchRequest) (*MatchResult, error) {
	radiusKm := req.RadiusKm
	if radiusKm <= 0 {
		radiusKm = defaultSearchRadiusKm
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRequestLock(ctx, req.RequestID, requestLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			// Another matching pass is handling this request.
			return nil, ErrRequestNotPending
		}
		defer s.lockStore.ReleaseRequestLock(ctx, req.RequestID)
	}

	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	if request.Status != domain.RequestStatusPendente {
		return nil, ErrRequestNotPending
	}

	nearby, err := s.locationStore.FindNearbyProviders(ctx, req.Lat, req.Lng, radiusKm)
	if err != nil {
		return nil, err
	}

	if len(nearby) == 0 {
		return nil, ErrNoProviderAvailable
	}

	// Batch-resolve candidates from cache before hitting the DB.
	providerIDs := make([]string, len(nearby))
	for i, loc := range nearby {
		providerIDs[i] = loc.ProviderID
	}
	cached, missingIDs := s.getProvidersBatch(ctx, providerIDs)

	dbProviders := make(map[string]*domain.Provider)
	for _, id := range missingIDs {
		provider, err := s.providerRepo.GetByID(ctx, id)
		if err != nil {
			if err == repository.ErrNotFound {
				continue
			}
			return nil, err
		}
		dbProviders[id] = provider
		s.cacheProviderAsync(provider)
	}

	// Try each candidate in order of proximity.
	for _, loc := range nearby {
		providerID := loc.ProviderID

		var provider *domain.Provider
		if c, ok := cached[providerID]; ok {
			if c.Status != string(domain.ProviderStatusOnline) {
				continue
			}
			provider = cachedToProvider(c)
		} else if p, ok := dbProviders[providerID]; ok {
			provider = p
		} else {
			continue
		}

		if provider.Status != domain.ProviderStatusOnline {
			continue
		}

		locked, err := s.lockStore.AcquireProviderLock(ctx, providerID, providerLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			// Provider is being assigned to another request.
			continue
		}

		// Re-verify status from the DB; cached status may be stale.
		fresh, err := s.providerRepo.GetByID(ctx, providerID)
		if err != nil {
			_ = s.lockStore.ReleaseProviderLock(ctx, providerID)
			if err == repository.ErrNotFound {
				continue
			}
			return nil, err
		}

		if fresh.Status != domain.ProviderStatusOnline {
			_ = s.lockStore.ReleaseProviderLock(ctx, providerID)
			s.invalidateProviderCache(ctx, providerID)
			continue
		}

		result, err := s.assignProvider(ctx, request, fresh)
		if err != nil {
			_ = s.lockStore.ReleaseProviderLock(ctx, providerID)
			return nil, err
		}

		s.invalidateProviderCache(ctx, providerID)

		// Provider lock expires via TTL.
		return result, nil
	}

	return nil, ErrNoProviderAvailable
}

func (s *MatchingService) getProvidersBatch(ctx context.Context, providerIDs []string) (map[string]*redis.CachedProvider, []string) {
	if s.cacheStore == nil {
		return make(map[string]*redis.CachedProvider), providerIDs
	}
	cached, missing, _ := s.cacheStore.GetProvidersBatch(ctx, providerIDs)
	return cached, missing
}

// cacheProviderAsync caches a provider fire-and-forget.
func (s *MatchingService) cacheProviderAsync(provider *domain.Provider) {
	if s.cacheStore == nil {
		return
	}
	go func() {
		_ = s.cacheStore.SetProvider(context.Background(), &redis.CachedProvider{
			ID:      provider.ID,
			UserID:  provider.UserID,
			Name:    provider.Name,
			Phone:   provider.Phone,
			Vehicle: provider.Vehicle,
			Plate:   provider.Plate,
			Rating:  provider.Rating,
			Status:  string(provider.Status),
		})
	}()
}

func cachedToProvider(c *redis.CachedProvider) *domain.Provider {
	return &domain.Provider{
		ID:      c.ID,
		UserID:  c.UserID,
		Name:    c.Name,
		Phone:   c.Phone,
		Vehicle: c.Vehicle,
		Plate:   c.Plate,
		Rating:  c.Rating,
		Status:  domain.ProviderStatus(c.Status),
	}
}

func (s *MatchingService) invalidateProviderCache(ctx context.Context, providerID string) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateProvider(ctx, providerID)
}

// assignProvider atomically assigns a provider to a request using a
// transaction: request goes to EM_ANDAMENTO, provider to OCUPADO.
func (s *MatchingService) assignProvider(ctx context.Context, request *domain.ServiceRequest, provider *domain.Provider) (*MatchResult, error) {
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

	return &MatchResult{
		ProviderID: provider.ID,
		Request:    request,
	}, nil
}
