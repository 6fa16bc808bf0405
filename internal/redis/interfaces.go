package redis

import (
	"context"
	"time"
)

// LocationStoreInterface defines the interface for provider location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, providerID string, lat, lng float64) error
	FindNearbyProviders(ctx context.Context, lat, lng, radiusKm float64) ([]ProviderLocation, error)
	GetLocation(ctx context.Context, providerID string) (*ProviderLocation, error)
	RemoveLocation(ctx context.Context, providerID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireProviderLock(ctx context.Context, providerID string, ttl time.Duration) (bool, error)
	ReleaseProviderLock(ctx context.Context, providerID string) error
	AcquireRequestLock(ctx context.Context, requestID string, ttl time.Duration) (bool, error)
	ReleaseRequestLock(ctx context.Context, requestID string) error
}

// GeocodeCacheInterface defines the interface for geocode response caching.
type GeocodeCacheInterface interface {
	GetGeocode(ctx context.Context, key string) ([]byte, error)
	SetGeocode(ctx context.Context, key string, body []byte) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ GeocodeCacheInterface  = (*CacheStore)(nil)
)
