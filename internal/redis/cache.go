package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity and geocode caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	ProviderCacheTTL = 30 * time.Second // Provider status changes frequently
	GeocodeCacheTTL  = 24 * time.Hour   // Addresses are stable
)

// Key prefixes
const (
	providerCachePrefix = "cache:provider:"
	geocodeCachePrefix  = "cache:geo:"
)

// CachedProvider represents a cached provider entity.
type CachedProvider struct {
	ID      string  `json:"id"`
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Vehicle string  `json:"vehicle"`
	Plate   string  `json:"plate"`
	Rating  float64 `json:"rating"`
	Status  string  `json:"status"`
}

// GetProvider retrieves a provider from cache.
func (s *CacheStore) GetProvider(ctx context.Context, providerID string) (*CachedProvider, error) {
	data, err := s.client.Get(ctx, providerCachePrefix+providerID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var provider CachedProvider
	if err := json.Unmarshal(data, &provider); err != nil {
		return nil, err
	}
	return &provider, nil
}

// SetProvider stores a provider in cache.
func (s *CacheStore) SetProvider(ctx context.Context, provider *CachedProvider) error {
	data, err := json.Marshal(provider)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, providerCachePrefix+provider.ID, data, ProviderCacheTTL).Err()
}

// InvalidateProvider removes a provider from cache.
func (s *CacheStore) InvalidateProvider(ctx context.Context, providerID string) error {
	return s.client.Del(ctx, providerCachePrefix+providerID).Err()
}

// GetProvidersBatch retrieves multiple providers from cache using a
// pipeline. Returns a map of providerID -> CachedProvider and a slice
// of missing IDs.
func (s *CacheStore) GetProvidersBatch(ctx context.Context, providerIDs []string) (map[string]*CachedProvider, []string, error) {
	if len(providerIDs) == 0 {
		return make(map[string]*CachedProvider), nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make(map[string]*redis.StringCmd, len(providerIDs))

	for _, id := range providerIDs {
		cmds[id] = pipe.Get(ctx, providerCachePrefix+id)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		// Partial misses surface per-command below.
	}

	result := make(map[string]*CachedProvider)
	var missing []string

	for id, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			missing = append(missing, id)
			continue
		}

		var provider CachedProvider
		if err := json.Unmarshal(data, &provider); err != nil {
			missing = append(missing, id)
			continue
		}
		result[id] = &provider
	}

	return result, missing, nil
}

// GetGeocode retrieves a cached geocoding response body by lookup key.
// Returns nil on cache miss.
func (s *CacheStore) GetGeocode(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, geocodeCachePrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// SetGeocode stores a geocoding response body by lookup key.
func (s *CacheStore) SetGeocode(ctx context.Context, key string, body []byte) error {
	return s.client.Set(ctx, geocodeCachePrefix+key, body, GeocodeCacheTTL).Err()
}
