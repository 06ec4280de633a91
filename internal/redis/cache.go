package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles geocode result caching in Redis. Geocoded places
// are stable, so the TTL is generous compared to entity caches.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// PlaceCacheTTL bounds how long a geocoded address is reused before the
// provider is asked again.
const PlaceCacheTTL = 24 * time.Hour

const placeCachePrefix = "cache:place:"

// CachedPlace is the cached form of a geocoded address.
type CachedPlace struct {
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Label string  `json:"label"`
}

// GetPlace retrieves a geocoded place from cache. A miss returns (nil, nil).
func (s *CacheStore) GetPlace(ctx context.Context, text string) (*CachedPlace, error) {
	data, err := s.client.Get(ctx, placeCachePrefix+text).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var place CachedPlace
	if err := json.Unmarshal(data, &place); err != nil {
		return nil, err
	}
	return &place, nil
}

// SetPlace stores a geocoded place in cache.
func (s *CacheStore) SetPlace(ctx context.Context, text string, place *CachedPlace) error {
	data, err := json.Marshal(place)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, placeCachePrefix+text, data, PlaceCacheTTL).Err()
}
