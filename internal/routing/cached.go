package routing

import (
	"context"

	"driveus/internal/redis"
)

// CachedResolver wraps a Resolver with a Redis geocode cache. Cache
// failures fall through to the inner resolver; a quote must not fail
// because Redis is down.
type CachedResolver struct {
	inner Resolver
	cache redis.CacheStoreInterface
}

// NewCachedResolver creates a resolver that caches Locate results.
func NewCachedResolver(inner Resolver, cache redis.CacheStoreInterface) *CachedResolver {
	return &CachedResolver{inner: inner, cache: cache}
}

var _ Resolver = (*CachedResolver)(nil)

// Locate geocodes via cache first, then the inner resolver.
func (r *CachedResolver) Locate(ctx context.Context, text string) (*Place, error) {
	if cached, err := r.cache.GetPlace(ctx, text); err == nil && cached != nil {
		return &Place{
			Coordinate: Coordinate{Lon: cached.Lon, Lat: cached.Lat},
			Label:      cached.Label,
		}, nil
	}

	place, err := r.inner.Locate(ctx, text)
	if err != nil {
		return nil, err
	}

	_ = r.cache.SetPlace(ctx, text, &redis.CachedPlace{
		Lon:   place.Coordinate.Lon,
		Lat:   place.Coordinate.Lat,
		Label: place.Label,
	})

	return place, nil
}

// DrivingDistanceKm is a passthrough; routes are pair-specific and not
// worth caching at this volume.
func (r *CachedResolver) DrivingDistanceKm(ctx context.Context, from, to Coordinate) (float64, error) {
	return r.inner.DrivingDistanceKm(ctx, from, to)
}
