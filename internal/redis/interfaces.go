package redis

import "context"

// CacheStoreInterface defines the interface for geocode caching.
type CacheStoreInterface interface {
	GetPlace(ctx context.Context, text string) (*CachedPlace, error)
	SetPlace(ctx context.Context, text string, place *CachedPlace) error
}

// Ensure concrete types implement interfaces.
var _ CacheStoreInterface = (*CacheStore)(nil)
