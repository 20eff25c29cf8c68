package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// GeocodeCacheTTL keeps resolved addresses for a week; addresses don't
// move, but the upstream provider data can be refreshed.
const GeocodeCacheTTL = 7 * 24 * time.Hour

const geocodeCachePrefix = "cache:geocode:"

// CachedCoordinate is a cached geocoding result.
type CachedCoordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// GeocodeCache caches address -> coordinate lookups in Redis, saving
// round-trips to the external geocoding provider.
type GeocodeCache struct {
	client *redis.Client
}

// NewGeocodeCache creates a new GeocodeCache.
func NewGeocodeCache(client *redis.Client) *GeocodeCache {
	return &GeocodeCache{client: client}
}

// GetCoordinate retrieves a cached coordinate for an address.
// Returns (nil, nil) on cache miss.
func (c *GeocodeCache) GetCoordinate(ctx context.Context, address string) (*CachedCoordinate, error) {
	data, err := c.client.Get(ctx, geocodeCachePrefix+address).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var coord CachedCoordinate
	if err := json.Unmarshal(data, &coord); err != nil {
		return nil, err
	}
	return &coord, nil
}

// SetCoordinate stores a resolved coordinate for an address.
func (c *GeocodeCache) SetCoordinate(ctx context.Context, address string, coord CachedCoordinate) error {
	data, err := json.Marshal(coord)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, geocodeCachePrefix+address, data, GeocodeCacheTTL).Err()
}
