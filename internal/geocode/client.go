// Package geocode provides a client for the external geocoding service
// that resolves free-text addresses to coordinates.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"carbontrack/internal/geo"
	internalredis "carbontrack/internal/redis"
)

// Client calls the geocoding provider over HTTP. Results are cached in
// Redis when a cache is configured.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *internalredis.GeocodeCache // optional
}

// lookupResponse is the provider's search response.
type lookupResponse struct {
	Results []struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lng"`
	} `json:"results"`
}

// NewClient creates a new geocoding client. cache may be nil.
func NewClient(baseURL, apiKey string, cache *internalredis.GeocodeCache) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
	}
}

// IsConfigured reports whether the client has a provider endpoint.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// Geocode resolves an address to a coordinate.
func (c *Client) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	if c.baseURL == "" {
		return geo.Coordinate{}, fmt.Errorf("geocoder not configured")
	}

	if c.cache != nil {
		if cached, err := c.cache.GetCoordinate(ctx, address); err == nil && cached != nil {
			return geo.Coordinate{Latitude: cached.Latitude, Longitude: cached.Longitude}, nil
		}
	}

	apiURL := fmt.Sprintf("%s/search?q=%s&key=%s",
		c.baseURL,
		url.QueryEscape(address),
		url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return geo.Coordinate{}, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Results) == 0 {
		return geo.Coordinate{}, fmt.Errorf("no result for address %q", address)
	}

	coord := geo.Coordinate{
		Latitude:  result.Results[0].Latitude,
		Longitude: result.Results[0].Longitude,
	}
	if !coord.Valid() {
		return geo.Coordinate{}, geo.ErrInvalidCoordinate
	}

	if c.cache != nil {
		_ = c.cache.SetCoordinate(ctx, address, internalredis.CachedCoordinate{
			Latitude:  coord.Latitude,
			Longitude: coord.Longitude,
		})
	}

	return coord, nil
}
