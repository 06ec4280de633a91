package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ORSClient is an openrouteservice-backed Resolver using the Pelias
// geocoder and the driving-car directions endpoint.
type ORSClient struct {
	baseURL        string
	apiKey         string
	geocodeTimeout time.Duration
	routeTimeout   time.Duration
	httpClient     *http.Client
}

// ORSConfig configures the openrouteservice client.
type ORSConfig struct {
	BaseURL        string
	APIKey         string
	GeocodeTimeout time.Duration
	RouteTimeout   time.Duration
}

// NewORSClient creates a new openrouteservice client.
func NewORSClient(cfg ORSConfig) *ORSClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openrouteservice.org"
	}
	if cfg.GeocodeTimeout <= 0 {
		cfg.GeocodeTimeout = 15 * time.Second
	}
	if cfg.RouteTimeout <= 0 {
		cfg.RouteTimeout = 20 * time.Second
	}
	return &ORSClient{
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		geocodeTimeout: cfg.GeocodeTimeout,
		routeTimeout:   cfg.RouteTimeout,
		httpClient:     &http.Client{},
	}
}

var _ Resolver = (*ORSClient)(nil)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// Locate geocodes a free-text address via /geocode/search, size=1.
func (c *ORSClient) Locate(ctx context.Context, text string) (*Place, error) {
	ctx, cancel := context.WithTimeout(ctx, c.geocodeTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("text", text)
	params.Set("size", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/geocode/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geocode response: %w", err)
	}

	if len(body.Features) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAddressNotFound, text)
	}

	feature := body.Features[0]
	if len(feature.Geometry.Coordinates) != 2 {
		return nil, fmt.Errorf("%w: %s", ErrGeocodeInvalid, text)
	}

	label := feature.Properties.Label
	if label == "" {
		label = text
	}

	return &Place{
		Coordinate: Coordinate{Lon: feature.Geometry.Coordinates[0], Lat: feature.Geometry.Coordinates[1]},
		Label:      label,
	}, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance *float64 `json:"distance"` // meters
		} `json:"summary"`
	} `json:"routes"`
}

// DrivingDistanceKm returns the driving distance in kilometers via
// /v2/directions/driving-car.
func (c *ORSClient) DrivingDistanceKm(ctx context.Context, from, to Coordinate) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.routeTimeout)
	defer cancel()

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{{from.Lon, from.Lat}, {to.Lon, to.Lat}},
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/directions/driving-car", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("directions request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrRouteUnavailable, resp.StatusCode)
	}

	var body directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("directions response: %w", err)
	}

	if len(body.Routes) == 0 || body.Routes[0].Summary.Distance == nil {
		return 0, ErrRouteUnavailable
	}

	return *body.Routes[0].Summary.Distance / 1000, nil
}
