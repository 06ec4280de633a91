package routing

import (
	"context"
	"errors"
)

var (
	// ErrAddressNotFound is returned when the geocoder has no match for
	// the given text.
	ErrAddressNotFound = errors.New("address not found")

	// ErrGeocodeInvalid is returned when the geocoder responds with
	// malformed coordinates.
	ErrGeocodeInvalid = errors.New("invalid geocoding result")

	// ErrRouteUnavailable is returned when the router has no usable
	// distance for the requested route.
	ErrRouteUnavailable = errors.New("route distance unavailable")
)

// Coordinate is a WGS84 position, longitude first (ORS convention).
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Place is a geocoded address: coordinates plus the normalized label
// the provider resolved the input text to.
type Place struct {
	Coordinate Coordinate `json:"coordinate"`
	Label      string     `json:"label"`
}

// Resolver turns free-text addresses into places and computes driving
// distances between them. Failures are terminal for the enclosing
// request: callers do not retry here.
type Resolver interface {
	// Locate geocodes a free-text address.
	Locate(ctx context.Context, text string) (*Place, error)

	// DrivingDistanceKm returns the driving distance between two
	// coordinates in kilometers.
	DrivingDistanceKm(ctx context.Context, from, to Coordinate) (float64, error)
}
