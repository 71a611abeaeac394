package providers

import (
	"context"
	"time"
)

// GeolocationProvider resolves free-text addresses and travel times
type GeolocationProvider interface {
	// Geocode converts an address query to coordinates.
	// Returns a NOT_FOUND AppError when the geocoder has no result.
	Geocode(ctx context.Context, query string) (*Coordinates, error)

	// TravelTime estimates the driving time between two points
	TravelTime(ctx context.Context, from, to Coordinates) (time.Duration, error)
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}
