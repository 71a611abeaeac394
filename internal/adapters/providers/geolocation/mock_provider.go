package geolocation

import (
	"context"
	"strings"
	"time"

	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
	"github.com/dudustore/cepstore/backend/pkg/geo"
)

// averageRoadSpeedKmh turns straight-line distance into a rough driving time
const averageRoadSpeedKmh = 60.0

// MockGeolocationProvider resolves a fixed set of state capitals; used in
// development when no Google Maps key is configured.
type MockGeolocationProvider struct{}

// NewMockGeolocationProvider creates a new mock geolocation provider
func NewMockGeolocationProvider() *MockGeolocationProvider {
	return &MockGeolocationProvider{}
}

var capitalCoordinates = map[string]providers.Coordinates{
	"São Paulo":      {Latitude: -23.5505, Longitude: -46.6333},
	"Rio de Janeiro": {Latitude: -22.9068, Longitude: -43.1729},
	"Belo Horizonte": {Latitude: -19.9167, Longitude: -43.9345},
	"Curitiba":       {Latitude: -25.4284, Longitude: -49.2733},
	"Porto Alegre":   {Latitude: -30.0346, Longitude: -51.2177},
	"Recife":         {Latitude: -8.0522, Longitude: -34.9286},
	"Salvador":       {Latitude: -12.9777, Longitude: -38.5016},
	"Brasília":       {Latitude: -15.7939, Longitude: -47.8828},
	"Rio Branco":     {Latitude: -9.9747, Longitude: -67.8100},
	"Maceió":         {Latitude: -9.6477, Longitude: -35.7339},
}

// Geocode matches the query against known capitals
func (m *MockGeolocationProvider) Geocode(ctx context.Context, query string) (*providers.Coordinates, error) {
	for city, coords := range capitalCoordinates {
		if strings.Contains(query, city) {
			c := coords
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFoundError("no coordinates found for " + query)
}

// TravelTime derives a driving time from the haversine distance
func (m *MockGeolocationProvider) TravelTime(ctx context.Context, from, to providers.Coordinates) (time.Duration, error) {
	km := geo.DistanceKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
	hours := km / averageRoadSpeedKmh
	return time.Duration(hours * float64(time.Hour)), nil
}
