package services

import (
	"context"
	"time"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
)

// GeoResolver turns a postal code into an address and then into coordinates.
// It does not retry; callers see the first failure.
type GeoResolver struct {
	postalCodes providers.PostalCodeProvider
	geocoder    providers.GeolocationProvider
	metrics     *observability.Metrics
}

// NewGeoResolver creates a new geo resolver
func NewGeoResolver(postalCodes providers.PostalCodeProvider, geocoder providers.GeolocationProvider, metrics *observability.Metrics) *GeoResolver {
	return &GeoResolver{
		postalCodes: postalCodes,
		geocoder:    geocoder,
		metrics:     metrics,
	}
}

// ResolveAddress looks up the street address of a postal code
func (r *GeoResolver) ResolveAddress(ctx context.Context, postalCode string) (*entities.Address, error) {
	start := time.Now()
	address, err := r.postalCodes.LookupPostalCode(ctx, postalCode)
	observability.RecordUpstreamMetric(ctx, r.metrics, "postal_code", err, time.Since(start))
	if err != nil {
		return nil, classifyUpstreamError("postal code lookup failed", err)
	}
	if address == nil {
		return nil, apperrors.NewNotFoundError("postal code " + postalCode + " not found")
	}
	return address, nil
}

// ResolveCoordinates geocodes a free-text address query
func (r *GeoResolver) ResolveCoordinates(ctx context.Context, query string) (*providers.Coordinates, error) {
	start := time.Now()
	coords, err := r.geocoder.Geocode(ctx, query)
	observability.RecordUpstreamMetric(ctx, r.metrics, "geocode", err, time.Since(start))
	if err != nil {
		return nil, classifyUpstreamError("geocoding failed", err)
	}
	if coords == nil {
		return nil, apperrors.NewNotFoundError("no coordinates found for " + query)
	}
	return coords, nil
}

// Resolve runs both steps for a postal code
func (r *GeoResolver) Resolve(ctx context.Context, postalCode string) (*entities.Address, *providers.Coordinates, error) {
	address, err := r.ResolveAddress(ctx, postalCode)
	if err != nil {
		return nil, nil, err
	}
	coords, err := r.ResolveCoordinates(ctx, address.GeocodeQuery())
	if err != nil {
		return nil, nil, err
	}
	return address, coords, nil
}

// classifyUpstreamError keeps typed errors from providers and treats anything
// else as an upstream failure.
func classifyUpstreamError(message string, err error) error {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeNotFound, apperrors.ErrorTypeValidation, apperrors.ErrorTypeExternal:
		return err
	default:
		return apperrors.NewExternalError(message, err)
	}
}
