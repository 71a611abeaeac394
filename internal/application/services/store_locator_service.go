package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	"github.com/dudustore/cepstore/backend/internal/domain/repositories"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
)

// NearbyQuery is a nearby-store lookup; nil fields are unset
type NearbyQuery struct {
	PostalCode string
	RadiusKm   *float64
	Kind       *entities.StoreKind
}

// StoreLocatorService finds and classifies stores around a postal code
type StoreLocatorService struct {
	stores     repositories.StoreRepository
	resolver   *GeoResolver
	classifier *ProximityClassifier
	cache      *ResultCache
	cfg        LocatorConfig
}

// NewStoreLocatorService creates a new store locator service
func NewStoreLocatorService(
	stores repositories.StoreRepository,
	resolver *GeoResolver,
	classifier *ProximityClassifier,
	cache *ResultCache,
	cfg LocatorConfig,
) *StoreLocatorService {
	return &StoreLocatorService{
		stores:     stores,
		resolver:   resolver,
		classifier: classifier,
		cache:      cache,
		cfg:        cfg.withDefaults(),
	}
}

// FindNearbyStores resolves the postal code, classifies every store and
// returns the filtered list. Only successful lookups are cached.
func (s *StoreLocatorService) FindNearbyStores(ctx context.Context, query NearbyQuery) ([]entities.StoreResult, error) {
	postalCode := entities.NormalizePostalCode(query.PostalCode)
	if !entities.IsValidPostalCode(postalCode) {
		return nil, apperrors.NewValidationError("postal code must have 8 digits")
	}
	if r := query.RadiusKm; r != nil && !(*r >= MinRadiusKm && *r <= MaxRadiusKm) {
		return nil, apperrors.NewValidationError("radius must be between 1 and 1000 km")
	}

	ctx, span := observability.StartSpan(ctx, "StoreLocatorService.FindNearbyStores")
	defer span.End()

	radius := s.classifier.EffectiveRadius(query.RadiusKm)
	span.SetAttributes(
		attribute.String("store.postal_code", postalCode),
		attribute.Float64("store.radius_km", radius),
	)

	key := s.cache.Key(postalCode, radius, query.RadiusKm != nil, query.Kind)
	if cached, ok := s.cache.Get(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	results, err := s.locate(ctx, postalCode, radius, query)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = apperrors.NewExternalError("store lookup timed out", err)
		}
		observability.RecordError(span, err)
		return nil, err
	}
	if ctx.Err() != nil {
		err := apperrors.NewExternalError("store lookup timed out", ctx.Err())
		observability.RecordError(span, err)
		return nil, err
	}

	s.cache.Set(ctx, key, results)
	span.SetAttributes(attribute.Int("store.results", len(results)))
	return results, nil
}

func (s *StoreLocatorService) locate(ctx context.Context, postalCode string, radius float64, query NearbyQuery) ([]entities.StoreResult, error) {
	logger := observability.ComponentLogger(ctx, "store_locator")

	_, origin, err := s.resolver.Resolve(ctx, postalCode)
	if err != nil {
		return nil, err
	}

	stores, err := s.stores.List(ctx)
	if err != nil {
		if apperrors.TypeOf(err) == "" {
			err = apperrors.NewInternalError("failed to list stores", err)
		}
		return nil, err
	}

	results := s.classifier.ClassifyAll(ctx, *origin, postalCode, stores, radius)

	var radiusFilter *float64
	if query.RadiusKm != nil {
		radiusFilter = &radius
	}
	results = s.classifier.Order(s.classifier.Filter(results, radiusFilter, query.Kind))

	logger.Debug().
		Str("postal_code", postalCode).
		Float64("radius_km", radius).
		Int("stores", len(stores)).
		Int("results", len(results)).
		Msg("Classified nearby stores")

	return results, nil
}

// ListStores returns the whole catalog
func (s *StoreLocatorService) ListStores(ctx context.Context) ([]*entities.Store, error) {
	return s.stores.List(ctx)
}

// GetStore returns a single store
func (s *StoreLocatorService) GetStore(ctx context.Context, id string) (*entities.Store, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewValidationError("store id is required")
	}
	return s.stores.GetByID(ctx, id)
}

// ListStoresByState returns the stores of a state (UF)
func (s *StoreLocatorService) ListStoresByState(ctx context.Context, state string) ([]*entities.Store, error) {
	uf := strings.ToUpper(strings.TrimSpace(state))
	if len(uf) != 2 {
		return nil, apperrors.NewValidationError("state must be a two-letter UF code")
	}
	return s.stores.ListByState(ctx, uf)
}
