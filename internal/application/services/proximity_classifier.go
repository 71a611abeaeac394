package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
	"github.com/dudustore/cepstore/backend/pkg/geo"
)

// ProximityClassifier decides PDV vs LOJA for every store and attaches shipping options
type ProximityClassifier struct {
	quoter  *ShippingQuoter
	cfg     LocatorConfig
	metrics *observability.Metrics
}

// NewProximityClassifier creates a new proximity classifier
func NewProximityClassifier(quoter *ShippingQuoter, cfg LocatorConfig, metrics *observability.Metrics) *ProximityClassifier {
	return &ProximityClassifier{
		quoter:  quoter,
		cfg:     cfg.withDefaults(),
		metrics: metrics,
	}
}

// EffectiveRadius returns the requested radius when it is within bounds,
// otherwise the configured default.
func (c *ProximityClassifier) EffectiveRadius(requested *float64) float64 {
	if requested != nil && *requested >= MinRadiusKm && *requested <= MaxRadiusKm {
		return *requested
	}
	return c.cfg.DefaultRadiusKm
}

// KindFor applies the radius policy; the boundary is inclusive
func KindFor(distanceKm, radiusKm float64) entities.StoreKind {
	if distanceKm <= radiusKm {
		return entities.StoreKindPDV
	}
	return entities.StoreKindLoja
}

// Classify computes distance, kind and shipping options for one store
func (c *ProximityClassifier) Classify(ctx context.Context, store *entities.Store, origin providers.Coordinates, destPostalCode string, radiusKm float64) (entities.StoreResult, error) {
	if err := store.Validate(); err != nil {
		return entities.StoreResult{}, err
	}

	distance := geo.DistanceKm(origin.Latitude, origin.Longitude, store.Location.Latitude, store.Location.Longitude)
	kind := KindFor(distance, radiusKm)

	result := entities.NewStoreResult(store)
	result.DistanceKm = distance
	result.Distance = geo.FormatDistance(distance)
	result.Type = kind
	result.ShippingOptions = c.quoter.Quote(ctx, store, kind, origin, destPostalCode)

	observability.RecordClassification(ctx, c.metrics, string(kind))
	return result, nil
}

// ClassifyAll classifies stores concurrently, keeping catalog order.
// Stores with invalid data are dropped and logged.
func (c *ProximityClassifier) ClassifyAll(ctx context.Context, origin providers.Coordinates, destPostalCode string, stores []*entities.Store, radiusKm float64) []entities.StoreResult {
	slots := make([]*entities.StoreResult, len(stores))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxConcurrency)

	for i, store := range stores {
		if store == nil {
			continue
		}
		g.Go(func() error {
			result, err := c.Classify(gctx, store, origin, destPostalCode, radiusKm)
			if err != nil {
				observability.ComponentLogger(gctx, "proximity_classifier").Warn().
					Err(err).
					Str("store_id", store.ID).
					Msg("Skipping store with invalid data")
				return nil
			}
			slots[i] = &result
			return nil
		})
	}
	_ = g.Wait()

	results := make([]entities.StoreResult, 0, len(stores))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results
}

// Filter drops results farther than radiusKm and results of another kind.
// A nil argument disables that filter. Survivors keep their order.
func (c *ProximityClassifier) Filter(results []entities.StoreResult, radiusKm *float64, kind *entities.StoreKind) []entities.StoreResult {
	filtered := make([]entities.StoreResult, 0, len(results))
	for _, r := range results {
		if radiusKm != nil && r.DistanceKm > *radiusKm {
			continue
		}
		if kind != nil && r.Type != *kind {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// Order sorts results according to the configured ordering
func (c *ProximityClassifier) Order(results []entities.StoreResult) []entities.StoreResult {
	if c.cfg.Ordering == OrderDistance {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].DistanceKm < results[j].DistanceKm
		})
	}
	return results
}
