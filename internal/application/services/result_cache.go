package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
)

const resultCacheKeyPrefix = "stores:nearby:v1"

// ResultCache memoizes nearby-store results for a short time
type ResultCache struct {
	backend providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewResultCache creates a result cache; a nil backend disables caching
func NewResultCache(backend providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) *ResultCache {
	return &ResultCache{
		backend: backend,
		ttl:     ttl,
		metrics: metrics,
	}
}

// Key builds the cache key for a query. bounded is true when the caller chose
// the radius, since that also enables the distance post-filter.
func (c *ResultCache) Key(postalCode string, radiusKm float64, bounded bool, kind *entities.StoreKind) string {
	radius := strconv.FormatFloat(radiusKm, 'f', -1, 64)
	if !bounded {
		radius = "default-" + radius
	}
	kindPart := "all"
	if kind != nil {
		kindPart = string(*kind)
	}
	return fmt.Sprintf("%s:%s:%s:%s", resultCacheKeyPrefix, postalCode, radius, kindPart)
}

// Get returns cached results; backend failures count as a miss
func (c *ResultCache) Get(ctx context.Context, key string) ([]entities.StoreResult, bool) {
	if c.backend == nil {
		return nil, false
	}

	data, err := c.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.ComponentLogger(ctx, "result_cache").Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		observability.RecordCacheMiss(ctx, c.metrics)
		return nil, false
	}

	var results []entities.StoreResult
	if err := json.Unmarshal(data, &results); err != nil {
		observability.ComponentLogger(ctx, "result_cache").Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		observability.RecordCacheMiss(ctx, c.metrics)
		return nil, false
	}

	observability.RecordCacheHit(ctx, c.metrics)
	return results, true
}

// Set stores results under key for the configured TTL
func (c *ResultCache) Set(ctx context.Context, key string, results []entities.StoreResult) {
	if c.backend == nil {
		return
	}

	data, err := json.Marshal(results)
	if err != nil {
		observability.ComponentLogger(ctx, "result_cache").Warn().Err(err).Str("key", key).Msg("Failed to encode results")
		return
	}

	ttl := int(c.ttl / time.Second)
	if ttl < 1 {
		ttl = 1
	}
	if err := c.backend.Set(ctx, key, data, ttl); err != nil {
		observability.ComponentLogger(ctx, "result_cache").Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
