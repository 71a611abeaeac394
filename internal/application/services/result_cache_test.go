package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudustore/cepstore/backend/internal/adapters/cache"
	"github.com/dudustore/cepstore/backend/internal/application/services"
	"github.com/dudustore/cepstore/backend/internal/domain/entities"
)

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	return errors.New("connection refused")
}

func (failingCache) Delete(ctx context.Context, key string) error { return nil }

func (failingCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func TestResultCache_Key(t *testing.T) {
	c := services.NewResultCache(nil, time.Minute, nil)
	pdv := entities.StoreKindPDV

	assert.Equal(t, "stores:nearby:v1:01001000:50:all", c.Key("01001000", 50, true, nil))
	assert.Equal(t, "stores:nearby:v1:01001000:default-50:all", c.Key("01001000", 50, false, nil))
	assert.Equal(t, "stores:nearby:v1:01001000:12.5:PDV", c.Key("01001000", 12.5, true, &pdv))

	keys := map[string]struct{}{
		c.Key("01001000", 50, true, nil):   {},
		c.Key("01001001", 50, true, nil):   {},
		c.Key("01001000", 51, true, nil):   {},
		c.Key("01001000", 50, true, &pdv):  {},
		c.Key("01001000", 50, false, nil):  {},
		c.Key("01001000", 50, false, &pdv): {},
	}
	assert.Len(t, keys, 6, "changing any component must change the key")
}

func TestResultCache_RoundTrip(t *testing.T) {
	backend := cache.NewMemoryAdapter(time.Minute)
	defer backend.Close()

	c := services.NewResultCache(backend, 5*time.Minute, nil)
	ctx := context.Background()
	key := c.Key("01001000", 50, false, nil)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	results := []entities.StoreResult{{
		ID:              "store-near",
		Distance:        "10,0 km",
		DistanceKm:      9.99,
		Type:            entities.StoreKindPDV,
		ShippingOptions: []entities.ShippingOption{{Type: "Motoboy", Price: 15, DeliveryTime: "1 dia útil"}},
	}}
	c.Set(ctx, key, results)

	cached, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, results, cached)
}

func TestResultCache_BackendErrorsAreMisses(t *testing.T) {
	c := services.NewResultCache(failingCache{}, time.Minute, nil)
	ctx := context.Background()

	assert.NotPanics(t, func() { c.Set(ctx, "k", []entities.StoreResult{}) })
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestResultCache_Disabled(t *testing.T) {
	c := services.NewResultCache(nil, time.Minute, nil)
	c.Set(context.Background(), "k", []entities.StoreResult{{ID: "x"}})
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
