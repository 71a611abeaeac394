package main

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
)

type memoryStoreRepo struct {
	stores    []*entities.Store
	failState string
}

func (r *memoryStoreRepo) Create(ctx context.Context, store *entities.Store) error {
	r.stores = append(r.stores, store)
	return nil
}

func (r *memoryStoreRepo) GetByID(ctx context.Context, id string) (*entities.Store, error) {
	for _, s := range r.stores {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memoryStoreRepo) List(ctx context.Context) ([]*entities.Store, error) {
	return r.stores, nil
}

func (r *memoryStoreRepo) ListByState(ctx context.Context, state string) ([]*entities.Store, error) {
	if state == r.failState {
		return nil, errors.New("connection reset")
	}
	var out []*entities.Store
	for _, s := range r.stores {
		if s.State == state {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestSeedStores_SkipsSeededStates(t *testing.T) {
	repo := &memoryStoreRepo{stores: []*entities.Store{{ID: "existing", State: "PE"}}}

	created, err := seedStores(context.Background(), repo, capitals)
	require.NoError(t, err)
	assert.Equal(t, len(capitals)-1, created)

	for _, s := range repo.stores[1:] {
		assert.NotEqual(t, "PE", s.State)
		_, err := uuid.Parse(s.ID)
		assert.NoError(t, err)
	}

	again, err := seedStores(context.Background(), repo, capitals)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestSeedStores_PropagatesErrors(t *testing.T) {
	repo := &memoryStoreRepo{failState: "AL"}

	created, err := seedStores(context.Background(), repo, capitals)
	require.Error(t, err)
	assert.Equal(t, 1, created)
}

func TestCapitals_AreValid(t *testing.T) {
	for _, c := range capitals {
		store := entities.Store{ID: c.State, PostalCode: c.PostalCode, Location: entities.Location{Latitude: c.Lat, Longitude: c.Lng}}
		assert.NoError(t, store.Validate(), c.State)
	}
}
