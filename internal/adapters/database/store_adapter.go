package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/dudustore/cepstore/backend/pkg/errors"
)

const storesTable = "stores"

const storesSchema = `
CREATE TABLE IF NOT EXISTS stores (
	id                     UUID PRIMARY KEY,
	name                   TEXT NOT NULL,
	city                   TEXT NOT NULL,
	state                  CHAR(2) NOT NULL,
	country                TEXT NOT NULL DEFAULT 'BR',
	postal_code            CHAR(8) NOT NULL,
	latitude               DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
	longitude              DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180),
	local_fulfillment_days INTEGER NOT NULL DEFAULT 1 CHECK (local_fulfillment_days >= 1),
	created_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at             TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_stores_state ON stores (state);
`

var storeColumns = []interface{}{
	"id", "name", "city", "state", "country", "postal_code",
	"latitude", "longitude", "local_fulfillment_days",
	"created_at", "updated_at",
}

// StoreAdapter implements StoreRepository on PostgreSQL
type StoreAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewStoreAdapter creates a new store adapter
func NewStoreAdapter(client *postgres.Client) *StoreAdapter {
	return &StoreAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// EnsureSchema creates the stores table when it does not exist
func (a *StoreAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, storesSchema); err != nil {
		return apperrors.NewInternalError("failed to create stores schema", err)
	}
	return nil
}

// Create inserts a new store
func (a *StoreAdapter) Create(ctx context.Context, store *entities.Store) error {
	now := time.Now().UTC()
	if store.CreatedAt.IsZero() {
		store.CreatedAt = now
	}
	store.UpdatedAt = now
	if store.Country == "" {
		store.Country = "BR"
	}

	record := goqu.Record{
		"id":                     store.ID,
		"name":                   store.Name,
		"city":                   store.City,
		"state":                  strings.ToUpper(store.State),
		"country":                store.Country,
		"postal_code":            store.PostalCode,
		"latitude":               store.Location.Latitude,
		"longitude":              store.Location.Longitude,
		"local_fulfillment_days": store.FulfillmentDays(),
		"created_at":             store.CreatedAt,
		"updated_at":             store.UpdatedAt,
	}

	query, args, err := a.db.Insert(storesTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create store", err)
	}
	return nil
}

// GetByID retrieves a store by ID
func (a *StoreAdapter) GetByID(ctx context.Context, id string) (*entities.Store, error) {
	query, args, err := a.db.Select(storeColumns...).
		From(storesTable).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	store, err := scanStore(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("store with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get store", err)
	}
	return store, nil
}

// List returns every store in catalog order
func (a *StoreAdapter) List(ctx context.Context) ([]*entities.Store, error) {
	return a.list(ctx, nil)
}

// ListByState returns the stores of one state
func (a *StoreAdapter) ListByState(ctx context.Context, state string) ([]*entities.Store, error) {
	return a.list(ctx, goqu.Ex{"state": strings.ToUpper(strings.TrimSpace(state))})
}

func (a *StoreAdapter) list(ctx context.Context, where goqu.Ex) ([]*entities.Store, error) {
	ds := a.db.Select(storeColumns...).From(storesTable)
	if where != nil {
		ds = ds.Where(where)
	}
	query, args, err := ds.Order(goqu.C("created_at").Asc(), goqu.C("name").Asc()).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list stores", err)
	}
	defer rows.Close()

	stores := make([]*entities.Store, 0)
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan store", err)
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate stores", err)
	}
	return stores, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStore(row rowScanner) (*entities.Store, error) {
	store := &entities.Store{}
	err := row.Scan(
		&store.ID,
		&store.Name,
		&store.City,
		&store.State,
		&store.Country,
		&store.PostalCode,
		&store.Location.Latitude,
		&store.Location.Longitude,
		&store.LocalFulfillmentDays,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return store, nil
}
