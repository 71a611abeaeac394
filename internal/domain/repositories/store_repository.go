package repositories

import (
	"context"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
)

// StoreRepository defines the interface for the store catalog
type StoreRepository interface {
	// Create inserts a new store
	Create(ctx context.Context, store *entities.Store) error

	// GetByID retrieves a store by ID
	GetByID(ctx context.Context, id string) (*entities.Store, error)

	// List returns every store in catalog order
	List(ctx context.Context) ([]*entities.Store, error)

	// ListByState returns the stores of one state (UF)
	ListByState(ctx context.Context, state string) ([]*entities.Store, error)
}
