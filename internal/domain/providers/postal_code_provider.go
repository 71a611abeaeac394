package providers

import (
	"context"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
)

// PostalCodeProvider resolves a CEP to a street address
type PostalCodeProvider interface {
	// LookupPostalCode returns a NOT_FOUND AppError for unknown codes and an
	// EXTERNAL AppError for transport or decoding failures.
	LookupPostalCode(ctx context.Context, postalCode string) (*entities.Address, error)
}
