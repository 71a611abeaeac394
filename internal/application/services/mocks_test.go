package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	"github.com/dudustore/cepstore/backend/internal/domain/providers"
)

// MockPostalCodeProvider is a testify mock of providers.PostalCodeProvider
type MockPostalCodeProvider struct {
	mock.Mock
}

func (m *MockPostalCodeProvider) LookupPostalCode(ctx context.Context, postalCode string) (*entities.Address, error) {
	args := m.Called(ctx, postalCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Address), args.Error(1)
}

// MockGeolocationProvider is a testify mock of providers.GeolocationProvider
type MockGeolocationProvider struct {
	mock.Mock
}

func (m *MockGeolocationProvider) Geocode(ctx context.Context, query string) (*providers.Coordinates, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.Coordinates), args.Error(1)
}

func (m *MockGeolocationProvider) TravelTime(ctx context.Context, from, to providers.Coordinates) (time.Duration, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(time.Duration), args.Error(1)
}

// MockShippingRateProvider is a testify mock of providers.ShippingRateProvider
type MockShippingRateProvider struct {
	mock.Mock
}

func (m *MockShippingRateProvider) Quote(ctx context.Context, req providers.QuoteRequest) ([]providers.CarrierQuote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]providers.CarrierQuote), args.Error(1)
}

// MockStoreRepository is a testify mock of repositories.StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, store *entities.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetByID(ctx context.Context, id string) (*entities.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Store), args.Error(1)
}

func (m *MockStoreRepository) List(ctx context.Context) ([]*entities.Store, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Store), args.Error(1)
}

func (m *MockStoreRepository) ListByState(ctx context.Context, state string) ([]*entities.Store, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Store), args.Error(1)
}

// Fixtures around Praça da Sé, São Paulo
var (
	seOrigin = providers.Coordinates{Latitude: -23.5505, Longitude: -46.6333}

	// roughly 10 km north of the origin
	nearStore = &entities.Store{
		ID:                   "store-near",
		Name:                 "PDV Santana",
		City:                 "São Paulo",
		State:                "SP",
		PostalCode:           "02010000",
		Location:             entities.Location{Latitude: -23.4606, Longitude: -46.6333},
		LocalFulfillmentDays: 1,
	}

	// roughly 800 km north of the origin
	farStore = &entities.Store{
		ID:                   "store-far",
		Name:                 "Loja Goiânia",
		City:                 "Goiânia",
		State:                "GO",
		PostalCode:           "74003010",
		Location:             entities.Location{Latitude: -16.3559, Longitude: -46.6333},
		LocalFulfillmentDays: 3,
	}
)

func carrierQuotes() []providers.CarrierQuote {
	return []providers.CarrierQuote{
		{ServiceID: 1, ServiceName: "PAC", CompanyName: "Correios", Price: 27.45, DeliveryDays: 8},
		{ServiceID: 2, ServiceName: "SEDEX", CompanyName: "Correios", Price: 54.10, DeliveryDays: 3},
		{ServiceID: 3, ServiceName: ".Package", CompanyName: "Jadlog", Price: 31.00, DeliveryDays: 6},
	}
}
