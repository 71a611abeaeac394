package services

import (
	"time"

	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	"github.com/dudustore/cepstore/backend/pkg/config"
)

// Radius bounds accepted from callers; anything else falls back to the default
const (
	MinRadiusKm = 1.0
	MaxRadiusKm = 1000.0
)

// ResultOrder controls how nearby-store results are sorted
type ResultOrder string

const (
	// OrderCatalog keeps the order in which the catalog returned the stores
	OrderCatalog ResultOrder = "catalog"
	// OrderDistance sorts by ascending distance, ties keep catalog order
	OrderDistance ResultOrder = "distance"
)

// LocatorConfig is the classification policy shared by the locator services
type LocatorConfig struct {
	DefaultRadiusKm    float64
	LocalShippingPrice float64
	Parcel             providers.ParcelProfile
	MaxConcurrency     int
	RequestTimeout     time.Duration
	CacheTTL           time.Duration
	Ordering           ResultOrder
	UseTravelTime      bool
}

// DefaultLocatorConfig returns the policy used when nothing is configured
func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		DefaultRadiusKm:    50,
		LocalShippingPrice: 15,
		Parcel: providers.ParcelProfile{
			WeightKg: 0.3,
			WidthCm:  11,
			HeightCm: 2,
			LengthCm: 16,
		},
		MaxConcurrency: 8,
		RequestTimeout: 20 * time.Second,
		CacheTTL:       300 * time.Second,
		Ordering:       OrderCatalog,
		UseTravelTime:  true,
	}
}

// NewLocatorConfig builds the policy from the loaded application config
func NewLocatorConfig(cfg *config.Config) LocatorConfig {
	return LocatorConfig{
		DefaultRadiusKm:    cfg.Locator.DefaultRadiusKm,
		LocalShippingPrice: cfg.Locator.LocalShippingPrice,
		Parcel: providers.ParcelProfile{
			WeightKg: cfg.Locator.ParcelWeightKg,
			WidthCm:  cfg.Locator.ParcelWidthCm,
			HeightCm: cfg.Locator.ParcelHeightCm,
			LengthCm: cfg.Locator.ParcelLengthCm,
		},
		MaxConcurrency: cfg.Locator.MaxConcurrency,
		RequestTimeout: cfg.Locator.RequestTimeout,
		CacheTTL:       time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		Ordering:       ResultOrder(cfg.Locator.ResultOrder),
		UseTravelTime:  cfg.Geolocation.UseTravelTime,
	}.withDefaults()
}

func (c LocatorConfig) withDefaults() LocatorConfig {
	def := DefaultLocatorConfig()
	if c.DefaultRadiusKm <= 0 {
		c.DefaultRadiusKm = def.DefaultRadiusKm
	}
	if c.LocalShippingPrice < 0 {
		c.LocalShippingPrice = def.LocalShippingPrice
	}
	if c.Parcel.WeightKg <= 0 || c.Parcel.WidthCm <= 0 || c.Parcel.HeightCm <= 0 || c.Parcel.LengthCm <= 0 {
		c.Parcel = def.Parcel
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = def.MaxConcurrency
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = def.CacheTTL
	}
	if c.Ordering != OrderDistance {
		c.Ordering = OrderCatalog
	}
	return c
}
