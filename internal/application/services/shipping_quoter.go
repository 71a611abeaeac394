package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/dudustore/cepstore/backend/internal/domain/entities"
	"github.com/dudustore/cepstore/backend/internal/domain/providers"
	"github.com/dudustore/cepstore/backend/internal/infrastructure/observability"
)

// carrierServiceLabels maps the carrier service names we offer to the label shown to customers
var carrierServiceLabels = map[string]string{
	"PAC":   entities.ShippingTypePAC,
	"SEDEX": entities.ShippingTypeSedex,
}

// ShippingQuoter attaches shipping options to a classified store
type ShippingQuoter struct {
	rates   providers.ShippingRateProvider
	travel  providers.GeolocationProvider
	cfg     LocatorConfig
	metrics *observability.Metrics
}

// NewShippingQuoter creates a new shipping quoter. travel may be nil, in which
// case local delivery estimates come from the store's fulfillment days.
func NewShippingQuoter(rates providers.ShippingRateProvider, travel providers.GeolocationProvider, cfg LocatorConfig, metrics *observability.Metrics) *ShippingQuoter {
	return &ShippingQuoter{
		rates:   rates,
		travel:  travel,
		cfg:     cfg.withDefaults(),
		metrics: metrics,
	}
}

// Quote returns the options for a store of the given kind; it never fails
func (q *ShippingQuoter) Quote(ctx context.Context, store *entities.Store, kind entities.StoreKind, origin providers.Coordinates, destPostalCode string) []entities.ShippingOption {
	if kind == entities.StoreKindPDV {
		return q.LocalOptions(ctx, store, origin)
	}
	return q.RemoteOptions(ctx, store, destPostalCode)
}

// LocalOptions returns the single flat-rate courier option of a PDV
func (q *ShippingQuoter) LocalOptions(ctx context.Context, store *entities.Store, origin providers.Coordinates) []entities.ShippingOption {
	return []entities.ShippingOption{{
		Type:         entities.ShippingTypeMotoboy,
		Price:        q.cfg.LocalShippingPrice,
		DeliveryTime: entities.BusinessDays(q.localDeliveryDays(ctx, store, origin)),
	}}
}

func (q *ShippingQuoter) localDeliveryDays(ctx context.Context, store *entities.Store, origin providers.Coordinates) int {
	if q.travel == nil || !q.cfg.UseTravelTime {
		return store.FulfillmentDays()
	}

	from := providers.Coordinates{Latitude: store.Location.Latitude, Longitude: store.Location.Longitude}
	start := time.Now()
	duration, err := q.travel.TravelTime(ctx, from, origin)
	observability.RecordUpstreamMetric(ctx, q.metrics, "travel_time", err, time.Since(start))
	if err != nil {
		observability.ComponentLogger(ctx, "shipping_quoter").Debug().
			Err(err).
			Str("store_id", store.ID).
			Msg("Travel time unavailable, using store fulfillment days")
		return store.FulfillmentDays()
	}

	return travelDays(duration)
}

// travelDays converts a driving duration into whole delivery days, at least one
func travelDays(d time.Duration) int {
	days := int(math.Ceil(d.Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// RemoteOptions returns the carrier options of a LOJA, or the unavailable sentinel
func (q *ShippingQuoter) RemoteOptions(ctx context.Context, store *entities.Store, destPostalCode string) []entities.ShippingOption {
	logger := observability.ComponentLogger(ctx, "shipping_quoter")
	unavailable := []entities.ShippingOption{entities.UnavailableShippingOption()}

	if q.rates == nil {
		logger.Warn().Str("store_id", store.ID).Msg("No shipping rate provider configured")
		return unavailable
	}

	start := time.Now()
	quotes, err := q.rates.Quote(ctx, providers.QuoteRequest{
		OriginPostalCode:      store.PostalCode,
		DestinationPostalCode: destPostalCode,
		Parcel:                q.cfg.Parcel,
	})
	observability.RecordUpstreamMetric(ctx, q.metrics, "shipping_rates", err, time.Since(start))
	if err != nil {
		logger.Warn().
			Err(err).
			Str("store_id", store.ID).
			Str("origin", store.PostalCode).
			Str("destination", destPostalCode).
			Msg("Shipping quote failed")
		return unavailable
	}

	options := make([]entities.ShippingOption, 0, len(carrierServiceLabels))
	for _, quote := range quotes {
		label, ok := carrierServiceLabels[strings.ToUpper(strings.TrimSpace(quote.ServiceName))]
		if !ok || quote.Price < 0 {
			continue
		}
		options = append(options, entities.ShippingOption{
			Type:         label,
			Price:        quote.Price,
			DeliveryTime: entities.BusinessDays(quote.DeliveryDays),
		})
	}

	if len(options) == 0 {
		logger.Warn().
			Str("store_id", store.ID).
			Int("quotes", len(quotes)).
			Msg("Carrier returned no usable service levels")
		return unavailable
	}
	return options
}
