package providers

import "context"

// ShippingRateProvider quotes carrier shipping between two postal codes
type ShippingRateProvider interface {
	Quote(ctx context.Context, req QuoteRequest) ([]CarrierQuote, error)
}

// QuoteRequest describes a single parcel to be quoted
type QuoteRequest struct {
	OriginPostalCode      string
	DestinationPostalCode string
	Parcel                ParcelProfile
}

// ParcelProfile is the default package used for quotes
type ParcelProfile struct {
	WeightKg float64
	WidthCm  float64
	HeightCm float64
	LengthCm float64
}

// CarrierQuote is one service level returned by the carrier
type CarrierQuote struct {
	ServiceID    int
	ServiceName  string
	CompanyName  string
	Price        float64
	DeliveryDays int
}
