package entities

// StoreResult is a store classified against one nearby-store query
type StoreResult struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	City            string           `json:"city"`
	State           string           `json:"state"`
	PostalCode      string           `json:"postalCode"`
	Latitude        float64          `json:"latitude"`
	Longitude       float64          `json:"longitude"`
	Distance        string           `json:"distance"`
	DistanceKm      float64          `json:"distanceKm"`
	Type            StoreKind        `json:"type"`
	ShippingOptions []ShippingOption `json:"shippingOptions"`
}

// NewStoreResult snapshots the store fields exposed to callers
func NewStoreResult(store *Store) StoreResult {
	return StoreResult{
		ID:         store.ID,
		Name:       store.Name,
		City:       store.City,
		State:      store.State,
		PostalCode: store.PostalCode,
		Latitude:   store.Location.Latitude,
		Longitude:  store.Location.Longitude,
	}
}
