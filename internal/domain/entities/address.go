package entities

// Address is the result of a postal code lookup; it is never persisted
type Address struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

// GeocodeQuery builds the free-text query sent to the geocoder.
// City-wide postal codes have no street, so the state disambiguates instead.
func (a *Address) GeocodeQuery() string {
	if a.Street != "" {
		return a.Street + ", " + a.City + ", Brasil"
	}
	return a.City + ", " + a.State + ", Brasil"
}
