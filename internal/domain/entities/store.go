package entities

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

var postalCodePattern = regexp.MustCompile(`^\d{8}$`)

// Store represents a registered retail point in the catalog
type Store struct {
	ID                   string    `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	City                 string    `json:"city" db:"city"`
	State                string    `json:"state" db:"state"`
	Country              string    `json:"country" db:"country"`
	PostalCode           string    `json:"postal_code" db:"postal_code"`
	Location             Location  `json:"location" db:"-"`
	LocalFulfillmentDays int       `json:"local_fulfillment_days" db:"local_fulfillment_days"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates in decimal degrees
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Validate checks the invariants a store must hold before it can be classified
func (s *Store) Validate() error {
	if !isFinite(s.Location.Latitude) || !isFinite(s.Location.Longitude) {
		return fmt.Errorf("store %s: coordinates must be finite numbers", s.ID)
	}
	if s.Location.Latitude < -90 || s.Location.Latitude > 90 {
		return fmt.Errorf("store %s: latitude %v out of range", s.ID, s.Location.Latitude)
	}
	if s.Location.Longitude < -180 || s.Location.Longitude > 180 {
		return fmt.Errorf("store %s: longitude %v out of range", s.ID, s.Location.Longitude)
	}
	if !IsValidPostalCode(s.PostalCode) {
		return fmt.Errorf("store %s: invalid postal code %q", s.ID, s.PostalCode)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FulfillmentDays returns the configured lead time, never less than one day
func (s *Store) FulfillmentDays() int {
	if s.LocalFulfillmentDays < 1 {
		return 1
	}
	return s.LocalFulfillmentDays
}

// NormalizePostalCode strips everything but digits ("01001-000" -> "01001000")
func NormalizePostalCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPostalCode reports whether code is an 8-digit CEP
func IsValidPostalCode(code string) bool {
	return postalCodePattern.MatchString(code)
}
