package entities

import (
	"fmt"
	"strings"
)

// StoreKind is the per-query classification of a store
type StoreKind string

const (
	// StoreKindPDV is a point of sale within the proximity radius
	StoreKindPDV StoreKind = "PDV"
	// StoreKindLoja is a store outside the radius, shipped by carrier
	StoreKindLoja StoreKind = "LOJA"
)

// ParseStoreKind parses a case-insensitive kind name
func ParseStoreKind(value string) (StoreKind, error) {
	switch StoreKind(strings.ToUpper(strings.TrimSpace(value))) {
	case StoreKindPDV:
		return StoreKindPDV, nil
	case StoreKindLoja:
		return StoreKindLoja, nil
	default:
		return "", fmt.Errorf("unknown store kind %q", value)
	}
}
