package entities

import "fmt"

// Shipping option labels
const (
	ShippingTypeMotoboy     = "Motoboy"
	ShippingTypeSedex       = "Sedex"
	ShippingTypePAC         = "PAC"
	ShippingTypeUnavailable = "Indisponível"
)

// ShippingOption is a single way to get an order from a store to the customer
type ShippingOption struct {
	Type         string  `json:"type"`
	Price        float64 `json:"price"`
	DeliveryTime string  `json:"deliveryTime"`
}

// UnavailableShippingOption is returned when no real quote could be obtained
func UnavailableShippingOption() ShippingOption {
	return ShippingOption{
		Type:         ShippingTypeUnavailable,
		Price:        0,
		DeliveryTime: "Consulte-nos",
	}
}

// BusinessDays renders a delivery estimate ("1 dia útil", "3 dias úteis")
func BusinessDays(days int) string {
	if days <= 1 {
		return "1 dia útil"
	}
	return fmt.Sprintf("%d dias úteis", days)
}
