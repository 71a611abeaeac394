// Package geo holds the great-circle distance helpers used to classify stores.
package geo

import (
	"fmt"
	"math"
	"strings"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm returns the haversine distance in kilometers between two points
// given in decimal degrees.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(degreesToRadians(lat1))*math.Cos(degreesToRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// rounding can push a slightly outside [0,1] near coincident or antipodal points
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// FormatDistance renders km for display: whole meters below 1 km,
// otherwise one decimal with a comma separator ("3,1 km").
func FormatDistance(km float64) string {
	if meters := math.Round(km * 1000); meters < 1000 {
		return fmt.Sprintf("%d metros", int(meters))
	}
	return strings.Replace(fmt.Sprintf("%.1f km", km), ".", ",", 1)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
