package geo

import (
	"fmt"
	"math"

	"fitscout-base/pkg/normalize"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers, rounded to two decimal places.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return normalize.Round2(earthRadiusKm * c)
}

// TravelTime estimates door-to-door time for a distance, assuming urban
// traffic at roughly 24 km/h. 0.8 km comes out as "2 min".
func TravelTime(distanceKm float64) string {
	if distanceKm < 0 {
		return ""
	}
	minutes := int(math.Round(distanceKm * 2.5))
	if minutes < 1 {
		minutes = 1
	}
	if minutes >= 60 {
		h := minutes / 60
		m := minutes % 60
		if m == 0 {
			return fmt.Sprintf("%d h", h)
		}
		return fmt.Sprintf("%d h %d min", h, m)
	}
	return fmt.Sprintf("%d min", minutes)
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}
