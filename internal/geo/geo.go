// Package geo computes great-circle distances and skating travel times.
package geo

import (
	"fmt"
	"math"
)

const (
	// EarthRadiusKm is the mean Earth radius.
	EarthRadiusKm = 6371.0
	// SkatingSpeedKmh is the assumed average skating speed.
	SkatingSpeedKmh = 12.0
)

func ToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// HaversineKm returns the great-circle distance between two points given in
// decimal degrees.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := ToRad(lat2 - lat1)
	dLon := ToRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(ToRad(lat1))*math.Cos(ToRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// EstimatedTravelTime formats the time needed to skate km kilometres.
// Under an hour it reports rounded minutes ("10 min en patines"), otherwise
// whole hours and the rounded remainder ("2h 5min en patines").
func EstimatedTravelTime(km float64) string {
	hours := km / SkatingSpeedKmh

	if hours < 1 {
		return fmt.Sprintf("%d min en patines", int(math.Round(hours*60)))
	}

	whole := math.Floor(hours)
	minutes := int(math.Round((hours - whole) * 60))
	return fmt.Sprintf("%dh %dmin en patines", int(whole), minutes)
}

// FormatKm renders a distance with one decimal.
func FormatKm(km float64) string {
	return fmt.Sprintf("%.1f km", km)
}
