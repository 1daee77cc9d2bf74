// Package geo provides the distance helper used by input mappers to
// accrue a device's odometer between successive fixes.
package geo

import "math"

const earthRadiusKm = 6371.0

// HaversineMeters returns the great-circle distance between two
// lat/lon pairs, truncated to whole meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) int {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	lat1, lon1, lat2, lon2 = rad(lat1), rad(lon1), rad(lat2), rad(lon2)

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int(c * earthRadiusKm * 1000)
}
