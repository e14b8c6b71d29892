package geo

import (
	"math"

	"matchfeed-engine/internal/domain"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(a, b domain.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// DistanceScore maps a distance to (0,1]: 1 at zero distance, strictly
// decreasing with distance.
func DistanceScore(km float64) float64 {
	return 1 / (1 + km)
}

// NormalizedDistanceScore caps full credit inside radiusKm and decays
// linearly to zero at twice the radius.
func NormalizedDistanceScore(km, radiusKm float64) float64 {
	if radiusKm <= 0 {
		return DistanceScore(km)
	}
	if km <= radiusKm {
		return 1
	}
	return math.Max(0, 1-(km-radiusKm)/radiusKm)
}
