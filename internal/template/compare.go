package template

import "math"

// Default tolerances for Compare.
const (
	VerifyTolerance   = 0.15
	IntruderTolerance = 0.25
)

// Compare reports whether two equal-length hashes agree position by position
// in at least 1-tolerance of their characters. A tolerance of zero or less
// requires an exact match; hashes of different length never match.
func Compare(stored, current string, tolerance float64) bool {
	if tolerance <= 0 {
		return stored == current
	}
	if len(stored) != len(current) {
		return false
	}
	if len(stored) == 0 {
		return true
	}
	matching := 0
	for i := 0; i < len(stored); i++ {
		if stored[i] == current[i] {
			matching++
		}
	}
	return float64(matching)/float64(len(stored)) >= 1-tolerance
}

const earthRadiusM = 6371000.0

// DistanceMeters is the haversine great-circle distance between two points.
func DistanceMeters(a, b GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinDistance reports whether b lies within maxMeters of a.
func WithinDistance(a, b GeoPoint, maxMeters float64) bool {
	return DistanceMeters(a, b) <= maxMeters
}
