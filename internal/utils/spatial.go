package utils

import "math"

// HaversineDistance calculates the distance in meters between two points using the Haversine formula
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180.0)*math.Cos(lat2*math.Pi/180.0)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000
}

// CalculateBoundingBox calculates a rough bounding box around a point, used to
// narrow spatial queries before the exact distance check.
func CalculateBoundingBox(lat, lng, radiusMeters float64) (minLat, maxLat, minLng, maxLng float64) {
	// Approximate degrees per meter at the given latitude
	latDegreePerMeter := 1.0 / 111320.0
	lngDegreePerMeter := 1.0 / (111320.0 * math.Cos(lat*math.Pi/180.0))

	deltaLat := radiusMeters * latDegreePerMeter
	deltaLng := radiusMeters * lngDegreePerMeter

	minLat = math.Max(-90, lat-deltaLat)
	maxLat = math.Min(90, lat+deltaLat)
	minLng = math.Max(-180, lng-deltaLng)
	maxLng = math.Min(180, lng+deltaLng)

	return minLat, maxLat, minLng, maxLng
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidLatLng reports whether lat/lng are finite and inside the WGS84 range.
func ValidLatLng(lat, lng float64) bool {
	return IsFinite(lat) && IsFinite(lng) && math.Abs(lat) <= 90 && math.Abs(lng) <= 180
}
