package supercluster

import "math"

// Positions inside the index live in normalized Web Mercator space where the
// whole world maps to the unit square and y grows southwards.

// lngX converts a longitude to normalized x in [0, 1].
func lngX(lng float64) float64 {
	return lng/360 + 0.5
}

// latY converts a latitude to normalized y, clamped to [0, 1] so the poles stay finite.
func latY(lat float64) float64 {
	sin := math.Sin(lat * math.Pi / 180)
	y := 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	if y < 0 {
		return 0
	}
	if y > 1 {
		return 1
	}
	return y
}

// xLng converts normalized x back to longitude.
func xLng(x float64) float64 {
	return (x - 0.5) * 360
}

// yLat converts normalized y back to latitude.
func yLat(y float64) float64 {
	y2 := (180 - y*360) * math.Pi / 180
	return 360*math.Atan(math.Exp(y2))/math.Pi - 90
}

// fround mirrors the float32 storage of point coordinates.
func fround(v float64) float64 {
	return float64(float32(v))
}

// Project returns the normalized position of a lng/lat pair as used by the index.
func Project(lng, lat float64) (x, y float64) {
	return fround(lngX(lng)), fround(latY(lat))
}
