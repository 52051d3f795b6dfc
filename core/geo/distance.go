package geo

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

const (
	metersPerMile = 1609.34
	feetPerMeter  = 3.28084
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Unit selects the rendering system for formatted distances.
type Unit string

const (
	UnitImperial Unit = "imperial"
	UnitMetric   Unit = "metric"
)

// Distance returns the great-circle distance between two points in
// meters using the haversine formula.
func Distance(a, b Point) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusMeters * c
}

// FormatDistance renders a distance for humans. Short distances use
// feet (imperial) or meters (metric); longer ones use miles or
// kilometers rounded to one decimal.
func FormatDistance(meters float64, unit Unit) string {
	if unit == UnitMetric {
		if meters < 100 {
			return fmt.Sprintf("%.0f m", meters)
		}
		return fmt.Sprintf("%.1f km", meters/1000)
	}
	miles := meters / metersPerMile
	if miles < 0.1 {
		return fmt.Sprintf("%.0f ft", meters*feetPerMeter)
	}
	return fmt.Sprintf("%.1f mi", miles)
}
