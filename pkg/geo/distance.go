package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean earth radius used for meter conversions.
const EarthRadiusMeters = 6371010.0

// GreatCircleMeters returns the surface distance between a and b.
// Clustering itself never uses this; it works in projected plane units.
func GreatCircleMeters(a, b LatLng) float64 {
	pa := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	pb := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return pa.Distance(pb).Radians() * EarthRadiusMeters
}

// PlaneSpanMeters converts a horizontal span in plane units (for the given
// projection) at location ll into meters along the ground.
func (p Projection) PlaneSpanMeters(ll LatLng, span float64) float64 {
	pt := p.ToPoint(ll)
	east := p.ToLatLng(Point{X: pt.X + span, Y: pt.Y})
	return GreatCircleMeters(ll, east)
}

func cosDeg(deg float64) float64 {
	c := math.Cos(deg * math.Pi / 180)
	if c < 1e-9 {
		return 1e-9
	}
	return c
}
