// Package geo provides the geographic primitives used by the clustering
// engine: lat/lng coordinates, the spherical Mercator projection onto the
// unit square, planar bounds, and camera/overlay positioning.
package geo

import "fmt"

// LatLng is a geographic location in degrees.
// Latitude is expected in [-90, 90] and longitude in [-180, 180].
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// NewLatLng is shorthand for LatLng{lat, lng}.
func NewLatLng(lat, lng float64) LatLng {
	return LatLng{Latitude: lat, Longitude: lng}
}

// String implements fmt.Stringer.
func (ll LatLng) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", ll.Latitude, ll.Longitude)
}

// Lerp interpolates linearly between from and to. The longitude takes the
// shortest path, so crossing the 180° meridian does not sweep the globe.
// fraction 0 returns from and 1 returns to exactly.
func Lerp(from, to LatLng, fraction float64) LatLng {
	if fraction == 0 {
		return from
	}
	if fraction == 1 {
		return to
	}

	lat := from.Latitude + (to.Latitude-from.Latitude)*fraction

	dLng := to.Longitude - from.Longitude
	if dLng > 180 {
		dLng -= 360
	} else if dLng < -180 {
		dLng += 360
	}
	lng := from.Longitude + dLng*fraction

	return LatLng{Latitude: lat, Longitude: lng}
}
