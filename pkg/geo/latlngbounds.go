package geo

import (
	"errors"
	"math"
)

// ErrNoPoints is returned by BoundsBuilder.Build when nothing was included.
var ErrNoPoints = errors.New("geo: cannot build LatLngBounds: no points have been included")

// LatLngBounds is a rectangular geographic area given by two corners.
type LatLngBounds struct {
	Southwest LatLng
	Northeast LatLng
}

// Center returns the midpoint of the two corners.
func (b LatLngBounds) Center() LatLng {
	return LatLng{
		Latitude:  (b.Southwest.Latitude + b.Northeast.Latitude) / 2,
		Longitude: (b.Southwest.Longitude + b.Northeast.Longitude) / 2,
	}
}

// Contains reports whether ll lies inside the bounds, edges included.
func (b LatLngBounds) Contains(ll LatLng) bool {
	return ll.Latitude >= b.Southwest.Latitude && ll.Latitude <= b.Northeast.Latitude &&
		ll.Longitude >= b.Southwest.Longitude && ll.Longitude <= b.Northeast.Longitude
}

// BoundsBuilder grows a LatLngBounds to cover every included point.
type BoundsBuilder struct {
	swLat, swLng float64
	neLat, neLng float64
	n            int
}

// NewBoundsBuilder returns an empty builder.
func NewBoundsBuilder() *BoundsBuilder {
	return &BoundsBuilder{
		swLat: math.MaxFloat64, swLng: math.MaxFloat64,
		neLat: -math.MaxFloat64, neLng: -math.MaxFloat64,
	}
}

// Include extends the bounds to cover ll. Returns the builder for chaining.
func (b *BoundsBuilder) Include(ll LatLng) *BoundsBuilder {
	b.swLat = min(b.swLat, ll.Latitude)
	b.swLng = min(b.swLng, ll.Longitude)
	b.neLat = max(b.neLat, ll.Latitude)
	b.neLng = max(b.neLng, ll.Longitude)
	b.n++
	return b
}

// Build returns the covering bounds, or ErrNoPoints if Include was never called.
func (b *BoundsBuilder) Build() (LatLngBounds, error) {
	if b.n == 0 {
		return LatLngBounds{}, ErrNoPoints
	}
	return LatLngBounds{
		Southwest: LatLng{Latitude: b.swLat, Longitude: b.swLng},
		Northeast: LatLng{Latitude: b.neLat, Longitude: b.neLng},
	}, nil
}
