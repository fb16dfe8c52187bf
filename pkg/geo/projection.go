package geo

import "math"

// Projection is the spherical Mercator projection onto a square plane of
// side WorldWidth. The unit square (WorldWidth 1) is what the spatial index
// and the clustering distances operate in.
type Projection struct {
	WorldWidth float64
}

// UnitProjection projects onto [0,1]×[0,1].
var UnitProjection = NewProjection(1)

// NewProjection returns a Projection for the given world width.
func NewProjection(worldWidth float64) Projection {
	return Projection{WorldWidth: worldWidth}
}

// ToPoint projects a location onto the plane. Latitudes at the poles map
// to ±Inf on the y axis, outside any finite bounds.
func (p Projection) ToPoint(ll LatLng) Point {
	x := ll.Longitude/360 + 0.5
	siny := math.Sin(ll.Latitude * math.Pi / 180)
	y := 0.5*math.Log((1+siny)/(1-siny))/-(2*math.Pi) + 0.5
	return Point{X: x * p.WorldWidth, Y: y * p.WorldWidth}
}

// ToLatLng is the inverse of ToPoint.
func (p Projection) ToLatLng(pt Point) LatLng {
	x := pt.X/p.WorldWidth - 0.5
	lng := x * 360

	y := 0.5 - pt.Y/p.WorldWidth
	lat := 90 - math.Atan(math.Exp(-y*2*math.Pi))*2*180/math.Pi

	return LatLng{Latitude: lat, Longitude: lng}
}
