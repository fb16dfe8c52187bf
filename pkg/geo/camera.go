package geo

import "math"

// DefaultZoom is the zoom a CameraPosition gets when none is given.
const DefaultZoom = 10

// CameraPosition describes where the map camera is looking.
type CameraPosition struct {
	Target  LatLng
	Zoom    float64 // 0 = whole world, ~21 = building level
	Bearing float64 // degrees clockwise from north, [0, 360)
	Tilt    float64 // degrees from nadir
}

// NewCameraPosition returns a camera on target at DefaultZoom.
func NewCameraPosition(target LatLng) CameraPosition {
	return CameraPosition{Target: target, Zoom: DefaultZoom}
}

// CameraFromLatLngZoom returns a camera on target at the given zoom.
func CameraFromLatLngZoom(target LatLng, zoom float64) CameraPosition {
	return CameraPosition{Target: target, Zoom: zoom}
}

// WithBearing returns a copy with the bearing normalized to [0, 360).
func (c CameraPosition) WithBearing(deg float64) CameraPosition {
	b := math.Mod(deg, 360)
	if b < 0 {
		b += 360
	}
	c.Bearing = b
	return c
}

// Scale returns 2^zoom, the magnification relative to zoom 0.
// Fractional zoom is honored.
func (c CameraPosition) Scale() float64 {
	return math.Exp2(c.Zoom)
}
