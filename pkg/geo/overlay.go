package geo

import (
	"errors"
	"fmt"

	"github.com/golang/geo/s1"
)

// ErrOverlayPosition is wrapped by every GroundOverlayPosition
// construction failure.
var ErrOverlayPosition = errors.New("geo: invalid ground overlay position")

// GroundOverlayPosition places an image on the ground either by stretching
// it over LatLngBounds or by centering it on a location with a size in
// meters. Exactly one of the two modes is set.
type GroundOverlayPosition struct {
	bounds   *LatLngBounds
	location *LatLng
	width    float64 // meters
	height   float64 // meters, 0 = keep image aspect
}

// OverlayFromBounds positions an overlay over b.
func OverlayFromBounds(b LatLngBounds) (GroundOverlayPosition, error) {
	if b.Southwest.Latitude > b.Northeast.Latitude {
		return GroundOverlayPosition{}, fmt.Errorf("%w: southwest latitude %.6f is north of northeast latitude %.6f",
			ErrOverlayPosition, b.Southwest.Latitude, b.Northeast.Latitude)
	}
	return GroundOverlayPosition{bounds: &b}, nil
}

// OverlayAtLocation centers an overlay on loc, width meters wide. A zero
// height keeps the image aspect ratio.
func OverlayAtLocation(loc LatLng, width, height float64) (GroundOverlayPosition, error) {
	if width <= 0 {
		return GroundOverlayPosition{}, fmt.Errorf("%w: width must be positive, got %v", ErrOverlayPosition, width)
	}
	if height < 0 {
		return GroundOverlayPosition{}, fmt.Errorf("%w: height must not be negative, got %v", ErrOverlayPosition, height)
	}
	return GroundOverlayPosition{location: &loc, width: width, height: height}, nil
}

// OverlaySpec is the loosely-typed form of a position, as it arrives from
// configuration. Either Bounds or Location must be set, never both.
type OverlaySpec struct {
	Bounds   *LatLngBounds
	Location *LatLng
	Width    float64
	Height   float64
}

// NewGroundOverlayPosition validates spec and builds the position.
func NewGroundOverlayPosition(spec OverlaySpec) (GroundOverlayPosition, error) {
	switch {
	case spec.Bounds != nil && spec.Location != nil:
		return GroundOverlayPosition{}, fmt.Errorf("%w: bounds and location are mutually exclusive", ErrOverlayPosition)
	case spec.Bounds != nil:
		if spec.Width != 0 || spec.Height != 0 {
			return GroundOverlayPosition{}, fmt.Errorf("%w: width/height only apply to location-based overlays", ErrOverlayPosition)
		}
		return OverlayFromBounds(*spec.Bounds)
	case spec.Location != nil:
		return OverlayAtLocation(*spec.Location, spec.Width, spec.Height)
	default:
		return GroundOverlayPosition{}, fmt.Errorf("%w: one of bounds or location is required", ErrOverlayPosition)
	}
}

// Bounds reports the bounds for a bounds-based overlay.
func (g GroundOverlayPosition) Bounds() (LatLngBounds, bool) {
	if g.bounds == nil {
		return LatLngBounds{}, false
	}
	return *g.bounds, true
}

// Location reports center and size for a location-based overlay.
func (g GroundOverlayPosition) Location() (loc LatLng, width, height float64, ok bool) {
	if g.location == nil {
		return LatLng{}, 0, 0, false
	}
	return *g.location, g.width, g.height, true
}

// Extent returns the area covered on the ground. For location-based
// overlays the meter size is converted with a spherical earth; a zero
// height is treated as square.
func (g GroundOverlayPosition) Extent() LatLngBounds {
	if g.bounds != nil {
		return *g.bounds
	}
	if g.location == nil {
		return LatLngBounds{}
	}
	h := g.height
	if h == 0 {
		h = g.width
	}
	c := *g.location
	halfLat := metersToAngle(h / 2).Degrees()
	halfLng := metersToAngle(g.width/2).Degrees() / cosDeg(c.Latitude)
	return LatLngBounds{
		Southwest: LatLng{Latitude: c.Latitude - halfLat, Longitude: c.Longitude - halfLng},
		Northeast: LatLng{Latitude: c.Latitude + halfLat, Longitude: c.Longitude + halfLng},
	}
}

func metersToAngle(m float64) s1.Angle {
	return s1.Angle(m / EarthRadiusMeters)
}
