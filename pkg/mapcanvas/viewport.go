package mapcanvas

import (
	"image"
	"math"

	"github.com/wesen/clustermap/pkg/geo"
)

const (
	// TileSize is the world width in pixels at zoom 0.
	TileSize = 256
	// CellWidthPx and CellHeightPx are how many map pixels one terminal
	// cell covers. Cells are about twice as tall as they are wide.
	CellWidthPx  = 8
	CellHeightPx = 16
)

// Viewport is a camera over the Mercator plane, sized in cells.
type Viewport struct {
	Camera geo.CameraPosition
	W, H   int
}

// NewViewport centers a W×H viewport on camera.
func NewViewport(camera geo.CameraPosition, w, h int) Viewport {
	return Viewport{Camera: camera, W: w, H: h}
}

func (v Viewport) projection() geo.Projection {
	return geo.NewProjection(TileSize * v.Camera.Scale())
}

// ToCell returns the fractional cell coordinates of ll.
func (v Viewport) ToCell(ll geo.LatLng) (x, y float64) {
	p := v.projection()
	pt := p.ToPoint(ll)
	c := p.ToPoint(v.Camera.Target)
	x = (pt.X-c.X)/CellWidthPx + float64(v.W)/2
	y = (pt.Y-c.Y)/CellHeightPx + float64(v.H)/2
	return x, y
}

// Cell returns the cell containing ll and whether it is on screen.
func (v Viewport) Cell(ll geo.LatLng) (image.Point, bool) {
	x, y := v.ToCell(ll)
	p := image.Pt(int(math.Floor(x)), int(math.Floor(y)))
	return p, p.X >= 0 && p.X < v.W && p.Y >= 0 && p.Y < v.H
}

// ToLatLng returns the location at the center of cell (x, y).
func (v Viewport) ToLatLng(x, y int) geo.LatLng {
	return v.LatLngAt(float64(x)+0.5, float64(y)+0.5)
}

// LatLngAt is the inverse of ToCell: (0, 0) is the top-left corner of
// the first cell.
func (v Viewport) LatLngAt(x, y float64) geo.LatLng {
	p := v.projection()
	c := p.ToPoint(v.Camera.Target)
	pt := geo.Point{
		X: c.X + (x-float64(v.W)/2)*CellWidthPx,
		Y: c.Y + (y-float64(v.H)/2)*CellHeightPx,
	}
	return p.ToLatLng(pt)
}

// Pan moves the camera by dx, dy cells.
func (v Viewport) Pan(dx, dy int) Viewport {
	p := v.projection()
	c := p.ToPoint(v.Camera.Target)
	c.X += float64(dx) * CellWidthPx
	c.Y += float64(dy) * CellHeightPx

	// Keep the center on the world.
	c.X = math.Mod(c.X+p.WorldWidth, p.WorldWidth)
	c.Y = min(max(c.Y, 0), p.WorldWidth)

	v.Camera.Target = p.ToLatLng(c)
	return v
}

// Zoom changes the camera zoom by delta, keeping the center fixed.
func (v Viewport) Zoom(delta float64) Viewport {
	v.Camera.Zoom += delta
	return v
}

// Visible returns the lat/lng box covered by the viewport.
func (v Viewport) Visible() geo.LatLngBounds {
	b, _ := geo.NewBoundsBuilder().
		Include(v.ToLatLng(0, 0)).
		Include(v.ToLatLng(v.W-1, v.H-1)).
		Build()
	return b
}
