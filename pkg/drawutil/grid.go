package drawutil

import (
	"math"

	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/mapcanvas"
)

// GraticuleStep picks a lat/lng line spacing in degrees that leaves
// roughly minCells cells between lines at zoom.
func GraticuleStep(v mapcanvas.Viewport, minCells int) float64 {
	degPerCell := 360 / (mapcanvas.TileSize * v.Camera.Scale() / mapcanvas.CellWidthPx)
	for _, step := range []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 15, 30, 45, 90} {
		if step/degPerCell >= float64(minCells) {
			return step
		}
	}
	return 90
}

// DrawGraticule draws meridians and parallels every step degrees, each in
// the column or row whose west or north edge it crosses. Only blank cells
// are touched.
func DrawGraticule(c *mapcanvas.Canvas, v mapcanvas.Viewport, step float64, style mapcanvas.StyleKey) {
	if step <= 0 {
		return
	}
	cols := make([]bool, c.W)
	for x := range cols {
		west := v.LatLngAt(float64(x), 0).Longitude
		east := v.LatLngAt(float64(x+1), 0).Longitude
		cols[x] = math.Ceil(west/step) < math.Ceil(east/step)
	}
	rows := make([]bool, c.H)
	for y := range rows {
		north := v.LatLngAt(0, float64(y)).Latitude
		south := v.LatLngAt(0, float64(y+1)).Latitude
		rows[y] = math.Floor(south/step) < math.Floor(north/step)
	}

	for y := range c.H {
		for x := range c.W {
			switch {
			case cols[x] && rows[y]:
				c.SetIfBlank(x, y, '┼', style)
			case cols[x]:
				c.SetIfBlank(x, y, '┊', style)
			case rows[y]:
				c.SetIfBlank(x, y, '┈', style)
			}
		}
	}
}

// DrawBounds outlines a lat/lng box. Edges off screen are clipped.
func DrawBounds(c *mapcanvas.Canvas, v mapcanvas.Viewport, b geo.LatLngBounds, style mapcanvas.StyleKey) {
	x0, y0 := v.ToCell(geo.NewLatLng(b.Northeast.Latitude, b.Southwest.Longitude))
	x1, y1 := v.ToCell(geo.NewLatLng(b.Southwest.Latitude, b.Northeast.Longitude))
	left, top := int(math.Floor(x0)), int(math.Floor(y0))
	right, bottom := int(math.Floor(x1)), int(math.Floor(y1))
	if right <= left || bottom <= top {
		c.Set(left, top, '□', style)
		return
	}

	for x := left + 1; x < right; x++ {
		c.Set(x, top, '─', style)
		c.Set(x, bottom, '─', style)
	}
	for y := top + 1; y < bottom; y++ {
		c.Set(left, y, '│', style)
		c.Set(right, y, '│', style)
	}
	c.Set(left, top, '┌', style)
	c.Set(right, top, '┐', style)
	c.Set(left, bottom, '└', style)
	c.Set(right, bottom, '┘', style)
}
