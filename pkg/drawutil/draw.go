package drawutil

import (
	"image"

	"github.com/wesen/clustermap/pkg/mapcanvas"
)

func stepChar(pts []image.Point, i int) rune {
	switch {
	case i < len(pts)-1:
		return LineChar(pts[i+1].X-pts[i].X, pts[i+1].Y-pts[i].Y)
	case i > 0:
		return LineChar(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	default:
		return LineChar(0, 0)
	}
}

// DrawLine draws a solid segment from a to b.
func DrawLine(c *mapcanvas.Canvas, a, b image.Point, style mapcanvas.StyleKey) {
	pts := Bresenham(a, b)
	for i, p := range pts {
		c.Set(p.X, p.Y, stepChar(pts, i), style)
	}
}

// DrawTrail draws the path an element has travelled, from where its
// animation started to where it is now, with an arrowhead just behind the
// head. Every third cell is left out, and only blank cells are written so
// markers stay visible.
func DrawTrail(c *mapcanvas.Canvas, from, head image.Point, style mapcanvas.StyleKey) {
	pts := Bresenham(from, head)
	if len(pts) < 3 {
		return
	}
	// The head cell belongs to the marker itself.
	body := pts[:len(pts)-1]
	for i, p := range body[:len(body)-1] {
		if i%3 != 2 {
			c.SetIfBlank(p.X, p.Y, '·', style)
		}
	}
	tip := body[len(body)-1]
	c.SetIfBlank(tip.X, tip.Y, ArrowChar(head.X-tip.X, head.Y-tip.Y), style)
}
