package geo

// Point is a coordinate on the projected plane.
type Point struct {
	X, Y float64
}

// Bounds is an axis-aligned rectangle on the projected plane.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MidX, MidY float64
}

// NewBounds builds Bounds and precomputes the midpoints.
func NewBounds(minX, maxX, minY, maxY float64) Bounds {
	return Bounds{
		MinX: minX, MaxX: maxX,
		MinY: minY, MaxY: maxY,
		MidX: (minX + maxX) / 2,
		MidY: (minY + maxY) / 2,
	}
}

// BoundsAround returns the square of side span centered on p.
func BoundsAround(p Point, span float64) Bounds {
	half := span / 2
	return NewBounds(p.X-half, p.X+half, p.Y-half, p.Y+half)
}

// Contains reports whether (x, y) lies inside b. Edges are inclusive.
func (b Bounds) Contains(x, y float64) bool {
	return b.MinX <= x && x <= b.MaxX && b.MinY <= y && y <= b.MaxY
}

// ContainsPoint is Contains for a Point.
func (b Bounds) ContainsPoint(p Point) bool {
	return b.Contains(p.X, p.Y)
}

// ContainsBounds reports whether o lies entirely inside b.
func (b Bounds) ContainsBounds(o Bounds) bool {
	return o.MinX >= b.MinX && o.MaxX <= b.MaxX && o.MinY >= b.MinY && o.MaxY <= b.MaxY
}

// Intersects reports whether b overlaps the given extent. Touching edges
// do not count as overlap.
func (b Bounds) Intersects(minX, maxX, minY, maxY float64) bool {
	return minX < b.MaxX && b.MinX < maxX && minY < b.MaxY && b.MinY < maxY
}

// IntersectsBounds is Intersects for another Bounds.
func (b Bounds) IntersectsBounds(o Bounds) bool {
	return b.Intersects(o.MinX, o.MaxX, o.MinY, o.MaxY)
}

// Touches reports whether b and o share at least one point. Unlike
// Intersects, touching edges count.
func (b Bounds) Touches(o Bounds) bool {
	return o.MinX <= b.MaxX && b.MinX <= o.MaxX && o.MinY <= b.MaxY && b.MinY <= o.MaxY
}
