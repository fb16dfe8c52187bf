// Package clustering groups geo-located items into clusters using a point
// quad-tree over the unit Mercator plane.
package clustering

import "github.com/wesen/clustermap/pkg/geo"

// ClusterItem is a caller-owned entity placed on the map. Identity is Go
// equality, so pointer types work well. An item must not change position
// while it is in an Algorithm.
type ClusterItem interface {
	comparable
	Position() geo.LatLng
	Title() string
	Snippet() string
	// ZIndex returns the drawing order, if one was set.
	ZIndex() (float32, bool)
}

// Marker is the stock ClusterItem. Use it as *Marker.
type Marker struct {
	id       string
	position geo.LatLng
	title    string
	snippet  string
	zIndex   *float32
}

// NewMarker creates a marker.
func NewMarker(id string, position geo.LatLng, title, snippet string) *Marker {
	return &Marker{id: id, position: position, title: title, snippet: snippet}
}

func (m *Marker) ID() string           { return m.id }
func (m *Marker) Position() geo.LatLng { return m.position }
func (m *Marker) Title() string        { return m.title }
func (m *Marker) Snippet() string      { return m.snippet }

// ZIndex implements ClusterItem.
func (m *Marker) ZIndex() (float32, bool) {
	if m.zIndex == nil {
		return 0, false
	}
	return *m.zIndex, true
}

// SetZIndex sets the drawing order. Call before handing the marker to an
// Algorithm.
func (m *Marker) SetZIndex(z float32) *Marker {
	m.zIndex = &z
	return m
}
