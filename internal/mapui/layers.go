package mapui

import (
	"fmt"
	"image"
	"math"

	"charm.land/lipgloss/v2"

	"github.com/wesen/clustermap/pkg/clusterstyle"
	"github.com/wesen/clustermap/pkg/drawutil"
	"github.com/wesen/clustermap/pkg/geo"
	"github.com/wesen/clustermap/pkg/mapcanvas"
)

const (
	itemGlyph     = "●"
	selItemGlyph  = "◆"
	graticuleGap  = 10
	trailLimit    = 4 // trails longer than this many screens are skipped
	zItem, zBadge = 2, 3
)

// viewport is the camera over the map region.
func (m Model) viewport() mapcanvas.Viewport {
	r := splitScreen(m.Width, m.Height).Map
	return mapcanvas.NewViewport(m.Camera, r.Dx(), r.Dy())
}

// buildMapLayer draws graticule, overlay and motion trails into a canvas
// and returns it as the background layer of the map region.
func (m Model) buildMapLayer(r image.Rectangle) *lipgloss.Layer {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return lipgloss.NewLayer("").X(r.Min.X).Y(r.Min.Y).Z(0)
	}
	v := mapcanvas.NewViewport(m.Camera, w, h)
	buf := mapcanvas.New(w, h, keyBG)

	if m.overlay != nil {
		drawutil.DrawBounds(buf, v, m.overlay.Extent(), keyOverlay)
	}
	m.eng.scene.each(func(_ elementID, e *sceneEntry) {
		if !e.moving() {
			return
		}
		fx, fy := v.ToCell(e.origin)
		hx, hy := v.ToCell(e.pos)
		if math.Max(math.Abs(fx-hx), math.Abs(fy-hy)) > trailLimit*float64(max(w, h)) {
			return
		}
		from, _ := v.Cell(e.origin)
		head, _ := v.Cell(e.pos)
		drawutil.DrawTrail(buf, from, head, keyTrail)
	})
	drawutil.DrawGraticule(buf, v, drawutil.GraticuleStep(v, graticuleGap), keyGrid)

	return lipgloss.NewLayer(buf.Render(mapStyles)).X(r.Min.X).Y(r.Min.Y).Z(0).ID("map")
}

// markerLayers returns one layer per visible element and the element each
// layer ID stands for.
func (m Model) markerLayers(r image.Rectangle) ([]*lipgloss.Layer, map[string]elementID) {
	v := mapcanvas.NewViewport(m.Camera, r.Dx(), r.Dy())
	var layers []*lipgloss.Layer
	ids := make(map[string]elementID)
	if r.Empty() {
		return layers, ids
	}

	n := 0
	m.eng.scene.each(func(id elementID, e *sceneEntry) {
		p, ok := v.Cell(e.pos)
		if !ok {
			return
		}
		selected := m.Selected != nil && *m.Selected == id

		var (
			text string
			z    int
		)
		switch id.Kind {
		case clusterKind:
			text = " " + clusterstyle.ForSize(len(e.el.Items)).Label + " "
			text = badgeStyle(len(e.el.Items), selected).Render(text)
			z = zBadge
		default:
			if selected {
				text = selItemStyle.Render(selItemGlyph)
			} else {
				text = itemStyle.Render(itemGlyph)
			}
			z = zItem
		}

		x := r.Min.X + p.X - lipgloss.Width(text)/2
		x = min(max(x, r.Min.X), r.Max.X-lipgloss.Width(text))
		layerID := fmt.Sprintf("el-%d", n)
		n++
		ids[layerID] = id
		layers = append(layers, lipgloss.NewLayer(text).X(x).Y(r.Min.Y+p.Y).Z(z).ID(layerID))
	})
	return layers, ids
}

// spanMeters is how much ground the map region covers horizontally.
func (m Model) spanMeters() float64 {
	v := m.viewport()
	if v.W == 0 {
		return 0
	}
	y := float64(v.H) / 2
	west, mid, east := v.LatLngAt(0, y), v.LatLngAt(float64(v.W)/2, y), v.LatLngAt(float64(v.W), y)
	// A great circle folds back past 180°, so measure in halves.
	return geo.GreatCircleMeters(west, mid) + geo.GreatCircleMeters(mid, east)
}
