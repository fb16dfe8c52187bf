package mapui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// handleMouse tracks the pointer and dispatches clicks on markers.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	m.MouseX, m.MouseY = mouse.X, mouse.Y

	click, ok := msg.(tea.MouseClickMsg)
	if !ok || m.EditOpen {
		return m, nil
	}
	id, hit := m.hitTest(click.X, click.Y)
	switch {
	case !hit && click.Button == tea.MouseLeft:
		m.Selected = nil
		return m, nil
	case !hit:
		return m, nil
	case click.Button == tea.MouseLeft:
		return m.clickElement(id)
	case click.Button == tea.MouseRight:
		if id.Kind == itemKind {
			m.Selected = &id
			m.eng.manager.InfoWindowLongClick(id.Item)
		}
	}
	return m, nil
}

// hitTest returns the marker drawn at screen cell (x, y), if any.
func (m Model) hitTest(x, y int) (elementID, bool) {
	s := splitScreen(m.Width, m.Height)
	layers, ids := m.markerLayers(s.Map)
	hit := lipgloss.NewCompositor(layers...).Hit(x, y)
	if hit.Empty() {
		return elementID{}, false
	}
	id, ok := ids[hit.ID()]
	return id, ok
}

// clickElement sends a click to the manager. A cluster click that no
// listener consumed centers the camera on the cluster and zooms in; a
// second click on the selected item opens its info window.
func (m Model) clickElement(id elementID) (Model, tea.Cmd) {
	mgr := m.eng.manager
	switch id.Kind {
	case clusterKind:
		m.Selected = &id
		c, ok := m.eng.cluster(id.Key)
		if !ok {
			return m, nil
		}
		if mgr.ClickCluster(c) {
			return m, nil
		}
		m.Camera.Target = c.Position()
		m.Camera.Zoom = min(m.Camera.Zoom+zoomStep, maxZoom)
		m.Status = fmt.Sprintf("zoom to %d items", c.Size())
		return m.cameraMoved()

	case itemKind:
		if m.Selected != nil && *m.Selected == id {
			mgr.InfoWindowClick(id.Item)
			return m, nil
		}
		m.Selected = &id
		mgr.ClickItem(id.Item)
	}
	return m, nil
}
