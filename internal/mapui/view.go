package mapui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// View implements tea.Model.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

// render composes the whole screen.
func (m Model) render() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}
	s := splitScreen(m.Width, m.Height)

	layers := []*lipgloss.Layer{
		fillLayer(s.Toolbar, tbStyle, "toolbar-bg", 0),
		fillLayer(s.Map, bgStyle, "map-bg", 0),
		m.buildMapLayer(s.Map),
	}

	tb := fmt.Sprintf(" clustermap │ zoom %.2f │ %d items │ %s │ [e]policy [r]regen [q]uit",
		m.Camera.Zoom, len(m.eng.manager.Items()), m.Camera.Target)
	layers = append(layers, barLayer(tb, s.Toolbar, tbStyle, "toolbar"))

	if !s.Footer.Empty() {
		status := m.Status
		if status == "" {
			status = "ready"
		}
		ft := fmt.Sprintf(" Mouse: (%d,%d)  %s", m.MouseX, m.MouseY, status)
		layers = append(layers, barLayer(ft, s.Footer, ftStyle, "footer"))
	}

	markers, _ := m.markerLayers(s.Map)
	layers = append(layers, markers...)

	if !s.Panel.Empty() {
		layers = append(layers,
			separatorLayer(s.Panel.Min.X-1, s.Panel.Min.Y, s.Panel.Dy(), panelSepStyle),
			fillLayer(s.Panel, panelLineStyle, "panel-bg", 0),
			m.buildPanelLayer(s.Panel.Min.X, s.Panel.Min.Y, s.Panel.Dx(), s.Panel.Dy()),
		)
	}

	if m.EditOpen {
		layers = append(layers, modalLayer(m.editorView(), m.Width, m.Height))
	}

	comp := lipgloss.NewCompositor(layers...)
	canvas := lipgloss.NewCanvas(m.Width, m.Height)
	canvas.Compose(comp)
	return canvas.Render()
}
