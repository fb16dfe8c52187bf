package mapui

import (
	"fmt"
	"math"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/wesen/clustermap/pkg/clustering"
)

const (
	panX, panY    = 6, 3
	zoomStep      = 1.0
	fineZoomStep  = 0.25
	minZoom       = 0.0
	maxZoom       = 21.0
	frameInterval = time.Second / 60
)

// cameraIdleMsg fires idleDelay after a camera change. Only the one
// matching the latest change counts.
type cameraIdleMsg struct{ seq int }

// clusteredMsg carries the result of a clustering request.
type clusteredMsg struct {
	seq      int
	zoom     float64
	clusters []*clustering.Cluster[marker]
	err      error
}

// frameMsg advances playback.
type frameMsg time.Time

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tea.KeyMsg:
		if m.EditOpen {
			return m.handleEditKeys(msg)
		}
		return m.handleKeys(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case cameraIdleMsg:
		if msg.seq != m.moveSeq {
			return m, nil
		}
		m.moving = false
		// Groupings only change with the floored zoom; a pan keeps them.
		if math.Floor(m.Camera.Zoom) == m.clusterZoom {
			return m, nil
		}
		return m.requestClusters()

	case clusteredMsg:
		return m.applyClusters(msg)

	case frameMsg:
		if m.eng.advance(time.Time(msg)) {
			return m, frameCmd()
		}
		m.ticking = false
	}

	return m, nil
}

// handleKeys processes keyboard input outside the editor.
func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up":
		return m.moveCamera(0, -panY, 0)
	case "down":
		return m.moveCamera(0, panY, 0)
	case "left":
		return m.moveCamera(-panX, 0, 0)
	case "right":
		return m.moveCamera(panX, 0, 0)
	case "+", "=":
		return m.moveCamera(0, 0, zoomStep)
	case "-", "_":
		return m.moveCamera(0, 0, -zoomStep)
	case "]":
		return m.moveCamera(0, 0, fineZoomStep)
	case "[":
		return m.moveCamera(0, 0, -fineZoomStep)

	case "e":
		return m.openEditor()

	case "r":
		if m.regenerate == nil {
			m.Status = "no generator for new items"
			return m, nil
		}
		items := m.regenerate()
		m.eng.setItems(items)
		m.Selected = nil
		m.Status = fmt.Sprintf("%d new items", len(items))
		return m.requestClusters()

	case "i":
		// Long press stand-in for terminals.
		if it, ok := m.selectedItem(); ok {
			m.eng.manager.InfoWindowLongClick(it)
		}

	case "esc", "escape":
		m.Selected = nil
		m.Status = ""
	}
	return m, nil
}

// moveCamera pans by dx, dy cells and zooms by dz, then waits for the
// camera to go idle before reclustering.
func (m Model) moveCamera(dx, dy int, dz float64) (Model, tea.Cmd) {
	v := m.viewport()
	if dx != 0 || dy != 0 {
		v = v.Pan(dx, dy)
	}
	if dz != 0 {
		z := min(max(v.Camera.Zoom+dz, minZoom), maxZoom)
		v = v.Zoom(z - v.Camera.Zoom)
	}
	m.Camera = v.Camera
	return m.cameraMoved()
}

// cameraMoved restarts the idle timer.
func (m Model) cameraMoved() (Model, tea.Cmd) {
	m.moveSeq++
	m.moving = true
	seq := m.moveSeq
	if m.idleDelay <= 0 {
		return m, func() tea.Msg { return cameraIdleMsg{seq: seq} }
	}
	return m, tea.Tick(m.idleDelay, func(time.Time) tea.Msg { return cameraIdleMsg{seq: seq} })
}

// requestClusters starts a clustering pass for the current zoom. Older
// requests still in flight are ignored when they land.
func (m Model) requestClusters() (Model, tea.Cmd) {
	m.reqSeq++
	m.pending = true
	m.clusterZoom = math.Floor(m.Camera.Zoom)
	return m, m.clusterCmd()
}

func (m Model) clusterCmd() tea.Cmd {
	seq, zoom := m.reqSeq, m.Camera.Zoom
	eng := m.eng
	return func() tea.Msg {
		clusters, err := eng.manager.Clusters(eng.ctx, zoom)
		return clusteredMsg{seq: seq, zoom: zoom, clusters: clusters, err: err}
	}
}

func (m Model) applyClusters(msg clusteredMsg) (Model, tea.Cmd) {
	if msg.seq != m.reqSeq {
		return m, nil
	}
	m.pending = false
	if msg.err != nil {
		m.eng.log.WithError(msg.err).Warn("clustering failed")
		m.clusterZoom = math.NaN()
		m.Status = "clustering failed: " + msg.err.Error()
		return m, nil
	}

	m.eng.apply(msg.clusters, msg.zoom)
	if m.Selected != nil {
		if _, ok := m.eng.scene.get(*m.Selected); !ok {
			m.Selected = nil
		}
	}
	if m.eng.player.Animating() > 0 && !m.ticking {
		m.ticking = true
		return m, frameCmd()
	}
	return m, nil
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) selectedItem() (marker, bool) {
	if m.Selected == nil || m.Selected.Kind != itemKind {
		return nil, false
	}
	return m.Selected.Item, true
}
