package mapui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/wesen/clustermap/pkg/geo"
)

var (
	panelTitleStyle = lipgloss.NewStyle().
			Foreground(toolbarColor).
			Background(panelBG).
			Bold(true)

	panelDimStyle = lipgloss.NewStyle().
			Foreground(c("#4a6a80")).
			Background(panelBG)

	panelTextStyle = lipgloss.NewStyle().
			Foreground(c("#c0d8e8")).
			Background(panelBG)

	panelKeyStyle = lipgloss.NewStyle().
			Foreground(colorOverlay).
			Background(panelBG)

	panelSepStyle = lipgloss.NewStyle().
			Foreground(colorGrid).
			Background(colorBG)

	panelLineStyle = lipgloss.NewStyle().
			Background(panelBG)

	errStyle = lipgloss.NewStyle().
			Foreground(c("#ff6b6b")).
			Background(panelBG)
)

// padLine right-pads a styled line to width with the panel background.
func padLine(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += panelLineStyle.Render(strings.Repeat(" ", pad))
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-1]) + "…"
}

// section is a titled block of panel lines.
type section struct {
	title string
	lines []string
}

func kv(k string, v any) string {
	return panelKeyStyle.Render(fmt.Sprintf("  %-9s", k)) + panelTextStyle.Render(fmt.Sprint(v))
}

func (m Model) panelSections() []section {
	eng := m.eng
	cam := section{title: "CAMERA", lines: []string{
		kv("center", m.Camera.Target),
		kv("zoom", fmt.Sprintf("%.2f", m.Camera.Zoom)),
		kv("width", formatMeters(m.spanMeters())),
	}}
	if m.moving {
		cam.lines = append(cam.lines, panelDimStyle.Render("  moving…"))
	}

	plan := eng.lastPlan
	clusters := section{title: "CLUSTERS", lines: []string{
		kv("items", len(eng.manager.Items())),
		kv("groups", len(eng.clusters)),
		kv("drawn", eng.scene.Len()),
		kv("plan", fmt.Sprintf("+%d -%d =%d", plan[0], plan[1], plan[2])),
		kv("moving", eng.player.Animating()),
		kv("policy", truncate(eng.policy.Source(), panelWidth-14)),
	}}
	if m.pending {
		clusters.lines = append(clusters.lines, panelDimStyle.Render("  clustering…"))
	}

	return []section{cam, clusters, m.selectionSection(), m.eventSection(), helpSection}
}

func (m Model) selectionSection() section {
	s := section{title: "SELECTION"}
	if m.Selected == nil {
		s.lines = append(s.lines, panelDimStyle.Render("  (none)"))
		return s
	}
	e, ok := m.eng.scene.get(*m.Selected)
	if !ok {
		s.lines = append(s.lines, panelDimStyle.Render("  (gone)"))
		return s
	}
	dist := formatMeters(geo.GreatCircleMeters(m.Camera.Target, e.pos))
	switch m.Selected.Kind {
	case clusterKind:
		s.lines = append(s.lines,
			kv("cluster", fmt.Sprintf("%d items", len(e.el.Items))),
			kv("at", e.pos),
			kv("away", dist),
		)
		for i, it := range e.el.Items {
			if i == 3 {
				s.lines = append(s.lines, panelDimStyle.Render(fmt.Sprintf("  … %d more", len(e.el.Items)-3)))
				break
			}
			s.lines = append(s.lines, panelTextStyle.Render("  · "+truncate(it.Title(), panelWidth-6)))
		}
	default:
		it := m.Selected.Item
		s.lines = append(s.lines,
			kv("title", truncate(it.Title(), panelWidth-13)),
			kv("snippet", truncate(it.Snippet(), panelWidth-13)),
			kv("at", it.Position()),
			kv("away", dist),
		)
	}
	return s
}

func (m Model) eventSection() section {
	s := section{title: "EVENTS"}
	if len(m.eng.events) == 0 {
		s.lines = append(s.lines, panelDimStyle.Render("  (none)"))
	}
	for _, ev := range m.eng.events {
		s.lines = append(s.lines, panelTextStyle.Render("  "+truncate(ev, panelWidth-4)))
	}
	return s
}

var helpSection = section{title: "HELP", lines: []string{
	panelTextStyle.Render("  ←↑↓→ pan   +/- zoom  [/] fine"),
	panelTextStyle.Render("  click: select / open cluster"),
	panelTextStyle.Render("  click again: info  i: long"),
	panelTextStyle.Render("  [e]policy [r]regenerate [q]uit"),
}}

// buildPanelLayer stacks the sections into one layer, cut to height.
func (m Model) buildPanelLayer(x, y, width, height int) *lipgloss.Layer {
	var lines []string
	for _, s := range m.panelSections() {
		lines = append(lines, panelTitleStyle.Render(" "+s.title))
		lines = append(lines, s.lines...)
		lines = append(lines, "")
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]
	for i, l := range lines {
		lines[i] = padLine(l, width)
	}
	return lipgloss.NewLayer(strings.Join(lines, "\n")).X(x).Y(y).Z(1).ID("panel")
}

func formatMeters(d float64) string {
	if d >= 1000 {
		return fmt.Sprintf("%.1f km", d/1000)
	}
	return fmt.Sprintf("%.0f m", d)
}
