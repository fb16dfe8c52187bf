package mapui

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/wesen/clustermap/pkg/clusterstyle"
	"github.com/wesen/clustermap/pkg/mapcanvas"
)

// c is shorthand for lipgloss.Color.
func c(hex string) color.Color { return lipgloss.Color(hex) }

// Palette: dark sea, green land grid.
var (
	colorBG      = c("#07111a")
	colorGrid    = c("#16324a")
	colorTrail   = c("#5fa8d3")
	colorOverlay = c("#c8a04a")
	colorItem    = c("#7fd1b9")
	colorSel     = c("#ffcc00")
	toolbarColor = c("#9fe7ff")
	footerColor  = c("#667788")
	panelBG      = c("#0f1f2b")
)

// mapcanvas style keys for the background map layer.
const (
	keyBG mapcanvas.StyleKey = iota
	keyGrid
	keyTrail
	keyOverlay
)

var mapStyles = map[mapcanvas.StyleKey]lipgloss.Style{
	keyBG:      lipgloss.NewStyle().Foreground(colorGrid).Background(colorBG),
	keyGrid:    lipgloss.NewStyle().Foreground(colorGrid).Background(colorBG),
	keyTrail:   lipgloss.NewStyle().Foreground(colorTrail).Background(colorBG),
	keyOverlay: lipgloss.NewStyle().Foreground(colorOverlay).Background(colorBG),
}

var (
	tbStyle = lipgloss.NewStyle().
		Background(c("#0b1a26")).
		Foreground(toolbarColor).
		Bold(true)

	ftStyle = lipgloss.NewStyle().
		Foreground(footerColor)

	bgStyle = lipgloss.NewStyle().
		Background(colorBG)

	itemStyle = lipgloss.NewStyle().
			Foreground(colorItem).
			Background(colorBG).
			Bold(true)

	selItemStyle = lipgloss.NewStyle().
			Foreground(colorSel).
			Background(colorBG).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(toolbarColor).
			Background(panelBG).
			Padding(0, 1)
)

// badgeStyle colours a cluster badge by its size bucket.
func badgeStyle(size int, selected bool) lipgloss.Style {
	s := clusterstyle.ForSize(size)
	st := lipgloss.NewStyle().
		Background(lipgloss.Color(s.FillHex())).
		Foreground(clusterstyle.Text).
		Bold(true)
	if selected {
		st = st.Foreground(colorSel).Underline(true)
	}
	return st
}
