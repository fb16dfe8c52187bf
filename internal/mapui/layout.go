package mapui

import (
	"image"
	"strings"

	"charm.land/lipgloss/v2"
)

const (
	panelWidth = 36
	// Below this many map columns the side panel is dropped.
	minMapWidth = 24
)

// screen is the fixed split of the terminal: one toolbar row, one footer
// row, the side panel on the right and the map in what is left.
type screen struct {
	W, H    int
	Toolbar image.Rectangle
	Footer  image.Rectangle
	Panel   image.Rectangle
	Map     image.Rectangle
}

func splitScreen(w, h int) screen {
	s := screen{W: w, H: h}
	if w <= 0 || h <= 0 {
		return s
	}
	s.Toolbar = image.Rect(0, 0, w, 1)
	if h > 1 {
		s.Footer = image.Rect(0, h-1, w, h)
	}
	top, bottom := s.Toolbar.Max.Y, h-s.Footer.Dy()
	if bottom <= top {
		return s
	}

	right := w
	if w-panelWidth >= minMapWidth {
		s.Panel = image.Rect(w-panelWidth, top, w, bottom)
		right = w - panelWidth - 1 // separator column
	}
	s.Map = image.Rect(0, top, right, bottom)
	return s
}

// fillLayer paints r with style.
func fillLayer(r image.Rectangle, style lipgloss.Style, id string, z int) *lipgloss.Layer {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return lipgloss.NewLayer("").X(r.Min.X).Y(r.Min.Y).Z(z).ID(id)
	}
	line := strings.Repeat(" ", w)
	lines := make([]string, h)
	for i := range lines {
		lines[i] = line
	}
	return lipgloss.NewLayer(style.Render(strings.Join(lines, "\n"))).
		X(r.Min.X).Y(r.Min.Y).Z(z).ID(id)
}

// barLayer renders one full-width line of text at r.
func barLayer(content string, r image.Rectangle, style lipgloss.Style, id string) *lipgloss.Layer {
	return lipgloss.NewLayer(style.Width(r.Dx()).MaxWidth(r.Dx()).Render(content)).
		X(r.Min.X).Y(r.Min.Y).Z(1).ID(id)
}

// separatorLayer draws a vertical rule at column x.
func separatorLayer(x, y, height int, style lipgloss.Style) *lipgloss.Layer {
	lines := make([]string, max(height, 0))
	for i := range lines {
		lines[i] = "│"
	}
	return lipgloss.NewLayer(style.Render(strings.Join(lines, "\n"))).X(x).Y(y).Z(1).ID("separator")
}

// modalLayer centers content on the terminal above everything else.
func modalLayer(content string, w, h int) *lipgloss.Layer {
	rendered := modalStyle.Render(content)
	x := max((w-lipgloss.Width(rendered))/2, 0)
	y := max((h-lipgloss.Height(rendered))/2, 0)
	return lipgloss.NewLayer(rendered).X(x).Y(y).Z(100).ID("modal")
}
