package mapcanvas

import (
	"math"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"

	"github.com/wesen/clustermap/pkg/geo"
)

const (
	keyBG StyleKey = iota
	keyRed
	keyBlue
)

func testStyles() map[StyleKey]lipgloss.Style {
	return map[StyleKey]lipgloss.Style{
		keyBG:   lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		keyRed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		keyBlue: lipgloss.NewStyle().Foreground(lipgloss.Color("#0000ff")),
	}
}

// ── Canvas ──

func TestNewCanvas(t *testing.T) {
	c := New(6, 3, keyBG)
	if c.W != 6 || c.H != 3 || len(c.Cells) != 3 || len(c.Cells[0]) != 6 {
		t.Fatalf("expected 6x3, got %dx%d", c.W, c.H)
	}
	if cell, _ := c.At(5, 2); cell.Ch != ' ' || cell.Style != keyBG {
		t.Errorf("blank cell: expected space/bg, got %q/%d", cell.Ch, cell.Style)
	}
	if neg := New(-1, -4, keyBG); neg.W != 0 || neg.H != 0 {
		t.Errorf("negative size: expected 0x0, got %dx%d", neg.W, neg.H)
	}
}

func TestSetAndBounds(t *testing.T) {
	c := New(4, 2, keyBG)
	c.Set(1, 1, 'x', keyRed)
	c.Set(10, 10, 'y', keyRed)
	c.Set(-1, 0, 'z', keyRed)

	if got := c.Plain(); got != "    \n x  " {
		t.Errorf("Plain: got %q", got)
	}
	if _, ok := c.At(4, 0); ok {
		t.Error("At(4,0): expected out of bounds")
	}
}

func TestSetIfBlank(t *testing.T) {
	c := New(3, 1, keyBG)
	c.Set(0, 0, 'A', keyRed)
	c.SetIfBlank(0, 0, '.', keyBlue)
	c.SetIfBlank(1, 0, '.', keyBlue)
	if got := c.Plain(); got != "A. " {
		t.Errorf("SetIfBlank: expected \"A. \", got %q", got)
	}
}

func TestCenteredText(t *testing.T) {
	c := New(9, 1, keyBG)
	start := c.CenteredText(4, 0, "abc", keyRed)
	if start != 3 {
		t.Errorf("start: expected 3, got %d", start)
	}
	if got := c.Plain(); got != "   abc   " {
		t.Errorf("CenteredText: got %q", got)
	}
}

func TestClear(t *testing.T) {
	c := New(3, 2, keyBG)
	c.Text(0, 0, "abc", keyRed)
	c.Clear()
	if got := c.Plain(); got != "   \n   " {
		t.Errorf("Clear: got %q", got)
	}
}

// ── Render ──

func TestRenderEmpty(t *testing.T) {
	if got := New(0, 0, keyBG).Render(testStyles()); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}

func TestRenderRowsAndText(t *testing.T) {
	c := New(5, 2, keyBG)
	c.Text(0, 0, "ab", keyRed)
	c.Text(2, 0, "cd", keyBlue)
	c.Text(0, 1, "hello", keyRed)

	out := c.Render(testStyles())
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, want := range []string{"abcd ", "hello"} {
		if got := stripANSI(lines[i]); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
		if w := lipgloss.Width(lines[i]); w != 5 {
			t.Errorf("line %d: expected width 5, got %d", i, w)
		}
	}
}

func TestRenderUnknownStyleIsPlain(t *testing.T) {
	c := New(3, 1, StyleKey(99))
	c.Text(0, 0, "xyz", StyleKey(99))
	if got := c.Render(testStyles()); got != "xyz" {
		t.Errorf("unknown style: expected raw text, got %q", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ── Viewport ──

func TestViewportCenter(t *testing.T) {
	center := geo.NewLatLng(1.35, 103.87)
	v := NewViewport(geo.CameraFromLatLngZoom(center, 10), 80, 24)

	p, ok := v.Cell(center)
	if !ok || p.X != 40 || p.Y != 12 {
		t.Errorf("center cell: expected (40,12), got %v (%v)", p, ok)
	}
	back := v.ToLatLng(40, 12)
	// The cell center is half a cell away from the exact target.
	if math.Abs(back.Latitude-center.Latitude) > 0.02 || math.Abs(back.Longitude-center.Longitude) > 0.02 {
		t.Errorf("ToLatLng(center cell): expected near %v, got %v", center, back)
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := NewViewport(geo.CameraFromLatLngZoom(geo.NewLatLng(48.85, 2.35), 6), 100, 40)
	for _, cell := range [][2]int{{0, 0}, {10, 5}, {99, 39}, {50, 20}} {
		ll := v.ToLatLng(cell[0], cell[1])
		p, ok := v.Cell(ll)
		if !ok || p.X != cell[0] || p.Y != cell[1] {
			t.Errorf("round trip %v: got %v (%v)", cell, p, ok)
		}
	}
}

func TestViewportOffscreen(t *testing.T) {
	v := NewViewport(geo.CameraFromLatLngZoom(geo.NewLatLng(0, 0), 10), 80, 24)
	if _, ok := v.Cell(geo.NewLatLng(40, 40)); ok {
		t.Error("far point should be off screen at zoom 10")
	}
	vis := v.Visible()
	if !vis.Contains(geo.NewLatLng(0, 0)) || vis.Contains(geo.NewLatLng(40, 40)) {
		t.Errorf("Visible: unexpected bounds %+v", vis)
	}
}

func TestViewportPanAndZoom(t *testing.T) {
	start := geo.NewLatLng(0, 0)
	v := NewViewport(geo.CameraFromLatLngZoom(start, 4), 80, 24)

	moved := v.Pan(10, 0)
	if moved.Camera.Target.Longitude <= 0 {
		t.Errorf("pan right: expected positive longitude, got %v", moved.Camera.Target)
	}
	if x, _ := moved.ToCell(start); math.Abs(x-30) > 1e-6 {
		t.Errorf("pan right: old center should be 10 cells left, got x=%v", x)
	}
	if z := v.Zoom(1.5).Camera.Zoom; z != 5.5 {
		t.Errorf("Zoom: expected 5.5, got %v", z)
	}
}
