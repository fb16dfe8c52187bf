// Package mapcanvas is a character grid for drawing a map in a terminal.
// A Viewport maps geographic coordinates onto grid cells; a Canvas holds
// styled runes and renders them through lipgloss.
//
// Style keys are opaque ints; the caller supplies the key→style table at
// render time, so the canvas carries no colour scheme of its own.
//
// All runes are assumed to be one cell wide.
package mapcanvas

// StyleKey identifies a visual style.
type StyleKey int

// Cell is one rune with a style.
type Cell struct {
	Ch    rune
	Style StyleKey
}

// Canvas is a W×H grid of cells, row-major.
type Canvas struct {
	W, H  int
	Cells [][]Cell
	bg    StyleKey
}

// New returns a blank canvas. Negative sizes are treated as zero.
func New(w, h int, bg StyleKey) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{W: w, H: h, Cells: make([][]Cell, h), bg: bg}
	for y := range c.Cells {
		c.Cells[y] = make([]Cell, w)
	}
	c.Clear()
	return c
}

// Clear blanks every cell to the background style.
func (c *Canvas) Clear() {
	for y := range c.Cells {
		row := c.Cells[y]
		for x := range row {
			row[x] = Cell{Ch: ' ', Style: c.bg}
		}
	}
}

// In reports whether (x, y) is on the canvas.
func (c *Canvas) In(x, y int) bool {
	return x >= 0 && x < c.W && y >= 0 && y < c.H
}

// Set writes one rune. Writes off the canvas are dropped.
func (c *Canvas) Set(x, y int, ch rune, style StyleKey) {
	if c.In(x, y) {
		c.Cells[y][x] = Cell{Ch: ch, Style: style}
	}
}

// SetIfBlank writes a rune only over background cells, so low-priority
// decoration never hides what is already drawn.
func (c *Canvas) SetIfBlank(x, y int, ch rune, style StyleKey) {
	if c.In(x, y) && c.Cells[y][x].Ch == ' ' && c.Cells[y][x].Style == c.bg {
		c.Cells[y][x] = Cell{Ch: ch, Style: style}
	}
}

// At returns the cell at (x, y) and whether it exists.
func (c *Canvas) At(x, y int) (Cell, bool) {
	if !c.In(x, y) {
		return Cell{}, false
	}
	return c.Cells[y][x], true
}

// Text writes s left to right from (x, y).
func (c *Canvas) Text(x, y int, s string, style StyleKey) {
	i := 0
	for _, ch := range s {
		c.Set(x+i, y, ch, style)
		i++
	}
}

// CenteredText writes s so that its middle rune lands on (x, y). Returns
// the column of the first rune.
func (c *Canvas) CenteredText(x, y int, s string, style StyleKey) int {
	n := len([]rune(s))
	start := x - n/2
	c.Text(start, y, s, style)
	return start
}
