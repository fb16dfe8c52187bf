package mapcanvas

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Render turns the canvas into a styled string, one line per row.
//
// Adjacent cells sharing a style are rendered as one run, so the number
// of Style.Render calls scales with style changes, not with cells. Keys
// missing from styles render unstyled.
func (c *Canvas) Render(styles map[StyleKey]lipgloss.Style) string {
	if c.W == 0 || c.H == 0 {
		return ""
	}

	var out strings.Builder
	run := make([]rune, 0, c.W)
	for y, row := range c.Cells {
		if y > 0 {
			out.WriteByte('\n')
		}
		run = run[:0]
		style := row[0].Style
		for _, cell := range row {
			if cell.Style != style {
				flush(&out, run, style, styles)
				run = run[:0]
				style = cell.Style
			}
			run = append(run, cell.Ch)
		}
		flush(&out, run, style, styles)
	}
	return out.String()
}

func flush(out *strings.Builder, run []rune, key StyleKey, styles map[StyleKey]lipgloss.Style) {
	if len(run) == 0 {
		return
	}
	if s, ok := styles[key]; ok {
		out.WriteString(s.Render(string(run)))
		return
	}
	out.WriteString(string(run))
}

// Plain renders without styles, for tests and logs.
func (c *Canvas) Plain() string {
	lines := make([]string, c.H)
	for y, row := range c.Cells {
		rs := make([]rune, len(row))
		for x, cell := range row {
			rs[x] = cell.Ch
		}
		lines[y] = string(rs)
	}
	return strings.Join(lines, "\n")
}
