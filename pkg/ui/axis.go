package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/engine"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
)

// axisCells is the unstyled content of one numberline block
type axisCells struct {
	axis    []rune
	brushed []bool
	ticks   []rune
	labels  []rune
}

// col converts a layout position (cells, margin included) to a column
func col(pos float64, width int) int {
	c := int(math.Round(pos))
	if c < 0 {
		return 0
	}
	if c > width-1 {
		return width - 1
	}
	return c
}

// layoutAxis rasterizes g into rows of width cells
func layoutAxis(g render.LineGeometry, width int) axisCells {
	a := axisCells{
		axis:    blank(width),
		brushed: make([]bool, width),
		ticks:   blank(width),
		labels:  blank(width),
	}
	if width <= 0 || g.Scale.Extent.Width() <= 0 {
		return a
	}

	x0, x1 := col(g.Scale.Extent.Start, width), col(g.Scale.Extent.End, width)
	for c := x0; c <= x1; c++ {
		a.axis[c] = '─'
	}
	a.axis[x0], a.axis[x1] = '├', '┤'

	if g.Brush != nil && g.Brush.Width() > 0 {
		b := g.Brush.Sorted()
		b0, b1 := col(b.Start, width), col(b.End, width)
		for c := b0; c <= b1; c++ {
			a.axis[c] = '━'
			a.brushed[c] = true
		}
		a.ticks[b0], a.ticks[b1] = '▲', '▲'
	}

	// Labels are centred under their tick and skipped when they would
	// collide with the previous one.
	nextFree := 0
	for _, t := range g.Ticks {
		c := col(t.Pos, width)
		if !a.brushed[c] {
			a.axis[c] = '┼'
		} else {
			a.axis[c] = '╋'
		}
		if a.ticks[c] == ' ' {
			a.ticks[c] = '╵'
		}

		w := runewidth.StringWidth(t.Label)
		start := c - w/2
		if start < 0 {
			start = 0
		}
		if start+w > width {
			start = width - w
		}
		if start < nextFree || start < 0 {
			continue
		}
		writeAt(a.labels, start, t.Label)
		nextFree = start + w + 1
	}
	return a
}

func blank(n int) []rune {
	if n < 0 {
		n = 0
	}
	r := make([]rune, n)
	for i := range r {
		r[i] = ' '
	}
	return r
}

// writeAt copies s into row starting at column start. Wide runes occupy
// two cells; the second is dropped from the row.
func writeAt(row []rune, start int, s string) {
	c := start
	for _, r := range s {
		if c >= len(row) {
			return
		}
		row[c] = r
		w := runewidth.RuneWidth(r)
		for i := 1; i < w && c+i < len(row); i++ {
			row[c+i] = 0
		}
		c += w
	}
}

// rowString drops the placeholder cells left by wide runes
func rowString(row []rune) string {
	var b strings.Builder
	for _, r := range row {
		if r != 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// renderAxis draws the axis, tick and label rows of g
func renderAxis(g render.LineGeometry, width int, th Theme) []string {
	a := layoutAxis(g, width)

	axisStyle, brushStyle := th.axisStyle(), th.brushStyle()
	var axis strings.Builder
	start := 0
	for i := 1; i <= len(a.axis); i++ {
		if i < len(a.axis) && a.brushed[i] == a.brushed[start] {
			continue
		}
		seg := string(a.axis[start:i])
		if a.brushed[start] {
			axis.WriteString(brushStyle.Render(seg))
		} else {
			axis.WriteString(axisStyle.Render(seg))
		}
		start = i
	}

	return []string{
		axis.String(),
		th.mutedStyle().Render(rowString(a.ticks)),
		th.labelStyle().Render(rowString(a.labels)),
	}
}

// caption is the one-line title above a numberline
func caption(g render.LineGeometry, narrow bool) string {
	name := g.Line.String()
	if g.Line == engine.LineDetail && !narrow {
		name += " " + g.Kind.String()
	}
	text := name + "  " + formatRange(g.Domain())
	if !narrow && g.Denominator > 0 {
		text += "  1/" + strconv.Itoa(g.Denominator)
	}
	return text
}

// renderBlock renders one full numberline block (caption plus axis rows)
func renderBlock(g render.LineGeometry, width int, th Theme) string {
	narrow := width < BreakpointNarrow
	rows := []string{th.titleStyle().Render(caption(g, narrow))}
	rows = append(rows, renderAxis(g, width, th)...)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// formatRange renders r compactly for captions and the status line
func formatRange(r model.Range) string {
	return "[" + shortNumber(r.Lo) + ", " + shortNumber(r.Hi) + "]"
}

// shortNumber prints v with at most 6 significant digits, never "-0"
func shortNumber(v float64) string {
	s := strconv.FormatFloat(v, 'g', 6, 64)
	if s == "-0" {
		return "0"
	}
	return s
}
