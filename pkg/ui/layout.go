package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/config"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
)

// Layout breakpoints for responsive design.
const (
	// BreakpointNarrow is the width below which the line captions are
	// shortened and the help bar is hidden.
	BreakpointNarrow = 60

	// MinAxisWidth is the narrowest axis that still gets drawn.
	MinAxisWidth = 10
)

// Terminal geometry, in cells.
const (
	// marginCells is the gap on each side of every axis
	marginCells = 2

	// lineRows is the height of one numberline block: caption, axis,
	// tick marks and labels.
	lineRows = 4

	// headerRows sits above the first numberline block
	headerRows = 2
)

// Row offsets inside a numberline block
const (
	rowCaption = iota
	rowAxis
	rowTicks
	rowLabels
)

// terminalOptions lays lines out in cells instead of pixels
func terminalOptions(cfg config.Config, width int) render.Options {
	opts := cfg.RenderOptions(float64(width))
	opts.Margins = render.Margins{Left: marginCells, Right: marginCells}
	opts.LineHeight = lineRows
	return opts
}

// RenderStatic draws state once, without any interaction, for piping the
// numberlines into a file or another program.
func RenderStatic(cfg config.Config, state model.State, width int, theme Theme) string {
	if width-2*marginCells < MinAxisWidth {
		width = MinAxisWidth + 2*marginCells
	}
	l := render.New(state, terminalOptions(cfg, width))
	blocks := make([]string, 0, 1+len(l.Details))
	for _, g := range l.Lines() {
		blocks = append(blocks, renderBlock(g, width, theme))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
