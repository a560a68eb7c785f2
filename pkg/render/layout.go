package render

import (
	"math"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/engine"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/ticks"
)

// Margins around the drawing area, in output units
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins matches the snapshot exporters: 40 left and right, 20 top
// and bottom.
func DefaultMargins() Margins {
	return Margins{Top: 20, Right: 40, Bottom: 20, Left: 40}
}

// Defaults for pixel output
const (
	DefaultWidth      = 960
	DefaultLineHeight = 100
)

// Options control how a State is laid out
type Options struct {
	Width      float64
	LineHeight float64
	Margins    Margins
	// Padding widens the detail source into the displayed detail domain
	Padding float64
	// DetailLines lists one axis kind per detail line, top to bottom
	DetailLines []AxisKind
	Ticks       ticks.Options
}

// DefaultOptions returns pixel options with one fractional and one decimal
// detail line.
func DefaultOptions() Options {
	return Options{
		Width:       DefaultWidth,
		LineHeight:  DefaultLineHeight,
		Margins:     DefaultMargins(),
		Padding:     engine.DefaultPadding,
		DetailLines: []AxisKind{AxisFraction, AxisDecimal},
		Ticks:       ticks.DefaultOptions(),
	}
}

// TickMark is a tick positioned on a line
type TickMark struct {
	Value float64
	Pos   float64
	Label string
}

// LineGeometry describes one rendered numberline
type LineGeometry struct {
	Line   engine.Line
	Kind   AxisKind
	Scale  Scale
	Y      float64 // baseline, in output units
	Height float64

	Ticks       []TickMark
	Strategy    ticks.Strategy
	Denominator int

	// Brush is the projected selection; only set on the overview line
	Brush *model.Extent
}

// Domain returns the value range shown by the line
func (g LineGeometry) Domain() model.Range {
	return g.Scale.Domain
}

// ValueAt returns the value under output position x
func (g LineGeometry) ValueAt(x float64) float64 {
	return g.Scale.Invert(x)
}

// Layout is the complete geometry for one snapshot
type Layout struct {
	Width   float64
	Height  float64
	Margins Margins
	State   model.State

	Overview LineGeometry
	Details  []LineGeometry
}

// InnerWidth returns the drawable width between the side margins
func (l Layout) InnerWidth() float64 {
	return l.Overview.Scale.Extent.Width()
}

// Lines returns the overview followed by every detail line
func (l Layout) Lines() []LineGeometry {
	out := make([]LineGeometry, 0, 1+len(l.Details))
	out = append(out, l.Overview)
	return append(out, l.Details...)
}

// New lays out state. It reads the snapshot only.
func New(state model.State, opts Options) Layout {
	if opts.LineHeight <= 0 {
		opts.LineHeight = DefaultLineHeight
	}
	if len(opts.DetailLines) == 0 {
		opts.DetailLines = []AxisKind{AxisDecimal}
	}

	inner := opts.Width - opts.Margins.Left - opts.Margins.Right
	if inner < 0 {
		inner = 0
	}
	extent := model.Extent{Start: opts.Margins.Left, End: opts.Margins.Left + inner}
	solver := ticks.NewSolver(opts.Ticks)
	maxTicks := solver.Options().Max

	l := Layout{
		Width:   opts.Width,
		Height:  opts.Margins.Top + opts.LineHeight*float64(1+len(opts.DetailLines)) + opts.Margins.Bottom,
		Margins: opts.Margins,
		State:   state.Clone(),
	}

	y := opts.Margins.Top + opts.LineHeight/2
	ov := LineGeometry{
		Line:     engine.LineOverview,
		Kind:     AxisDecimal,
		Scale:    NewScale(state.Overview, extent),
		Y:        y,
		Height:   opts.LineHeight,
		Strategy: ticks.StrategyDecimal,
	}
	ov.Ticks = place(ov.Scale, ticks.DecimalTicks(state.Overview, maxTicks))
	brush := ov.Scale.MapRange(state.Selection)
	ov.Brush = &brush
	l.Overview = ov

	displayed := state.DetailDisplay(opts.Padding)
	for i, kind := range opts.DetailLines {
		g := LineGeometry{
			Line:   engine.LineDetail,
			Kind:   kind,
			Scale:  NewScale(displayed, extent),
			Y:      y + opts.LineHeight*float64(i+1),
			Height: opts.LineHeight,
		}
		if kind == AxisFraction {
			res := solver.Solve(displayed)
			g.Strategy, g.Denominator = res.Strategy, res.Denominator
			g.Ticks = place(g.Scale, res.Ticks)
		} else {
			g.Strategy = ticks.StrategyDecimal
			g.Ticks = place(g.Scale, ticks.DecimalTicks(displayed, maxTicks))
		}
		l.Details = append(l.Details, g)
	}
	return l
}

// edgeSlack absorbs rounding for ticks sitting exactly on a domain edge
const edgeSlack = 1e-6

// place positions ticks on s, dropping any that fall outside the extent
func place(s Scale, ts []ticks.Tick) []TickMark {
	if s.Extent.Width() <= 0 {
		return nil
	}
	out := make([]TickMark, 0, len(ts))
	for _, t := range ts {
		p := s.Map(t.Value)
		if !model.IsFinite(p) || p < s.Extent.Start-edgeSlack || p > s.Extent.End+edgeSlack {
			continue
		}
		p = math.Max(s.Extent.Start, math.Min(s.Extent.End, p))
		out = append(out, TickMark{Value: t.Value, Pos: p, Label: t.Label})
	}
	return out
}
