package engine

import (
	"fmt"
	"math"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
)

// Line identifies which numberline a gesture targets
type Line int

const (
	LineOverview Line = iota
	LineDetail
)

// String returns display name for the line
func (l Line) String() string {
	if l == LineDetail {
		return "detail"
	}
	return "overview"
}

// BrushMode selects when a brush drag writes the selection
type BrushMode int

const (
	BrushOnEnd      BrushMode = iota // Write once, when the drag ends
	BrushContinuous                  // Write on every drag move as well
)

// String returns the config spelling of the mode
func (m BrushMode) String() string {
	if m == BrushContinuous {
		return "continuous"
	}
	return "end"
}

// ParseBrushMode parses "end" or "continuous"
func ParseBrushMode(s string) (BrushMode, error) {
	switch s {
	case "", "end":
		return BrushOnEnd, nil
	case "continuous":
		return BrushContinuous, nil
	}
	return BrushOnEnd, fmt.Errorf("unknown brush mode %q (want \"end\" or \"continuous\")", s)
}

// Settings tune the gesture interpreters
type Settings struct {
	// Padding is applied symmetrically to the detail source before display
	Padding float64
	// Sensitivity scales wheel deltas: factor = exp(delta * Sensitivity)
	Sensitivity float64
	BrushMode   BrushMode
}

// Default gesture settings
const (
	DefaultPadding     = 0.03
	DefaultSensitivity = 0.0005
)

// DefaultSettings returns the default gesture settings
func DefaultSettings() Settings {
	return Settings{
		Padding:     DefaultPadding,
		Sensitivity: DefaultSensitivity,
		BrushMode:   BrushOnEnd,
	}
}

// Event is an input event addressed to the Interpreter
type Event interface {
	EventOrigin() model.Origin
}

// Wheel zooms a line about the value under Pos (pixels)
type Wheel struct {
	Line   Line
	Pos    float64
	Delta  float64
	Origin model.Origin
}

// Pan drags a line's content by Delta pixels
type Pan struct {
	Line   Line
	Delta  float64
	Origin model.Origin
}

// BrushPhase is the lifecycle stage of a brush drag
type BrushPhase int

const (
	BrushStart BrushPhase = iota
	BrushMove
	BrushEnd
	BrushCancel
)

// Brush reports a selection drag on the overview line. A nil Extent on
// BrushEnd means the selection was cleared.
type Brush struct {
	Phase  BrushPhase
	Extent *model.Extent
	Origin model.Origin
}

// Select sets the selection directly in value space
type Select struct {
	Range  model.Range
	Origin model.Origin
}

// ResetRequest restores the initial configuration
type ResetRequest struct {
	Origin model.Origin
}

func (e Wheel) EventOrigin() model.Origin        { return e.Origin }
func (e Pan) EventOrigin() model.Origin          { return e.Origin }
func (e Brush) EventOrigin() model.Origin        { return e.Origin }
func (e Select) EventOrigin() model.Origin       { return e.Origin }
func (e ResetRequest) EventOrigin() model.Origin { return e.Origin }

// brushDrag remembers the state at drag start for cancellation
type brushDrag struct {
	selection model.Range
	detail    *model.Range
}

// Interpreter translates input events into store mutations
type Interpreter struct {
	store    *Store
	settings Settings

	overview model.Extent
	detail   model.Extent

	drag *brushDrag
}

// NewInterpreter creates an interpreter writing to store
func NewInterpreter(store *Store, settings Settings) *Interpreter {
	return &Interpreter{store: store, settings: settings}
}

// Settings returns the active gesture settings
func (in *Interpreter) Settings() Settings {
	return in.settings
}

// SetSettings replaces the gesture settings (config reload)
func (in *Interpreter) SetSettings(s Settings) {
	in.settings = s
}

// Resize updates the pixel widths of the lines. It only affects pixel to
// value conversion and never mutates the state.
func (in *Interpreter) Resize(overviewWidth, detailWidth float64) {
	in.overview = model.Extent{Start: 0, End: math.Max(0, overviewWidth)}
	in.detail = model.Extent{Start: 0, End: math.Max(0, detailWidth)}
}

// Extents returns the current pixel extents of the overview and detail lines
func (in *Interpreter) Extents() (overview, detail model.Extent) {
	return in.overview, in.detail
}

// Dragging returns true while a brush drag is in progress
func (in *Interpreter) Dragging() bool {
	return in.drag != nil
}

// Handle routes ev to its interpreter. It returns false when the event was
// ignored (programmatic echo) or dropped (invalid input).
func (in *Interpreter) Handle(ev Event) bool {
	if r, ok := ev.(ResetRequest); ok {
		in.drag = nil
		in.store.Reset(r.Origin)
		return true
	}
	if !ev.EventOrigin().IsUser() {
		return false
	}

	switch e := ev.(type) {
	case Wheel:
		if e.Line == LineDetail {
			return in.zoomDetail(e)
		}
		return in.zoomOverview(e)
	case Pan:
		if e.Line == LineDetail {
			return in.panDetail(e)
		}
		return in.panOverview(e)
	case Brush:
		return in.brush(e)
	case Select:
		return in.selectRange(e)
	}
	return false
}

func (in *Interpreter) zoomOverview(e Wheel) bool {
	ext := in.overview
	factor := model.ZoomFactor(e.Delta, in.settings.Sensitivity)
	return in.store.Mutate(e.Origin, func(s *model.State) error {
		if err := checkPointer(ext, e.Pos, factor); err != nil {
			return err
		}
		pivot := model.Invert(s.Overview, ext, e.Pos)
		s.Overview = model.ZoomAbout(s.Overview, pivot, factor)
		return nil
	})
}

func (in *Interpreter) zoomDetail(e Wheel) bool {
	ext := in.detail
	pad := in.settings.Padding
	factor := model.ZoomFactor(e.Delta, in.settings.Sensitivity)
	return in.store.Mutate(e.Origin, func(s *model.State) error {
		if err := checkPointer(ext, e.Pos, factor); err != nil {
			return err
		}
		displayed := s.DetailDisplay(pad)
		pivot := model.Invert(displayed, ext, e.Pos)
		d := model.Unpad(model.ZoomAbout(displayed, pivot, factor), pad)
		s.Detail = &d
		return nil
	})
}

func (in *Interpreter) panOverview(e Pan) bool {
	ext := in.overview
	return in.store.Mutate(e.Origin, func(s *model.State) error {
		if err := checkDelta(ext, e.Delta); err != nil {
			return err
		}
		shift := -e.Delta / ext.Width() * s.Overview.Span()
		// Stop at the selection instead of letting enforcement widen the
		// overview.
		shift = clampFloat(shift, s.Selection.Hi-s.Overview.Hi, s.Selection.Lo-s.Overview.Lo)
		s.Overview = model.Shift(s.Overview, shift)
		return nil
	})
}

func (in *Interpreter) panDetail(e Pan) bool {
	ext := in.detail
	pad := in.settings.Padding
	return in.store.Mutate(e.Origin, func(s *model.State) error {
		if err := checkDelta(ext, e.Delta); err != nil {
			return err
		}
		src := s.DetailSource()
		displayed := model.Pad(src, pad)
		shift := -e.Delta / ext.Width() * displayed.Span()
		// Stop at the overview edges instead of letting the clamp shrink
		// the detail range.
		shift = clampFloat(shift, s.Overview.Lo-src.Lo, s.Overview.Hi-src.Hi)
		d := model.Unpad(model.Shift(displayed, shift), pad)
		s.Detail = &d
		return nil
	})
}

func (in *Interpreter) brush(e Brush) bool {
	switch e.Phase {
	case BrushStart:
		in.beginDrag()
		return true

	case BrushMove:
		if in.drag == nil {
			in.beginDrag()
		}
		if in.settings.BrushMode != BrushContinuous || e.Extent == nil {
			return true
		}
		return in.applyBrush(e.Origin, *e.Extent)

	case BrushEnd:
		defer func() { in.drag = nil }()
		if e.Extent == nil {
			return in.restoreDrag(e.Origin)
		}
		return in.applyBrush(e.Origin, *e.Extent)

	case BrushCancel:
		defer func() { in.drag = nil }()
		return in.restoreDrag(e.Origin)
	}
	return false
}

func (in *Interpreter) beginDrag() {
	snap := in.store.Snapshot()
	in.drag = &brushDrag{selection: snap.Selection, detail: snap.Detail}
}

// applyBrush converts a pixel selection to values, clamps it to the
// overview and writes it. A fresh selection always discards the detail
// zoom. A collapsed selection restores the state from drag start.
func (in *Interpreter) applyBrush(origin model.Origin, px model.Extent) bool {
	ext := in.overview
	px = px.Sorted()
	drag := in.drag
	return in.store.Mutate(origin, func(s *model.State) error {
		if !px.IsFinite() || ext.Width() <= 0 {
			return fmt.Errorf("%w: brush %v on extent %v", ErrInvalidGesture, px, ext)
		}
		r := model.Range{
			Lo: model.Invert(s.Overview, ext, px.Start),
			Hi: model.Invert(s.Overview, ext, px.End),
		}
		c, err := model.Clamp(r, s.Overview)
		if err != nil {
			restore(s, drag)
			return nil
		}
		s.Selection = c
		s.Detail = nil
		return nil
	})
}

func (in *Interpreter) restoreDrag(origin model.Origin) bool {
	drag := in.drag
	return in.store.Mutate(origin, func(s *model.State) error {
		restore(s, drag)
		return nil
	})
}

func restore(s *model.State, drag *brushDrag) {
	if drag == nil {
		return
	}
	s.Selection = drag.selection
	s.Detail = nil
	if drag.detail != nil {
		d := *drag.detail
		s.Detail = &d
	}
}

func (in *Interpreter) selectRange(e Select) bool {
	return in.store.Mutate(e.Origin, func(s *model.State) error {
		if !e.Range.IsValid() {
			return fmt.Errorf("%w: selection %s", ErrInvalidGesture, e.Range)
		}
		c, err := model.Clamp(e.Range, s.Overview)
		if err != nil {
			return fmt.Errorf("%w: selection %s outside overview %s", ErrInvalidGesture, e.Range, s.Overview)
		}
		s.Selection = c
		s.Detail = nil
		return nil
	})
}

// checkPointer validates a wheel gesture's pivot and zoom factor
func checkPointer(ext model.Extent, pos, factor float64) error {
	if ext.Width() <= 0 {
		return fmt.Errorf("%w: line has no width", ErrInvalidGesture)
	}
	if !model.IsFinite(pos) || !ext.Includes(pos) {
		return fmt.Errorf("%w: pointer %v outside %v", ErrInvalidGesture, pos, ext)
	}
	if !model.IsFinite(factor) || factor <= 0 {
		return fmt.Errorf("%w: zoom factor %v", ErrInvalidGesture, factor)
	}
	return nil
}

// checkDelta validates a pan gesture's pixel delta
func checkDelta(ext model.Extent, delta float64) error {
	if ext.Width() <= 0 {
		return fmt.Errorf("%w: line has no width", ErrInvalidGesture)
	}
	if !model.IsFinite(delta) {
		return fmt.Errorf("%w: pan delta %v", ErrInvalidGesture, delta)
	}
	return nil
}

func clampFloat(v, lo, hi float64) float64 {
	if lo > hi {
		return v
	}
	return math.Max(lo, math.Min(hi, v))
}
