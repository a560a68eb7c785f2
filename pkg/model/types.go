package model

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrDegenerateRange is returned when a computed Range collapses (lo >= hi)
// or contains non-finite bounds.
var ErrDegenerateRange = errors.New("degenerate range")

// Range is an ordered (lo, hi) pair in value space
type Range struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// NewRange builds a Range from two bounds in the given order
func NewRange(lo, hi float64) Range {
	return Range{Lo: lo, Hi: hi}
}

// Span returns hi - lo
func (r Range) Span() float64 {
	return r.Hi - r.Lo
}

// Mid returns the midpoint of the range
func (r Range) Mid() float64 {
	return r.Lo + r.Span()/2
}

// IsValid returns true if both bounds are finite and lo < hi
func (r Range) IsValid() bool {
	return IsFinite(r.Lo) && IsFinite(r.Hi) && r.Lo < r.Hi
}

// Validate returns ErrDegenerateRange wrapped with the offending bounds
func (r Range) Validate() error {
	if !r.IsValid() {
		return fmt.Errorf("%w: %s", ErrDegenerateRange, r)
	}
	return nil
}

// Contains reports whether o lies entirely inside r
func (r Range) Contains(o Range) bool {
	return r.Lo <= o.Lo && o.Hi <= r.Hi
}

// ContainsValue reports whether v lies inside r (inclusive)
func (r Range) ContainsValue(v float64) bool {
	return r.Lo <= v && v <= r.Hi
}

// String renders the range as "[lo, hi]"
func (r Range) String() string {
	return "[" + strconv.FormatFloat(r.Lo, 'g', -1, 64) + ", " + strconv.FormatFloat(r.Hi, 'g', -1, 64) + "]"
}

// Extent is a pixel interval of a rendered line
type Extent struct {
	Start float64
	End   float64
}

// Width returns the pixel width of the extent
func (e Extent) Width() float64 {
	return e.End - e.Start
}

// Sorted returns the extent with Start <= End
func (e Extent) Sorted() Extent {
	if e.Start > e.End {
		return Extent{Start: e.End, End: e.Start}
	}
	return e
}

// IsFinite returns true if both ends are finite numbers
func (e Extent) IsFinite() bool {
	return IsFinite(e.Start) && IsFinite(e.End)
}

// Includes reports whether pixel p lies inside the extent (inclusive)
func (e Extent) Includes(p float64) bool {
	s := e.Sorted()
	return s.Start <= p && p <= s.End
}

// State is the synchronized coordinate state of the linked numberlines.
// Detail is nil when the detail lines follow the Selection.
type State struct {
	Overview  Range  `json:"overview_domain"`
	Selection Range  `json:"selection"`
	Detail    *Range `json:"detail_domain"`
}

// Clone creates a deep copy of the state
func (s State) Clone() State {
	clone := s
	if s.Detail != nil {
		v := *s.Detail
		clone.Detail = &v
	}
	return clone
}

// HasDetail returns true if an independent detail zoom is active
func (s State) HasDetail() bool {
	return s.Detail != nil
}

// DetailSource returns the range the detail lines display before padding
func (s State) DetailSource() Range {
	if s.Detail != nil {
		return *s.Detail
	}
	return s.Selection
}

// DetailDisplay returns the padded range shown on the detail lines
func (s State) DetailDisplay(padding float64) Range {
	return Pad(s.DetailSource(), padding)
}

// Equal compares two states exactly
func (s State) Equal(o State) bool {
	if s.Overview != o.Overview || s.Selection != o.Selection {
		return false
	}
	if (s.Detail == nil) != (o.Detail == nil) {
		return false
	}
	return s.Detail == nil || *s.Detail == *o.Detail
}

// Validate checks if the state satisfies the containment invariants
func (s *State) Validate() error {
	if err := s.Overview.Validate(); err != nil {
		return fmt.Errorf("overview: %w", err)
	}
	if err := s.Selection.Validate(); err != nil {
		return fmt.Errorf("selection: %w", err)
	}
	if !s.Overview.Contains(s.Selection) {
		return fmt.Errorf("selection %s outside overview %s", s.Selection, s.Overview)
	}
	if s.Detail != nil {
		if err := s.Detail.Validate(); err != nil {
			return fmt.Errorf("detail: %w", err)
		}
		if !s.Overview.Contains(*s.Detail) {
			return fmt.Errorf("detail %s outside overview %s", *s.Detail, s.Overview)
		}
	}
	return nil
}

func (s State) String() string {
	detail := "null"
	if s.Detail != nil {
		detail = s.Detail.String()
	}
	return fmt.Sprintf("overview=%s selection=%s detail=%s", s.Overview, s.Selection, detail)
}

// Origin distinguishes genuine user input from programmatic replay
type Origin int

const (
	OriginUser Origin = iota
	OriginProgrammatic
)

// String returns display name for the origin
func (o Origin) String() string {
	switch o {
	case OriginUser:
		return "user"
	case OriginProgrammatic:
		return "programmatic"
	default:
		return "unknown"
	}
}

// IsUser returns true if the origin is a real input event
func (o Origin) IsUser() bool {
	return o == OriginUser
}
