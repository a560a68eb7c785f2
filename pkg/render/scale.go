// Package render projects engine snapshots onto pixel (or cell) geometry.
//
// Nothing here writes to the store: a Layout is derived from a State and
// thrown away on the next change. Exporters and the terminal front-end
// share it so that both draw the same ticks and brush positions.
package render

import (
	"fmt"
	"strings"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
)

// Scale is a linear mapping from a value domain onto a pixel extent
type Scale struct {
	Domain model.Range
	Extent model.Extent
}

// NewScale creates a scale
func NewScale(domain model.Range, extent model.Extent) Scale {
	return Scale{Domain: domain, Extent: extent}
}

// Map returns the pixel position of v
func (s Scale) Map(v float64) float64 {
	return model.Project(s.Domain, s.Extent, v)
}

// Invert returns the value under pixel p
func (s Scale) Invert(p float64) float64 {
	return model.Invert(s.Domain, s.Extent, p)
}

// Visible returns true if v maps inside the extent
func (s Scale) Visible(v float64) bool {
	return s.Domain.ContainsValue(v)
}

// MapRange projects r onto the extent, clipped to it
func (s Scale) MapRange(r model.Range) model.Extent {
	lo, hi := s.Map(r.Lo), s.Map(r.Hi)
	e := model.Extent{Start: lo, End: hi}.Sorted()
	if e.Start < s.Extent.Start {
		e.Start = s.Extent.Start
	}
	if e.End > s.Extent.End {
		e.End = s.Extent.End
	}
	return e
}

// AxisKind selects how a detail line labels its ticks
type AxisKind int

const (
	AxisFraction AxisKind = iota
	AxisDecimal
)

// String returns the config spelling of the axis kind
func (k AxisKind) String() string {
	if k == AxisDecimal {
		return "decimal"
	}
	return "fraction"
}

// ParseAxisKind parses "fraction" or "decimal"
func ParseAxisKind(s string) (AxisKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fraction", "fractions":
		return AxisFraction, nil
	case "decimal":
		return AxisDecimal, nil
	}
	return AxisFraction, fmt.Errorf("unknown axis kind %q (want \"fraction\" or \"decimal\")", s)
}
