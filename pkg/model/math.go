package model

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// DefaultTolerance is the absolute tolerance used when comparing ranges.
const DefaultTolerance = 1e-9

// Invert maps a pixel position on px back to a value in r.
// A zero-width extent yields NaN; callers treat that as invalid input.
func Invert(r Range, px Extent, p float64) float64 {
	w := px.Width()
	if w == 0 {
		return math.NaN()
	}
	return r.Lo + (p-px.Start)/w*r.Span()
}

// Project maps a value in r to a pixel position on px
func Project(r Range, px Extent, v float64) float64 {
	span := r.Span()
	if span == 0 {
		return math.NaN()
	}
	return px.Start + (v-r.Lo)/span*px.Width()
}

// ZoomFactor converts a wheel delta into a multiplicative zoom factor.
//
// Positive deltas (wheel down) give a factor above 1 and zoom out; negative
// deltas (wheel up) zoom in. Every zoom gesture uses this convention.
func ZoomFactor(delta, sensitivity float64) float64 {
	return math.Exp(delta * sensitivity)
}

// ZoomAbout scales r about pivot so that pivot keeps its position
func ZoomAbout(r Range, pivot, factor float64) Range {
	return Range{
		Lo: pivot + (r.Lo-pivot)*factor,
		Hi: pivot + (r.Hi-pivot)*factor,
	}
}

// Shift translates r by delta
func Shift(r Range, delta float64) Range {
	return Range{Lo: r.Lo + delta, Hi: r.Hi + delta}
}

// Pad widens r symmetrically by span*f on each side
func Pad(r Range, f float64) Range {
	d := r.Span() * f
	return Range{Lo: r.Lo - d, Hi: r.Hi + d}
}

// Unpad is the algebraic inverse of Pad: Unpad(Pad(r, f), f) == r
func Unpad(r Range, f float64) Range {
	d := r.Span() / (1 + 2*f) * f
	return Range{Lo: r.Lo + d, Hi: r.Hi - d}
}

// Union returns the smallest range containing both a and b
func Union(a, b Range) Range {
	return Range{Lo: math.Min(a.Lo, b.Lo), Hi: math.Max(a.Hi, b.Hi)}
}

// Clamp intersects r with bounds. It never returns an invalid Range: when
// the intersection collapses it returns ErrDegenerateRange and the caller
// picks the fallback.
func Clamp(r, bounds Range) (Range, error) {
	c := Range{Lo: math.Max(r.Lo, bounds.Lo), Hi: math.Min(r.Hi, bounds.Hi)}
	if !c.IsValid() {
		return Range{}, c.Validate()
	}
	return c, nil
}

// ApproxEqual compares two ranges bound by bound within tol
func (r Range) ApproxEqual(o Range, tol float64) bool {
	return scalar.EqualWithinAbsOrRel(r.Lo, o.Lo, tol, tol) &&
		scalar.EqualWithinAbsOrRel(r.Hi, o.Hi, tol, tol)
}

// IsFinite returns true if v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
