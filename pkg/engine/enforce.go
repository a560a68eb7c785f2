// Package engine keeps the overview, selection and detail ranges of the
// linked numberlines consistent.
//
// All state lives in a Store. Gestures never write state themselves: an
// Interpreter turns input events into mutations, and the Store applies each
// mutation, repairs degenerate ranges, runs Enforce, and only then notifies
// subscribers.
package engine

import (
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
)

// Enforce restores the containment invariants of s. It is pure and
// idempotent: Enforce(Enforce(s)) == Enforce(s).
//
//  1. The overview grows to contain the selection.
//  2. An active detail zoom is clamped to the overview. If the clamp
//     collapses, the detail falls back to the whole overview. The selection
//     then mirrors the detail range.
func Enforce(s model.State) model.State {
	out := s.Clone()
	out.Overview = model.Union(out.Overview, out.Selection)

	if out.Detail != nil {
		d, err := model.Clamp(*out.Detail, out.Overview)
		if err != nil {
			d = out.Overview
		}
		out.Detail = &d
		out.Selection = d
	}
	return out
}

// Repair replaces degenerate ranges in next with the last known good ranges
// from prev. It reports whether anything had to be replaced.
//
// An invalid overview falls back to prev.Overview, an invalid selection to
// prev.Selection and an invalid detail to the repaired overview.
func Repair(prev, next model.State) (model.State, bool) {
	out := next.Clone()
	repaired := false

	if !out.Overview.IsValid() {
		out.Overview = prev.Overview
		repaired = true
	}
	if !out.Selection.IsValid() {
		out.Selection = prev.Selection
		repaired = true
	}
	if out.Detail != nil && !out.Detail.IsValid() {
		d := out.Overview
		out.Detail = &d
		repaired = true
	}
	return out, repaired
}
