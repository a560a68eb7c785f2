package engine

import (
	"math/rand"
	"testing"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
)

func rangePtr(lo, hi float64) *model.Range {
	r := model.Range{Lo: lo, Hi: hi}
	return &r
}

// randomState builds arbitrary, possibly invalid, states: reversed and
// empty ranges included.
func randomState(rng *rand.Rand) model.State {
	pick := func() model.Range {
		a := float64(rng.Intn(41) - 20)
		b := float64(rng.Intn(41) - 20)
		if rng.Intn(4) == 0 {
			return model.Range{Lo: a, Hi: a}
		}
		return model.Range{Lo: a, Hi: b}
	}
	s := model.State{Overview: pick(), Selection: pick()}
	if rng.Intn(2) == 0 {
		d := pick()
		s.Detail = &d
	}
	return s
}

func TestEnforce_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		s := randomState(rng)
		once := Enforce(s)
		twice := Enforce(once)
		if !once.Equal(twice) {
			t.Fatalf("Enforce not idempotent for %v:\n once  %v\n twice %v", s, once, twice)
		}
	}
}

func TestEnforce_ContainmentForValidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 10000; i++ {
		s := randomState(rng)
		if !s.Overview.IsValid() || !s.Selection.IsValid() || (s.Detail != nil && !s.Detail.IsValid()) {
			continue
		}
		out := Enforce(s)
		if err := out.Validate(); err != nil {
			t.Fatalf("Enforce(%v) = %v violates invariants: %v", s, out, err)
		}
	}
}

func TestEnforce_ExpandsOverviewToSelection(t *testing.T) {
	s := model.State{
		Overview:  model.Range{Lo: -5, Hi: 5},
		Selection: model.Range{Lo: -10, Hi: 10},
	}
	out := Enforce(s)
	if out.Overview != (model.Range{Lo: -10, Hi: 10}) {
		t.Errorf("Expected overview [-10, 10], got %v", out.Overview)
	}
	if out.Selection != s.Selection {
		t.Errorf("Selection changed to %v", out.Selection)
	}
}

func TestEnforce_DegenerateClampFallback(t *testing.T) {
	s := model.State{
		Overview:  model.Range{Lo: 0, Hi: 10},
		Selection: model.Range{Lo: 2, Hi: 3},
		Detail:    rangePtr(11, 12),
	}
	out := Enforce(s)

	want := model.Range{Lo: 0, Hi: 10}
	if out.Detail == nil || *out.Detail != want {
		t.Fatalf("Expected detail %v, got %v", want, out.Detail)
	}
	if out.Overview != want {
		t.Errorf("Expected overview %v, got %v", want, out.Overview)
	}
	if out.Selection != want {
		t.Errorf("Expected selection to follow detail %v, got %v", want, out.Selection)
	}
}

func TestEnforce_ClampsPartialDetail(t *testing.T) {
	s := model.State{
		Overview:  model.Range{Lo: 0, Hi: 10},
		Selection: model.Range{Lo: 2, Hi: 3},
		Detail:    rangePtr(8, 14),
	}
	out := Enforce(s)
	if *out.Detail != (model.Range{Lo: 8, Hi: 10}) {
		t.Errorf("Expected detail [8, 10], got %v", *out.Detail)
	}
	if out.Selection != *out.Detail {
		t.Errorf("Expected selection %v, got %v", *out.Detail, out.Selection)
	}
}

func TestEnforce_DoesNotAliasInput(t *testing.T) {
	d := model.Range{Lo: 1, Hi: 2}
	s := model.State{Overview: model.Range{Lo: 0, Hi: 10}, Selection: d, Detail: &d}
	out := Enforce(s)
	out.Detail.Lo = 1.5
	if d.Lo != 1 {
		t.Error("Enforce returned a state sharing the input's Detail")
	}
}

func TestRepair(t *testing.T) {
	prev := model.State{
		Overview:  model.Range{Lo: 0, Hi: 10},
		Selection: model.Range{Lo: 2, Hi: 4},
	}

	tests := []struct {
		name     string
		next     model.State
		want     model.State
		repaired bool
	}{
		{
			name:     "valid untouched",
			next:     model.State{Overview: model.Range{Lo: -1, Hi: 11}, Selection: model.Range{Lo: 1, Hi: 2}},
			want:     model.State{Overview: model.Range{Lo: -1, Hi: 11}, Selection: model.Range{Lo: 1, Hi: 2}},
			repaired: false,
		},
		{
			name:     "collapsed selection",
			next:     model.State{Overview: prev.Overview, Selection: model.Range{Lo: 3, Hi: 3}},
			want:     prev,
			repaired: true,
		},
		{
			name:     "reversed overview",
			next:     model.State{Overview: model.Range{Lo: 5, Hi: -5}, Selection: prev.Selection},
			want:     prev,
			repaired: true,
		},
		{
			name:     "degenerate detail",
			next:     model.State{Overview: prev.Overview, Selection: prev.Selection, Detail: rangePtr(4, 4)},
			want:     model.State{Overview: prev.Overview, Selection: prev.Selection, Detail: rangePtr(0, 10)},
			repaired: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, repaired := Repair(prev, tt.next)
			if repaired != tt.repaired {
				t.Errorf("repaired = %v, want %v", repaired, tt.repaired)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Repair = %v, want %v", got, tt.want)
			}
		})
	}
}
