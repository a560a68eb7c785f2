// Package ticks picks "nice" tick positions for a numberline.
//
// The Solver prefers fractional ticks n/d for a small set of denominators and
// falls back to decimal ticks when no denominator produces a readable count.
// Fallback order:
//
//  1. the first denominator (in preference order) whose tick count lies in
//     [Min, Max];
//  2. the denominator with the most ticks in the relaxed window
//     [1, floor(Max*1.5)], ties going to the earlier denominator;
//  3. decimal ticks on a 1/2/5 x 10^k step.
package ticks

import (
	"math"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
)

// latticeEps absorbs floating point noise when counting numerators, so that
// 0.1*10 is treated as exactly 1.
const latticeEps = 1e-9

// Default tick-count window
const (
	DefaultMinTicks = 4
	DefaultMaxTicks = 12
)

// DefaultDenominators returns the default preference order
func DefaultDenominators() []int {
	return []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 16, 20, 24, 25, 32, 50, 64, 100}
}

// Strategy tells how a Result was produced
type Strategy int

const (
	StrategyFraction Strategy = iota // Denominator count inside [Min, Max]
	StrategyRelaxed                  // Best denominator inside [1, Max*1.5]
	StrategyDecimal                  // No denominator fits; decimal ticks
)

// String returns display name for the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyFraction:
		return "fraction"
	case StrategyRelaxed:
		return "relaxed"
	case StrategyDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// Tick is a single labelled tick position
type Tick struct {
	Value float64
	Label string
	// Num and Den are set for fractional ticks (Den == 0 for decimal ticks)
	Num int
	Den int
}

// Result is the outcome of a Solve call
type Result struct {
	Strategy    Strategy
	Denominator int // 0 for decimal ticks
	Ticks       []Tick
}

// Fractional returns true if ticks are labelled as fractions
func (r Result) Fractional() bool {
	return r.Strategy != StrategyDecimal
}

// Options configures a Solver
type Options struct {
	Denominators []int
	Min          int
	Max          int
}

// DefaultOptions returns the default denominators and tick window
func DefaultOptions() Options {
	return Options{
		Denominators: DefaultDenominators(),
		Min:          DefaultMinTicks,
		Max:          DefaultMaxTicks,
	}
}

// Solver chooses tick denominators for displayed ranges
type Solver struct {
	opts Options
}

// NewSolver creates a solver. Zero-valued fields fall back to the defaults.
func NewSolver(opts Options) *Solver {
	def := DefaultOptions()
	if len(opts.Denominators) == 0 {
		opts.Denominators = def.Denominators
	}
	if opts.Max <= 0 {
		opts.Max = def.Max
	}
	if opts.Min <= 0 || opts.Min > opts.Max {
		opts.Min = min(def.Min, opts.Max)
	}
	return &Solver{opts: opts}
}

// Options returns the effective solver options
func (s *Solver) Options() Options {
	return s.opts
}

// RelaxedCeiling is the largest tick count accepted by the relaxed fallback
func (s *Solver) RelaxedCeiling() int {
	return int(math.Floor(float64(s.opts.Max) * 1.5))
}

// Count returns how many multiples of 1/d fall inside r
func Count(r model.Range, d int) int {
	first, last, ok := bounds(r, d)
	if !ok {
		return 0
	}
	n := last - first + 1
	if n < 0 || n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// bounds returns the numerator interval [ceil(lo*d), floor(hi*d)]
func bounds(r model.Range, d int) (float64, float64, bool) {
	if d <= 0 || !r.IsValid() {
		return 0, 0, false
	}
	first := math.Ceil(r.Lo*float64(d) - latticeEps)
	last := math.Floor(r.Hi*float64(d) + latticeEps)
	if last < first {
		return 0, 0, false
	}
	return first, last, true
}

// Choose runs the denominator search without generating ticks.
// It returns 0 when decimal ticks should be used.
func (s *Solver) Choose(r model.Range) (int, Strategy) {
	if !r.IsValid() {
		return 0, StrategyDecimal
	}

	for _, d := range s.opts.Denominators {
		n := Count(r, d)
		if n >= s.opts.Min && n <= s.opts.Max {
			return d, StrategyFraction
		}
	}

	ceiling := s.RelaxedCeiling()
	best, bestCount := 0, 0
	for _, d := range s.opts.Denominators {
		n := Count(r, d)
		if n >= 1 && n <= ceiling && n > bestCount {
			best, bestCount = d, n
		}
	}
	if best != 0 {
		return best, StrategyRelaxed
	}
	return 0, StrategyDecimal
}

// Solve picks a denominator for r and generates its ticks
func (s *Solver) Solve(r model.Range) Result {
	d, strategy := s.Choose(r)
	if strategy == StrategyDecimal {
		return Result{Strategy: StrategyDecimal, Ticks: DecimalTicks(r, s.opts.Max)}
	}
	return Result{Strategy: strategy, Denominator: d, Ticks: FractionTicks(r, d)}
}

// maxGenerated caps how many ticks a single call will materialize.
const maxGenerated = 1 << 16

// FractionTicks returns n/d for every integer n with lo <= n/d <= hi
func FractionTicks(r model.Range, d int) []Tick {
	first, last, ok := bounds(r, d)
	if !ok || last-first >= maxGenerated {
		return nil
	}
	out := make([]Tick, 0, int(last-first)+1)
	for n := int(first); n <= int(last); n++ {
		out = append(out, Tick{
			Value: float64(n) / float64(d),
			Label: FormatFraction(n, d),
			Num:   n,
			Den:   d,
		})
	}
	return out
}
