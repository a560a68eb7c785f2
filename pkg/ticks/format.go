package ticks

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
)

// FormatFraction renders n/d as a reduced fraction or mixed number.
//
//	FormatFraction(0, 4)  == "0"
//	FormatFraction(8, 4)  == "2"
//	FormatFraction(-2, 4) == "-1/2"
//	FormatFraction(-6, 4) == "-1 1/2"
func FormatFraction(n, d int) string {
	if n == 0 || d == 0 {
		return "0"
	}
	if d < 0 {
		n, d = -n, -d
	}
	g := gcd(abs(n), d)
	n, d = n/g, d/g
	if d == 1 {
		return strconv.Itoa(n)
	}

	sign := ""
	if n < 0 {
		sign = "-"
	}
	a := abs(n)
	whole, rem := a/d, a%d
	if whole == 0 {
		return sign + strconv.Itoa(rem) + "/" + strconv.Itoa(d)
	}
	return sign + strconv.Itoa(whole) + " " + strconv.Itoa(rem) + "/" + strconv.Itoa(d)
}

// FormatDecimal renders v with prec digits after the point, never "-0"
func FormatDecimal(v float64, prec int) string {
	if v == 0 {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}

// DecimalTicks returns at most maxTicks ticks on a 1/2/5 x 10^k step
func DecimalTicks(r model.Range, maxTicks int) []Tick {
	if !r.IsValid() || maxTicks < 1 {
		return nil
	}

	step := niceStep(r.Span() / float64(maxTicks))
	first, last := firstLast(r, step)
	for last-first+1 > float64(maxTicks) {
		step = nextNice(step)
		first, last = firstLast(r, step)
	}

	n := int(last - first + 1)
	if n <= 0 {
		return nil
	}
	prec := 0
	if e := math.Floor(math.Log10(step)); e < 0 {
		prec = int(-e)
	}

	values := []float64{first * step}
	if n > 1 {
		values = floats.Span(make([]float64, n), first*step, last*step)
	}

	out := make([]Tick, 0, n)
	for _, v := range values {
		if math.Abs(v) < step*latticeEps {
			v = 0
		}
		out = append(out, Tick{Value: v, Label: FormatDecimal(v, prec)})
	}
	return out
}

// firstLast returns the step multiples bracketing r
func firstLast(r model.Range, step float64) (float64, float64) {
	return math.Ceil(r.Lo/step - latticeEps), math.Floor(r.Hi/step + latticeEps)
}

// niceStep rounds raw up to the nearest 1, 2 or 5 times a power of ten
func niceStep(raw float64) float64 {
	if raw <= 0 || !model.IsFinite(raw) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= raw*(1-latticeEps) {
			return m * mag
		}
	}
	return 10 * mag
}

// nextNice returns the nice step following step
func nextNice(step float64) float64 {
	return niceStep(step * (1 + 1e-6))
}

// Rationalize approximates v by a continued-fraction convergent whose
// denominator does not exceed maxDen.
func Rationalize(v float64, maxDen int) (num, den int) {
	if maxDen < 1 || !model.IsFinite(v) || math.Abs(v) > 1e12 {
		return int(math.Round(v)), 1
	}

	sign := 1
	if v < 0 {
		sign, v = -1, -v
	}

	h1, h2 := 1, 0
	k1, k2 := 0, 1
	x := v
	for i := 0; i < 64; i++ {
		a := int(math.Floor(x))
		h, k := a*h1+h2, a*k1+k2
		if k > maxDen {
			break
		}
		h2, h1 = h1, h
		k2, k1 = k1, k
		frac := x - float64(a)
		if frac < latticeEps {
			break
		}
		x = 1 / frac
	}
	if k1 == 0 {
		return sign * int(math.Round(v)), 1
	}
	return sign * h1, k1
}

// FormatValue renders a pointer readout: an exact fraction when v is within
// tol of one with denominator <= maxDen, otherwise a short decimal.
func FormatValue(v float64, maxDen int, tol float64) string {
	n, d := Rationalize(v, maxDen)
	if math.Abs(float64(n)/float64(d)-v) <= tol {
		return FormatFraction(n, d)
	}
	return FormatDecimal(v, 4)
}

// ParseValue reads a decimal ("0.75"), a fraction ("3/4") or a mixed
// number ("-1 1/2"), the forms produced by FormatFraction and FormatDecimal.
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		if !strings.Contains(s, "/") {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || !model.IsFinite(v) {
				return 0, fmt.Errorf("invalid number %q", s)
			}
			return v, nil
		}
		return parseFraction(s)
	case 2:
		whole, err := strconv.Atoi(fields[0])
		if err != nil {
			return 0, fmt.Errorf("invalid mixed number %q", s)
		}
		frac, err := parseFraction(fields[1])
		if err != nil || frac < 0 || frac >= 1 {
			return 0, fmt.Errorf("invalid mixed number %q", s)
		}
		if strings.HasPrefix(fields[0], "-") {
			return float64(whole) - frac, nil
		}
		return float64(whole) + frac, nil
	}
	return 0, fmt.Errorf("invalid value %q", s)
}

func parseFraction(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return 0, fmt.Errorf("invalid fraction %q", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0, fmt.Errorf("invalid fraction %q", s)
	}
	d, err := strconv.Atoi(strings.TrimSpace(den))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid fraction %q", s)
	}
	return float64(n) / float64(d), nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
