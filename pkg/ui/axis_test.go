package ui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/config"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
)

func testGeometry() render.LineGeometry {
	brush := model.Extent{Start: 12, End: 22}
	return render.LineGeometry{
		Scale: render.NewScale(model.NewRange(0, 10), model.Extent{Start: 2, End: 42}),
		Ticks: []render.TickMark{
			{Value: 0, Pos: 2, Label: "0"},
			{Value: 5, Pos: 22, Label: "5"},
			{Value: 10, Pos: 42, Label: "10"},
		},
		Brush: &brush,
	}
}

func TestLayoutAxis(t *testing.T) {
	a := layoutAxis(testGeometry(), 44)

	cases := []struct {
		col  int
		want rune
	}{
		{2, '┼'},
		{30, '─'},
		{15, '━'},
		{22, '╋'},
		{42, '┼'},
		{0, ' '},
		{43, ' '},
	}
	for _, tc := range cases {
		if got := a.axis[tc.col]; got != tc.want {
			t.Errorf("axis[%d]: expected %q, got %q", tc.col, tc.want, got)
		}
	}

	if a.ticks[12] != '▲' || a.ticks[22] != '▲' {
		t.Errorf("Expected brush handles at 12 and 22, got %q", string(a.ticks))
	}
	if a.ticks[2] != '╵' {
		t.Errorf("Expected tick mark at 2, got %q", a.ticks[2])
	}
	if !a.brushed[12] || a.brushed[11] || a.brushed[23] {
		t.Error("Expected brushed cells to cover exactly [12, 22]")
	}

	labels := rowString(a.labels)
	if labels[2] != '0' || labels[22] != '5' || labels[41:43] != "10" {
		t.Errorf("Expected labels centred under ticks, got %q", labels)
	}
}

func TestLayoutAxisSkipsCollidingLabels(t *testing.T) {
	g := render.LineGeometry{
		Scale: render.NewScale(model.NewRange(0, 1), model.Extent{Start: 0, End: 20}),
		Ticks: []render.TickMark{
			{Value: 0.5, Pos: 10, Label: "100"},
			{Value: 0.55, Pos: 11, Label: "200"},
		},
	}
	labels := strings.TrimSpace(rowString(layoutAxis(g, 21).labels))
	if labels != "100" {
		t.Errorf("Expected only the first label, got %q", labels)
	}
}

func TestLayoutAxisZeroWidth(t *testing.T) {
	a := layoutAxis(testGeometry(), 0)
	if len(a.axis) != 0 {
		t.Errorf("Expected empty rows, got %d cells", len(a.axis))
	}
}

func TestShortNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-1e-10, "-1e-10"},
		{0.1 + 0.2, "0.3"},
		{1234567, "1.23457e+06"},
		{-2.5, "-2.5"},
	}
	for _, tc := range cases {
		if got := shortNumber(tc.in); got != tc.want {
			t.Errorf("shortNumber(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestRenderStatic(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(io.Discard), "dark")
	cfg := config.Default()

	out := RenderStatic(cfg, cfg.InitialState(), 80, theme)
	for _, want := range []string{"overview", "detail fraction", "detail decimal", "[-100, 100]", "├"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 3*lineRows {
		t.Errorf("Expected %d rows, got %d", 3*lineRows, lines)
	}

	narrow := RenderStatic(cfg, cfg.InitialState(), 3, theme)
	if narrow == "" {
		t.Error("Expected a minimum width render")
	}
}
