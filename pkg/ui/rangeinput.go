package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/ticks"
)

// RangeInputModel is a modal for typing a selection such as "1/4, 3/4"
type RangeInputModel struct {
	input textinput.Model
	title string
	width int
	theme Theme

	// Result
	submitted bool
	cancelled bool
	value     model.Range
	err       error
}

// NewRangeInputModel creates a range input prefilled with current
func NewRangeInputModel(title string, current model.Range, theme Theme) RangeInputModel {
	ti := textinput.New()
	ti.Placeholder = "lo, hi  (e.g. -1/2, 1 1/4)"
	ti.CharLimit = 64
	ti.Width = 40
	ti.SetValue(shortNumber(current.Lo) + ", " + shortNumber(current.Hi))
	ti.CursorEnd()
	ti.Focus()

	return RangeInputModel{
		input: ti,
		title: title,
		theme: theme,
		value: current,
	}
}

// Init implements tea.Model
func (m RangeInputModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m RangeInputModel) Update(msg tea.Msg) (RangeInputModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.cancelled = true
			return m, nil
		case "enter":
			r, err := ParseRange(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.value = r
			m.err = nil
			m.submitted = true
			return m, nil
		}
	}

	m.input, cmd = m.input.Update(msg)
	m.err = nil
	return m, cmd
}

// View implements tea.Model
func (m RangeInputModel) View() string {
	var b strings.Builder

	width := 56
	if m.width > 0 && m.width < 66 {
		width = m.width - 10
	}
	if width < 24 {
		width = 24
	}

	b.WriteString(m.theme.titleStyle().Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(m.theme.statusStyle(statusErr).Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.mutedStyle().Render("enter: apply • esc: cancel"))

	return m.theme.boxStyle().Width(width).Render(b.String())
}

// SetSize sets the available width
func (m *RangeInputModel) SetSize(width int) {
	m.width = width
	w := width - 24
	if w < 16 {
		w = 16
	}
	if w > 40 {
		w = 40
	}
	m.input.Width = w
}

// IsSubmitted returns true if the user pressed enter on a valid range
func (m RangeInputModel) IsSubmitted() bool {
	return m.submitted
}

// IsCancelled returns true if the user cancelled
func (m RangeInputModel) IsCancelled() bool {
	return m.cancelled
}

// Value returns the parsed range
func (m RangeInputModel) Value() model.Range {
	return m.value
}

// ParseRange parses two bounds separated by a comma, "..", or ";".
// Each bound may be a decimal, a fraction or a mixed number. Bounds given
// in descending order are swapped.
func ParseRange(s string) (model.Range, error) {
	s = strings.TrimSpace(s)
	var parts []string
	for _, sep := range []string{"..", ",", ";"} {
		if strings.Contains(s, sep) {
			parts = strings.SplitN(s, sep, 2)
			break
		}
	}
	if len(parts) != 2 {
		return model.Range{}, fmt.Errorf("expected two bounds like \"lo, hi\", got %q", s)
	}

	lo, err := ticks.ParseValue(parts[0])
	if err != nil {
		return model.Range{}, fmt.Errorf("lower bound: %w", err)
	}
	hi, err := ticks.ParseValue(parts[1])
	if err != nil {
		return model.Range{}, fmt.Errorf("upper bound: %w", err)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	r := model.Range{Lo: lo, Hi: hi}
	if err := r.Validate(); err != nil {
		return model.Range{}, err
	}
	return r, nil
}

// centerOverlay places an overlay in the middle of a width x height screen
func centerOverlay(overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		return overlay
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
}
