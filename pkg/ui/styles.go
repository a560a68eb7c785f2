package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired, with a light variant
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#E6E0FA", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#222222", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6272A4"}

	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#3C6E99", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#C46A00", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5555"}
)

// Theme bundles the renderer and colors used by every view
type Theme struct {
	Renderer *lipgloss.Renderer
	Name     string

	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Text      lipgloss.TerminalColor
	Subtext   lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Brush     lipgloss.TerminalColor
	Highlight lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Danger    lipgloss.TerminalColor
}

// DefaultTheme returns the theme for name ("dark" or "light"). The
// renderer decides how colors degrade on limited terminals.
func DefaultTheme(r *lipgloss.Renderer, name string) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	switch name {
	case "light":
		r.SetHasDarkBackground(false)
	case "dark":
		r.SetHasDarkBackground(true)
	}
	if name == "" {
		name = "dark"
	}
	return Theme{
		Renderer:  r,
		Name:      name,
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Text:      ColorText,
		Subtext:   ColorSubtext,
		Muted:     ColorMuted,
		Border:    ColorBgHighlight,
		Brush:     ColorBgHighlight,
		Highlight: ColorPrimary,
		Success:   ColorSuccess,
		Warning:   ColorWarning,
		Danger:    ColorDanger,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMON STYLES
// ══════════════════════════════════════════════════════════════════════════════

func (t Theme) titleStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Bold(true).Foreground(t.Primary)
}

func (t Theme) labelStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Subtext)
}

func (t Theme) mutedStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Muted)
}

func (t Theme) axisStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Text)
}

func (t Theme) brushStyle() lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(t.Highlight).Background(t.Brush).Bold(true)
}

func (t Theme) statusStyle(kind statusKind) lipgloss.Style {
	s := t.Renderer.NewStyle()
	switch kind {
	case statusOK:
		return s.Foreground(t.Success)
	case statusWarn:
		return s.Foreground(t.Warning)
	case statusErr:
		return s.Foreground(t.Danger)
	}
	return s.Foreground(t.Subtext)
}

// boxStyle is the bordered panel used by overlays
func (t Theme) boxStyle() lipgloss.Style {
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2)
}
