package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// HelpOverlayModel shows the key and mouse reference rendered as markdown
type HelpOverlayModel struct {
	visible bool
	width   int
	height  int
	theme   Theme
	keys    keyMap

	// rendered caches the glamour output for cachedWidth
	rendered    string
	cachedWidth int
}

// NewHelpOverlayModel creates a new help overlay
func NewHelpOverlayModel(theme Theme, keys keyMap) HelpOverlayModel {
	return HelpOverlayModel{
		theme: theme,
		keys:  keys,
	}
}

// Show makes the help overlay visible
func (m *HelpOverlayModel) Show() {
	m.visible = true
}

// Hide makes the help overlay invisible
func (m *HelpOverlayModel) Hide() {
	m.visible = false
}

// Toggle toggles visibility
func (m *HelpOverlayModel) Toggle() {
	m.visible = !m.visible
}

// IsVisible returns true if overlay is showing
func (m HelpOverlayModel) IsVisible() bool {
	return m.visible
}

// SetSize sets dimensions
func (m *HelpOverlayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetTheme switches the markdown style on the next render
func (m *HelpOverlayModel) SetTheme(theme Theme) {
	m.theme = theme
	m.cachedWidth = 0
}

// Update handles input
func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg.(type) {
	case tea.KeyMsg:
		// Any key closes help
		m.visible = false
	}

	return m, nil
}

// Markdown returns the help text as markdown
func (m HelpOverlayModel) Markdown() string {
	var b strings.Builder
	b.WriteString("# Numberline help\n\n")

	b.WriteString("## Mouse\n\n")
	b.WriteString("| Gesture | Effect |\n|---|---|\n")
	b.WriteString("| wheel on overview | zoom overview about the pointer |\n")
	b.WriteString("| drag on overview | select a range (clears the detail zoom) |\n")
	b.WriteString("| right drag on overview | pan overview |\n")
	b.WriteString("| wheel on a detail line | zoom detail about the pointer |\n")
	b.WriteString("| drag on a detail line | pan detail |\n")
	b.WriteString("| click without dragging | keep the previous selection |\n\n")

	b.WriteString("## Keys\n\n")
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, group := range m.keys.FullHelp() {
		for _, k := range group {
			writeBindingRow(&b, k)
		}
	}
	b.WriteString("\nWheel up zooms in, wheel down zooms out, on every line.\n")
	return b.String()
}

func writeBindingRow(b *strings.Builder, k key.Binding) {
	h := k.Help()
	fmt.Fprintf(b, "| `%s` | %s |\n", h.Key, h.Desc)
}

// View renders the help overlay
func (m *HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}

	wrap := m.width - 8
	if wrap < 30 {
		wrap = 30
	}
	if wrap > 80 {
		wrap = 80
	}
	if m.cachedWidth != wrap {
		m.rendered = m.renderMarkdown(wrap)
		m.cachedWidth = wrap
	}

	hint := m.theme.Renderer.NewStyle().Faint(true).Italic(true).Render("[Press any key to close]")
	return m.theme.boxStyle().Render(strings.TrimSpace(m.rendered) + "\n\n" + hint)
}

// renderMarkdown falls back to the raw markdown if glamour fails
func (m HelpOverlayModel) renderMarkdown(wrap int) string {
	style := "dark"
	if m.theme.Name == "light" {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return m.Markdown()
	}
	out, err := r.Render(m.Markdown())
	if err != nil {
		return m.Markdown()
	}
	return out
}
