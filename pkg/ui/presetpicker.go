package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/config"
)

// PresetPickerModel is the fuzzy preset chooser overlay
type PresetPickerModel struct {
	allItems      []config.Preset
	filteredItems []config.Preset

	searchInput   textinput.Model
	selectedIndex int

	width  int
	height int
	theme  Theme

	confirmed    bool
	cancelled    bool
	selectedItem *config.Preset
}

// NewPresetPickerModel creates a picker over presets in file order
func NewPresetPickerModel(presets []config.Preset, theme Theme) PresetPickerModel {
	ti := textinput.New()
	ti.Placeholder = "Search presets..."
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	items := append([]config.Preset(nil), presets...)
	return PresetPickerModel{
		allItems:      items,
		filteredItems: items,
		searchInput:   ti,
		theme:         theme,
		width:         60,
		height:        20,
	}
}

// SetSize updates the picker dimensions
func (m *PresetPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	inputWidth := width - 20
	if inputWidth < 20 {
		inputWidth = 20
	}
	if inputWidth > 50 {
		inputWidth = 50
	}
	m.searchInput.Width = inputWidth
}

// Update handles a key and reports whether it was consumed
func (m *PresetPickerModel) Update(key string) (handled bool) {
	switch key {
	case "up", "ctrl+k":
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
		return true
	case "down", "ctrl+j", "tab":
		if m.selectedIndex < len(m.filteredItems)-1 {
			m.selectedIndex++
		}
		return true
	case "enter":
		if len(m.filteredItems) > 0 && m.selectedIndex < len(m.filteredItems) {
			item := m.filteredItems[m.selectedIndex]
			m.selectedItem = &item
			m.confirmed = true
		}
		return true
	case "esc":
		m.cancelled = true
		m.selectedItem = nil
		return true
	case "backspace":
		if v := []rune(m.searchInput.Value()); len(v) > 0 {
			m.searchInput.SetValue(string(v[:len(v)-1]))
			m.filterItems()
		}
		return true
	case "space", " ":
		m.searchInput.SetValue(m.searchInput.Value() + " ")
		m.filterItems()
		return true
	default:
		if len([]rune(key)) == 1 {
			m.searchInput.SetValue(m.searchInput.Value() + key)
			m.filterItems()
			return true
		}
	}
	return false
}

func (m *PresetPickerModel) filterItems() {
	query := strings.TrimSpace(m.searchInput.Value())
	m.selectedIndex = 0
	if query == "" {
		m.filteredItems = m.allItems
		return
	}

	names := make([]string, len(m.allItems))
	for i, p := range m.allItems {
		names[i] = p.Name
	}
	matches := fuzzy.Find(query, names)

	m.filteredItems = make([]config.Preset, 0, len(matches))
	for _, match := range matches {
		m.filteredItems = append(m.filteredItems, m.allItems[match.Index])
	}
}

// Filtered returns the presets matching the current query, best first
func (m *PresetPickerModel) Filtered() []config.Preset {
	return m.filteredItems
}

// IsConfirmed returns true if the user picked a preset
func (m *PresetPickerModel) IsConfirmed() bool {
	return m.confirmed
}

// IsCancelled returns true if the user closed the picker
func (m *PresetPickerModel) IsCancelled() bool {
	return m.cancelled
}

// SelectedItem returns the chosen preset, or nil
func (m *PresetPickerModel) SelectedItem() *config.Preset {
	return m.selectedItem
}

// View renders the picker overlay
func (m *PresetPickerModel) View() string {
	t := m.theme

	boxWidth := 55
	if m.width < 65 {
		boxWidth = m.width - 10
	}
	if boxWidth < 35 {
		boxWidth = 35
	}
	contentWidth := boxWidth - 4

	var lines []string
	lines = append(lines, t.titleStyle().Render("Presets"), "")

	inputStyle := t.Renderer.NewStyle().
		Foreground(t.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1).
		Width(contentWidth - 2)
	searchValue := m.searchInput.Value()
	if searchValue == "" {
		searchValue = t.mutedStyle().Render(m.searchInput.Placeholder)
	}
	lines = append(lines, inputStyle.Render(searchValue), "")

	maxVisible := m.height - 12
	if maxVisible < 3 {
		maxVisible = 3
	}
	if maxVisible > 12 {
		maxVisible = 12
	}

	if len(m.filteredItems) == 0 {
		lines = append(lines, t.mutedStyle().Italic(true).Render("  No matching presets"))
	} else {
		start := 0
		if m.selectedIndex >= maxVisible {
			start = m.selectedIndex - maxVisible + 1
		}
		end := start + maxVisible
		if end > len(m.filteredItems) {
			end = len(m.filteredItems)
		}
		for i := start; i < end; i++ {
			p := m.filteredItems[i]
			line := p.Name + "  " + t.mutedStyle().Render(formatRange(p.Selection.Range())+" in "+formatRange(p.Overview.Range()))
			if i == m.selectedIndex {
				lines = append(lines, t.titleStyle().Render("▸ ")+line)
			} else {
				lines = append(lines, "  "+line)
			}
		}
	}

	lines = append(lines, "", t.mutedStyle().Render("↑/↓: move • enter: apply • esc: close"))
	return t.boxStyle().Width(boxWidth).Render(strings.Join(lines, "\n"))
}
