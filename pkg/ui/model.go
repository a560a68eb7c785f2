// Package ui implements the interactive terminal numberline viewer
package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/config"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/engine"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/export"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/ticks"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusErr
)

// dragKind is the mouse drag in progress
type dragKind int

const (
	dragNone dragKind = iota
	dragBrush
	dragPanOverview
	dragPanDetail
)

// hoverMaxDenominator bounds the fractions shown in the pointer readout
const hoverMaxDenominator = 64

// ConfigReloadedMsg carries a re-read config file into the event loop
type ConfigReloadedMsg struct {
	Config config.Config
	Err    error
}

type exportDoneMsg struct {
	paths []string
	err   error
}

// Options configure a Model
type Options struct {
	Config   config.Config
	Logger   *log.Logger
	Renderer *lipgloss.Renderer
	// ExportDir receives numberline.svg and numberline.png on export
	ExportDir string
	// Clipboard writes text to the system clipboard
	Clipboard func(string) error
}

// Model is the bubbletea model of the linked numberline view
type Model struct {
	cfg    config.Config
	theme  Theme
	logger *log.Logger

	store       *engine.Store
	interp      *engine.Interpreter
	unsubscribe func()

	keys        keyMap
	help        help.Model
	helpOverlay HelpOverlayModel
	rangeInput  *RangeInputModel
	presets     *PresetPickerModel

	width  int
	height int
	layout render.Layout

	// brushPx is the selection projected onto the overview, in interpreter
	// pixels
	brushPx model.Extent
	changes int

	status     string
	statusKind statusKind
	hover      string

	drag   dragKind
	anchor float64
	lastX  float64

	exportDir string
	clipboard func(string) error
	quitting  bool
}

// NewModel creates the model and subscribes it to a fresh store
func NewModel(opts Options) *Model {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}
	dir := opts.ExportDir
	if dir == "" {
		dir = "."
	}

	theme := DefaultTheme(opts.Renderer, cfg.Theme)
	keys := defaultKeyMap()
	store := engine.NewStore(cfg.InitialState(), engine.WithLogger(logger))

	m := &Model{
		cfg:         cfg,
		theme:       theme,
		logger:      logger,
		store:       store,
		interp:      engine.NewInterpreter(store, cfg.Settings()),
		keys:        keys,
		help:        help.New(),
		helpOverlay: NewHelpOverlayModel(theme, keys),
		exportDir:   dir,
		clipboard:   clip,
	}
	m.unsubscribe = store.Subscribe(m.onChange)
	m.relayout()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("nlv")
}

// State returns the current synchronized state
func (m *Model) State() model.State {
	return m.store.Snapshot()
}

// Store exposes the state store so other views can subscribe
func (m *Model) Store() *engine.Store {
	return m.store
}

// Layout returns the current terminal layout
func (m *Model) Layout() render.Layout {
	return m.layout
}

// ═══════════════════════════════════════════════════════════════════════════
// State changes
// ═══════════════════════════════════════════════════════════════════════════

func (m *Model) onChange(c engine.Change) {
	m.changes++
	if c.Repaired {
		m.setStatus(statusWarn, "degenerate range repaired")
	}
	m.logger.Printf("state %s (%s)", c.State, c.Origin)
	m.relayoutState(c.State)
}

func (m *Model) relayout() {
	m.relayoutState(m.store.Snapshot())
}

// relayoutState rebuilds the layout and reprojects the brush. The brush
// update is replayed as a programmatic event, which the interpreter ignores.
func (m *Model) relayoutState(s model.State) {
	m.layout = render.New(s, terminalOptions(m.cfg, m.width))
	if m.layout.Overview.Brush == nil {
		return
	}
	px := model.Extent{
		Start: m.layout.Overview.Brush.Start - marginCells,
		End:   m.layout.Overview.Brush.End - marginCells,
	}
	m.brushPx = px
	m.interp.Handle(engine.Brush{Phase: engine.BrushMove, Extent: &px, Origin: model.OriginProgrammatic})
}

func (m *Model) innerWidth() int {
	if w := m.width - 2*marginCells; w > 0 {
		return w
	}
	return 0
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	inner := float64(m.innerWidth())
	m.interp.Resize(inner, inner)
	m.help.Width = width
	m.helpOverlay.SetSize(width, height)
	if m.rangeInput != nil {
		m.rangeInput.SetSize(width)
	}
	if m.presets != nil {
		m.presets.SetSize(width, height)
	}
	m.relayout()
}

func (m *Model) applyConfig(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		m.setStatus(statusErr, "config reload failed: %v", msg.Err)
		m.logger.Printf("Warning: config reload failed: %v", msg.Err)
		return
	}
	m.cfg = msg.Config
	if m.theme.Name != m.cfg.Theme && m.cfg.Theme != "" {
		m.theme = DefaultTheme(m.theme.Renderer, m.cfg.Theme)
		m.helpOverlay.SetTheme(m.theme)
	}
	m.interp.SetSettings(m.cfg.Settings())
	m.store.SetInitial(m.cfg.InitialState())
	m.drag = dragNone
	m.interp.Handle(engine.ResetRequest{Origin: model.OriginProgrammatic})
	m.relayout()
	m.setStatus(statusOK, "config reloaded")
}

func (m *Model) setStatus(kind statusKind, format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusKind = kind
}

// ═══════════════════════════════════════════════════════════════════════════
// Update
// ═══════════════════════════════════════════════════════════════════════════

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus(statusErr, "export failed: %v", msg.err)
		} else {
			m.setStatus(statusOK, "exported %s", strings.Join(msg.paths, ", "))
		}
		return m, nil

	case tea.MouseMsg:
		if !m.overlayActive() {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.rangeInput != nil {
		ri, cmd := m.rangeInput.Update(msg)
		m.rangeInput = &ri
		return m, cmd
	}
	return m, nil
}

func (m *Model) overlayActive() bool {
	return m.helpOverlay.IsVisible() || m.rangeInput != nil || m.presets != nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	return m, tea.Quit
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.helpOverlay.IsVisible() {
		m.helpOverlay, _ = m.helpOverlay.Update(msg)
		return m, nil
	}

	if m.rangeInput != nil {
		ri, cmd := m.rangeInput.Update(msg)
		switch {
		case ri.IsCancelled():
			m.rangeInput = nil
		case ri.IsSubmitted():
			m.rangeInput = nil
			m.selectRange(ri.Value())
		default:
			m.rangeInput = &ri
		}
		return m, cmd
	}

	if m.presets != nil {
		m.presets.Update(msg.String())
		switch {
		case m.presets.IsConfirmed():
			if p := m.presets.SelectedItem(); p != nil {
				m.applyPreset(*p)
			}
			m.presets = nil
		case m.presets.IsCancelled():
			m.presets = nil
		}
		return m, nil
	}

	step := m.cfg.WheelStep
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Cancel):
		m.cancelDrag()
	case key.Matches(msg, m.keys.Help):
		m.helpOverlay.Show()
	case key.Matches(msg, m.keys.ZoomIn):
		m.keyZoom(engine.LineDetail, -step)
	case key.Matches(msg, m.keys.ZoomOut):
		m.keyZoom(engine.LineDetail, step)
	case key.Matches(msg, m.keys.OverviewZoomIn):
		m.keyZoom(engine.LineOverview, -step)
	case key.Matches(msg, m.keys.OverviewZoomOut):
		m.keyZoom(engine.LineOverview, step)
	case key.Matches(msg, m.keys.PanLeft):
		m.keyPan(engine.LineDetail, 1)
	case key.Matches(msg, m.keys.PanRight):
		m.keyPan(engine.LineDetail, -1)
	case key.Matches(msg, m.keys.OverviewLeft):
		m.keyPan(engine.LineOverview, 1)
	case key.Matches(msg, m.keys.OverviewRight):
		m.keyPan(engine.LineOverview, -1)
	case key.Matches(msg, m.keys.Select):
		ri := NewRangeInputModel("Select range", m.store.Snapshot().Selection, m.theme)
		ri.SetSize(m.width)
		m.rangeInput = &ri
		return m, ri.Init()
	case key.Matches(msg, m.keys.Presets):
		if len(m.cfg.Presets) == 0 {
			m.setStatus(statusWarn, "no presets configured")
			break
		}
		p := NewPresetPickerModel(m.cfg.Presets, m.theme)
		p.SetSize(m.width, m.height)
		m.presets = &p
	case key.Matches(msg, m.keys.Reset):
		m.drag = dragNone
		m.interp.Handle(engine.ResetRequest{Origin: model.OriginUser})
		m.setStatus(statusInfo, "reset")
	case key.Matches(msg, m.keys.Copy):
		m.copyState()
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	}
	return m, nil
}

// keyZoom zooms line about its centre by a wheel delta
func (m *Model) keyZoom(line engine.Line, delta float64) {
	pos := float64(m.innerWidth()) / 2
	if !m.interp.Handle(engine.Wheel{Line: line, Pos: pos, Delta: delta, Origin: model.OriginUser}) {
		m.setStatus(statusWarn, "zoom ignored")
	}
}

// keyPan pans line by a tenth of its width; dir 1 reveals smaller values
func (m *Model) keyPan(line engine.Line, dir float64) {
	step := math.Max(1, float64(m.innerWidth())/10)
	m.interp.Handle(engine.Pan{Line: line, Delta: dir * step, Origin: model.OriginUser})
}

func (m *Model) selectRange(r model.Range) {
	if m.interp.Handle(engine.Select{Range: r, Origin: model.OriginUser}) {
		m.setStatus(statusOK, "selected %s", formatRange(m.store.Snapshot().Selection))
		return
	}
	m.setStatus(statusWarn, "selection %s lies outside the overview", formatRange(r))
}

func (m *Model) applyPreset(p config.Preset) {
	m.drag = dragNone
	m.store.Replace(model.OriginUser, p.State())
	m.setStatus(statusOK, "preset %q", p.Name)
}

func (m *Model) cancelDrag() {
	if m.drag == dragBrush {
		m.interp.Handle(engine.Brush{Phase: engine.BrushCancel, Origin: model.OriginUser})
		m.setStatus(statusInfo, "selection cancelled")
	}
	m.drag = dragNone
}

func (m *Model) copyState() {
	data, err := json.MarshalIndent(m.store.Snapshot(), "", "  ")
	if err != nil {
		m.setStatus(statusErr, "copy failed: %v", err)
		return
	}
	if err := m.clipboard(string(data)); err != nil {
		m.setStatus(statusErr, "copy failed: %v", err)
		return
	}
	m.setStatus(statusOK, "state copied to clipboard")
}

func (m *Model) exportCmd() tea.Cmd {
	state := m.store.Snapshot()
	pal := export.DarkPalette()
	if m.theme.Name == "light" {
		pal = export.LightPalette()
	}
	base := export.SnapshotOptions{
		Layout:  render.New(state, m.cfg.RenderOptions(render.DefaultWidth)),
		Title:   "Numberline " + formatRange(state.Overview),
		Palette: &pal,
	}
	paths := []string{
		filepath.Join(m.exportDir, "numberline.svg"),
		filepath.Join(m.exportDir, "numberline.png"),
	}
	return func() tea.Msg {
		err := export.SaveAll(context.Background(), base, paths)
		return exportDoneMsg{paths: paths, err: err}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Mouse
// ═══════════════════════════════════════════════════════════════════════════

// lineAt returns the line geometry under screen row y
func (m *Model) lineAt(y int) (render.LineGeometry, bool) {
	row := y - headerRows
	if row < 0 {
		return render.LineGeometry{}, false
	}
	lines := m.layout.Lines()
	idx := row / lineRows
	if idx >= len(lines) {
		return render.LineGeometry{}, false
	}
	return lines[idx], true
}

// clampX keeps a pointer position inside the overview extent
func (m *Model) clampX(x float64) float64 {
	return math.Max(0, math.Min(float64(m.innerWidth()), x))
}

// wheelPanStep is the pan distance of one horizontal wheel notch, in cells
func (m *Model) wheelPanStep() float64 {
	return math.Max(1, float64(m.innerWidth())/20)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := float64(msg.X - marginCells)

	// A drag keeps its target until release, wherever the pointer goes
	if m.drag != dragNone {
		m.continueDrag(msg, x)
		return
	}

	g, ok := m.lineAt(msg.Y)
	if !ok {
		m.hover = ""
		return
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if msg.Action != tea.MouseActionPress {
			return
		}
		if msg.Shift {
			dir := 1.0
			if msg.Button == tea.MouseButtonWheelDown {
				dir = -1
			}
			m.interp.Handle(engine.Pan{Line: g.Line, Delta: dir * m.wheelPanStep(), Origin: model.OriginUser})
			return
		}
		delta := m.cfg.WheelStep
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -delta
		}
		m.interp.Handle(engine.Wheel{Line: g.Line, Pos: x, Delta: delta, Origin: model.OriginUser})

	case tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		if msg.Action != tea.MouseActionPress {
			return
		}
		dir := 1.0
		if msg.Button == tea.MouseButtonWheelRight {
			dir = -1
		}
		m.interp.Handle(engine.Pan{Line: g.Line, Delta: dir * m.wheelPanStep(), Origin: model.OriginUser})

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return
		}
		if g.Line == engine.LineOverview {
			m.drag = dragBrush
			m.anchor = m.clampX(x)
			m.lastX = m.anchor
			m.interp.Handle(engine.Brush{Phase: engine.BrushStart, Origin: model.OriginUser})
			return
		}
		m.drag = dragPanDetail
		m.lastX = x

	case tea.MouseButtonRight, tea.MouseButtonMiddle:
		if msg.Action == tea.MouseActionPress && g.Line == engine.LineOverview {
			m.drag = dragPanOverview
			m.lastX = x
		}

	case tea.MouseButtonNone:
		if msg.Action == tea.MouseActionMotion {
			m.hover = g.Line.String() + " " + ticks.FormatValue(g.ValueAt(float64(msg.X)), hoverMaxDenominator, 1e-9)
		}
	}
}

func (m *Model) continueDrag(msg tea.MouseMsg, x float64) {
	release := msg.Action == tea.MouseActionRelease

	switch m.drag {
	case dragBrush:
		m.lastX = m.clampX(x)
		ext := model.Extent{Start: m.anchor, End: m.lastX}
		if release {
			m.drag = dragNone
			m.interp.Handle(engine.Brush{Phase: engine.BrushEnd, Extent: &ext, Origin: model.OriginUser})
			return
		}
		if msg.Action == tea.MouseActionMotion {
			m.interp.Handle(engine.Brush{Phase: engine.BrushMove, Extent: &ext, Origin: model.OriginUser})
		}

	case dragPanOverview, dragPanDetail:
		line := engine.LineDetail
		if m.drag == dragPanOverview {
			line = engine.LineOverview
		}
		if d := x - m.lastX; d != 0 {
			m.interp.Handle(engine.Pan{Line: line, Delta: d, Origin: model.OriginUser})
		}
		m.lastX = x
		if release {
			m.drag = dragNone
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// View
// ═══════════════════════════════════════════════════════════════════════════

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.innerWidth() < MinAxisWidth {
		return m.theme.statusStyle(statusWarn).Render("Terminal too narrow")
	}

	switch {
	case m.helpOverlay.IsVisible():
		return centerOverlay(m.helpOverlay.View(), m.width, m.height)
	case m.rangeInput != nil:
		return centerOverlay(m.rangeInput.View(), m.width, m.height)
	case m.presets != nil:
		return centerOverlay(m.presets.View(), m.width, m.height)
	}

	var rows []string
	rows = append(rows, m.headerView(), m.statusView())

	for _, g := range m.layout.Lines() {
		if g.Line == engine.LineOverview && m.drag == dragBrush {
			ext := model.Extent{Start: m.anchor + marginCells, End: m.lastX + marginCells}.Sorted()
			g.Brush = &ext
		}
		rows = append(rows, renderBlock(g, m.width, m.theme))
	}

	if m.width >= BreakpointNarrow {
		rows = append(rows, "", m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) headerView() string {
	s := m.store.Snapshot()
	title := m.theme.titleStyle().Render("Numberline")
	detail := "follows selection"
	if s.Detail != nil {
		detail = formatRange(*s.Detail)
	}
	summary := fmt.Sprintf("  overview %s  selection %s  detail %s",
		formatRange(s.Overview), formatRange(s.Selection), detail)
	line := title + m.theme.mutedStyle().Render(summary)
	return truncate.StringWithTail(line, uint(m.width), "…")
}

func (m *Model) statusView() string {
	left := m.theme.statusStyle(m.statusKind).Render(m.status)
	if m.hover == "" {
		return truncate.StringWithTail(left, uint(m.width), "…")
	}
	right := m.theme.labelStyle().Render(m.hover)
	gap := m.width - lipgloss.Width(left) - runewidth.StringWidth(m.hover)
	if gap < 1 {
		return truncate.StringWithTail(left+" "+right, uint(m.width), "…")
	}
	return left + strings.Repeat(" ", gap) + right
}
