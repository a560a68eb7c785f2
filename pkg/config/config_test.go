package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/engine"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	want := model.State{
		Overview:  model.Range{Lo: -100, Hi: 100},
		Selection: model.Range{Lo: -10, Hi: 10},
	}
	if !cfg.InitialState().Equal(want) {
		t.Errorf("Expected initial state %v, got %v", want, cfg.InitialState())
	}
	if cfg.Settings() != engine.DefaultSettings() {
		t.Errorf("Expected default settings, got %+v", cfg.Settings())
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	data := []byte(`
overview: [0, 1]
selection: [0.25, 0.5]
padding: 0.1
brush_mode: continuous
ticks:
  denominators: [3, 9]
  max: 8
detail_lines: [decimal]
presets:
  - name: thirds
    overview: [0, 3]
    selection: [1, 2]
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.Overview != (Bounds{0, 1}) || cfg.Selection != (Bounds{0.25, 0.5}) {
		t.Errorf("Ranges not applied: %v %v", cfg.Overview, cfg.Selection)
	}
	if cfg.Settings().BrushMode != engine.BrushContinuous {
		t.Error("Expected continuous brush mode")
	}
	if cfg.Settings().Sensitivity != engine.DefaultSensitivity {
		t.Errorf("Missing key should keep default sensitivity, got %v", cfg.Settings().Sensitivity)
	}

	opts := cfg.TickOptions()
	if len(opts.Denominators) != 2 || opts.Denominators[0] != 3 || opts.Denominators[1] != 9 {
		t.Errorf("Expected denominators [3 9], got %v", opts.Denominators)
	}
	if opts.Max != 8 || opts.Min != 4 {
		t.Errorf("Expected window [4, 8], got [%d, %d]", opts.Min, opts.Max)
	}

	kinds := cfg.AxisKinds()
	if len(kinds) != 1 || kinds[0] != render.AxisDecimal {
		t.Errorf("Expected one decimal detail line, got %v", kinds)
	}

	if len(cfg.Presets) != 1 {
		t.Fatalf("Expected file presets to replace defaults, got %d", len(cfg.Presets))
	}
	p, ok := cfg.Preset("THIRDS")
	if !ok {
		t.Fatal("Preset lookup should be case-insensitive")
	}
	if p.State().Selection != (model.Range{Lo: 1, Hi: 2}) {
		t.Errorf("Unexpected preset state %v", p.State())
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error: %v", err)
	}
	if len(cfg.Presets) != len(Default().Presets) {
		t.Errorf("Expected default presets, got %d", len(cfg.Presets))
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		errPart string
	}{
		{"reversed overview", "overview: [5, 1]", "overview"},
		{"collapsed selection", "selection: [2, 2]", "selection"},
		{"short list", "overview: [1]", "invalid YAML"},
		{"padding too large", "padding: 0.5", "padding"},
		{"negative sensitivity", "wheel_sensitivity: -1", "wheel_sensitivity"},
		{"brush mode", "brush_mode: sometimes", "brush mode"},
		{"bad denominator", "ticks: {denominators: [0]}", "denominators"},
		{"bad window", "ticks: {min: 9, max: 3}", "window"},
		{"axis kind", "detail_lines: [roman]", "detail_lines"},
		{"no lines", "detail_lines: []", "at least one"},
		{"preset name", "presets: [{overview: [0, 1], selection: [0, 1]}]", "name is required"},
		{"theme", "theme: neon", "theme"},
		{"unknown key", "zoom: 3", "invalid YAML"},
		{"not yaml", ":\n  - [", "invalid YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Expected error for %q", tt.yaml)
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Expected error mentioning %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestValidate_DegenerateIsWrapped(t *testing.T) {
	cfg := Default()
	cfg.Overview = Bounds{1, 1}
	err := cfg.Validate()
	if !errors.Is(err, model.ErrDegenerateRange) {
		t.Errorf("Expected ErrDegenerateRange in chain, got %v", err)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "nl.yaml")
	cfg := Default()
	cfg.Selection = Bounds{-3, 4}
	cfg.Theme = "light"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Selection != cfg.Selection || loaded.Theme != "light" {
		t.Errorf("Round trip lost fields: %+v", loaded)
	}
	if loaded.Path() != path {
		t.Errorf("Expected Path() %s, got %s", path, loaded.Path())
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nl.yaml")
	cfg := Default()
	cfg.Padding = -1
	if err := Save(path, cfg); err == nil {
		t.Fatal("Expected Save to reject invalid config")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Invalid config should not be written")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestLoad_LookupOrder(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults error: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Expected defaults, got config from %s", cfg.Path())
	}

	if err := os.WriteFile(DefaultFileName, []byte("selection: [1, 2]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load local file error: %v", err)
	}
	if cfg.Selection != (Bounds{1, 2}) {
		t.Errorf("Expected local file to be used, got %v", cfg.Selection)
	}

	explicit := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(explicit, []byte("selection: [3, 4]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(explicit)
	if err != nil {
		t.Fatalf("Load explicit error: %v", err)
	}
	if cfg.Selection != (Bounds{3, 4}) {
		t.Errorf("Expected explicit file to win, got %v", cfg.Selection)
	}
}

func TestRenderOptions(t *testing.T) {
	cfg := Default()
	cfg.Padding = 0.2
	opts := cfg.RenderOptions(500)
	if opts.Width != 500 || opts.Padding != 0.2 {
		t.Errorf("Unexpected options %+v", opts)
	}
	if len(opts.DetailLines) != 2 {
		t.Errorf("Expected 2 detail lines, got %d", len(opts.DetailLines))
	}
	if got := cfg.PresetNames(); len(got) != 3 || got[0] != "unit interval" {
		t.Errorf("Unexpected preset names %v", got)
	}
}
