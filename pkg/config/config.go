// Package config loads and validates the numberline viewer configuration.
//
// The file is YAML. Lookup order: an explicit path (the --config flag), then
// ./.numberline.yaml, then the built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/engine"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/ticks"
)

// DefaultFileName is looked up in the working directory
const DefaultFileName = ".numberline.yaml"

// DefaultWheelStep is the wheel delta sent for one terminal wheel notch
const DefaultWheelStep = 100

// Bounds is a two-element [lo, hi] list in YAML
type Bounds [2]float64

// Range converts b to a model.Range
func (b Bounds) Range() model.Range {
	return model.Range{Lo: b[0], Hi: b[1]}
}

// BoundsOf converts r to Bounds
func BoundsOf(r model.Range) Bounds {
	return Bounds{r.Lo, r.Hi}
}

// TickConfig configures the tick denominator solver
type TickConfig struct {
	Denominators []int `yaml:"denominators,omitempty"`
	Min          int   `yaml:"min,omitempty"`
	Max          int   `yaml:"max,omitempty"`
}

// Preset is a named initial configuration
type Preset struct {
	Name      string `yaml:"name"`
	Overview  Bounds `yaml:"overview"`
	Selection Bounds `yaml:"selection"`
}

// State returns the preset as a model state
func (p Preset) State() model.State {
	return model.State{Overview: p.Overview.Range(), Selection: p.Selection.Range()}
}

// Config is the on-disk configuration
type Config struct {
	Overview         Bounds     `yaml:"overview"`
	Selection        Bounds     `yaml:"selection"`
	Padding          float64    `yaml:"padding"`
	WheelSensitivity float64    `yaml:"wheel_sensitivity"`
	WheelStep        float64    `yaml:"wheel_step"`
	BrushMode        string     `yaml:"brush_mode"`
	Ticks            TickConfig `yaml:"ticks"`
	DetailLines      []string   `yaml:"detail_lines"`
	Presets          []Preset   `yaml:"presets,omitempty"`
	Theme            string     `yaml:"theme"`

	// path is the file the config was read from; empty for defaults
	path string
}

// Default returns the built-in configuration
func Default() Config {
	opts := ticks.DefaultOptions()
	return Config{
		Overview:         Bounds{-100, 100},
		Selection:        Bounds{-10, 10},
		Padding:          engine.DefaultPadding,
		WheelSensitivity: engine.DefaultSensitivity,
		WheelStep:        DefaultWheelStep,
		BrushMode:        engine.BrushOnEnd.String(),
		Ticks: TickConfig{
			Denominators: opts.Denominators,
			Min:          opts.Min,
			Max:          opts.Max,
		},
		DetailLines: []string{render.AxisFraction.String(), render.AxisDecimal.String()},
		Presets: []Preset{
			{Name: "unit interval", Overview: Bounds{-1, 2}, Selection: Bounds{0, 1}},
			{Name: "eighths", Overview: Bounds{-4, 4}, Selection: Bounds{0, 2}},
			{Name: "hundreds", Overview: Bounds{-1000, 1000}, Selection: Bounds{-100, 100}},
		},
		Theme: "dark",
	}
}

// Path returns the file the config was loaded from, or "" for defaults
func (c Config) Path() string {
	return c.path
}

// Load resolves the config: path if given, else ./.numberline.yaml if it
// exists, else the defaults.
func Load(path string) (Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return LoadFile(DefaultFileName)
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("checking %s: %w", DefaultFileName, err)
	}
	return Default(), nil
}

// LoadFile reads a YAML config. Fields missing from the file keep their
// default values.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Lists in
// the file replace the default lists. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories as needed
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate reports every problem found in the config
func (c Config) Validate() error {
	var errs []error
	check := func(name string, b Bounds) {
		if err := b.Range().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	check("overview", c.Overview)
	check("selection", c.Selection)
	if c.Padding < 0 || c.Padding >= 0.5 || !model.IsFinite(c.Padding) {
		errs = append(errs, fmt.Errorf("padding %v must be in [0, 0.5)", c.Padding))
	}
	if c.WheelSensitivity <= 0 || !model.IsFinite(c.WheelSensitivity) {
		errs = append(errs, fmt.Errorf("wheel_sensitivity %v must be positive", c.WheelSensitivity))
	}
	if c.WheelStep <= 0 || !model.IsFinite(c.WheelStep) {
		errs = append(errs, fmt.Errorf("wheel_step %v must be positive", c.WheelStep))
	}
	if _, err := engine.ParseBrushMode(c.BrushMode); err != nil {
		errs = append(errs, err)
	}
	for _, d := range c.Ticks.Denominators {
		if d < 1 {
			errs = append(errs, fmt.Errorf("ticks.denominators: %d is not a positive integer", d))
		}
	}
	if c.Ticks.Min < 0 || c.Ticks.Max < 0 || (c.Ticks.Max > 0 && c.Ticks.Min > c.Ticks.Max) {
		errs = append(errs, fmt.Errorf("ticks: min %d / max %d is not a valid window", c.Ticks.Min, c.Ticks.Max))
	}
	if len(c.DetailLines) == 0 {
		errs = append(errs, errors.New("detail_lines: at least one line is required"))
	}
	for _, k := range c.DetailLines {
		if _, err := render.ParseAxisKind(k); err != nil {
			errs = append(errs, fmt.Errorf("detail_lines: %w", err))
		}
	}
	seen := make(map[string]bool)
	for i, p := range c.Presets {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("presets[%d]: name is required", i))
		} else if seen[name] {
			errs = append(errs, fmt.Errorf("presets[%d]: duplicate name %q", i, name))
		}
		seen[name] = true
		check(fmt.Sprintf("presets[%d].overview", i), p.Overview)
		check(fmt.Sprintf("presets[%d].selection", i), p.Selection)
	}
	switch c.Theme {
	case "", "dark", "light":
	default:
		errs = append(errs, fmt.Errorf("theme %q must be \"dark\" or \"light\"", c.Theme))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Conversions
// ═══════════════════════════════════════════════════════════════════════════

// InitialState returns the configured initial state. The selection is not
// required to fit the overview; the store's enforcement widens it.
func (c Config) InitialState() model.State {
	return model.State{Overview: c.Overview.Range(), Selection: c.Selection.Range()}
}

// Settings returns the gesture settings
func (c Config) Settings() engine.Settings {
	mode, _ := engine.ParseBrushMode(c.BrushMode)
	return engine.Settings{
		Padding:     c.Padding,
		Sensitivity: c.WheelSensitivity,
		BrushMode:   mode,
	}
}

// TickOptions returns the solver options
func (c Config) TickOptions() ticks.Options {
	return ticks.Options{
		Denominators: append([]int(nil), c.Ticks.Denominators...),
		Min:          c.Ticks.Min,
		Max:          c.Ticks.Max,
	}
}

// AxisKinds returns the parsed detail line kinds
func (c Config) AxisKinds() []render.AxisKind {
	out := make([]render.AxisKind, 0, len(c.DetailLines))
	for _, s := range c.DetailLines {
		if k, err := render.ParseAxisKind(s); err == nil {
			out = append(out, k)
		}
	}
	return out
}

// RenderOptions returns layout options for a drawing of the given width
func (c Config) RenderOptions(width float64) render.Options {
	opts := render.DefaultOptions()
	opts.Width = width
	opts.Padding = c.Padding
	opts.DetailLines = c.AxisKinds()
	opts.Ticks = c.TickOptions()
	return opts
}

// Preset finds a preset by name (case-insensitive)
func (c Config) Preset(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetNames lists preset names in file order
func (c Config) PresetNames() []string {
	names := make([]string, len(c.Presets))
	for i, p := range c.Presets {
		names[i] = p.Name
	}
	return names
}
