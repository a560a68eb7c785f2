package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/config"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/engine"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/ui"
)

func initCmd(opts *rootOptions) *cobra.Command {
	var (
		force    bool
		defaults bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file",
		Long: "Asks for the initial ranges and display options and writes them to\n" +
			"the --config path (default ./" + config.DefaultFileName + ").",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				path = config.DefaultFileName
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default()
			if !defaults {
				if err := runInitForm(&cfg); err != nil {
					return err
				}
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "write the defaults without asking")
	return cmd
}

// initAnswers holds the form fields as typed by the user
type initAnswers struct {
	overview    string
	selection   string
	brushMode   string
	theme       string
	detailLines []string
}

func runInitForm(cfg *config.Config) error {
	a := initAnswers{
		overview:    cfg.Overview.Range().String(),
		selection:   cfg.Selection.Range().String(),
		brushMode:   cfg.BrushMode,
		theme:       cfg.Theme,
		detailLines: cfg.DetailLines,
	}
	// Range.String brackets the bounds; the form takes them bare
	a.overview = trimBrackets(a.overview)
	a.selection = trimBrackets(a.selection)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Overview range").
				Description("lo, hi (fractions allowed)").
				Value(&a.overview).
				Validate(validateRange),
			huh.NewInput().
				Title("Initial selection").
				Description("lo, hi inside the overview").
				Value(&a.selection).
				Validate(validateRange),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Brush mode").
				Options(
					huh.NewOption("update when the drag ends", engine.BrushOnEnd.String()),
					huh.NewOption("update while dragging", engine.BrushContinuous.String()),
				).
				Value(&a.brushMode),
			huh.NewMultiSelect[string]().
				Title("Detail lines").
				Options(huh.NewOptions(render.AxisFraction.String(), render.AxisDecimal.String())...).
				Value(&a.detailLines).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one detail line")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions("dark", "light")...).
				Value(&a.theme),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return fmt.Errorf("init form: %w", err)
	}
	return a.apply(cfg)
}

// apply copies validated answers into cfg
func (a initAnswers) apply(cfg *config.Config) error {
	ov, err := ui.ParseRange(a.overview)
	if err != nil {
		return fmt.Errorf("overview: %w", err)
	}
	sel, err := ui.ParseRange(a.selection)
	if err != nil {
		return fmt.Errorf("selection: %w", err)
	}
	cfg.Overview = config.BoundsOf(ov)
	cfg.Selection = config.BoundsOf(sel)
	cfg.BrushMode = a.brushMode
	cfg.Theme = a.theme
	cfg.DetailLines = append([]string(nil), a.detailLines...)
	return cfg.Validate()
}

func validateRange(s string) error {
	_, err := ui.ParseRange(s)
	return err
}

func trimBrackets(s string) string {
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return s[1 : len(s)-1]
	}
	return s
}
