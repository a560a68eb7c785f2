package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/export"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/render"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		outputs   []string
		format    string
		width     float64
		theme     string
		title     string
		preset    string
		selection string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write SVG or PNG snapshots of the numberlines",
		Long: "Writes one snapshot per -o flag. The format follows the file extension\n" +
			"unless --format is given. Several outputs are written concurrently.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(outputs) == 0 {
				return errors.New("at least one output is required (-o file.svg)")
			}
			for _, p := range outputs {
				if _, err := export.FormatFor(p, format); err != nil {
					return err
				}
			}

			state, err := opts.startState(preset, selection)
			if err != nil {
				return err
			}
			pal, err := paletteFor(theme, opts.cfg.Theme)
			if err != nil {
				return err
			}
			if title == "" {
				title = "Numberline " + state.Overview.String()
			}

			base := export.SnapshotOptions{
				Format:  format,
				Layout:  render.New(state, opts.cfg.RenderOptions(width)),
				Title:   title,
				Palette: &pal,
			}
			if err := export.SaveAll(cmd.Context(), base, outputs); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			for _, p := range outputs {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&outputs, "output", "o", nil, "output file (.svg or .png), repeatable")
	cmd.Flags().StringVar(&format, "format", "", "force the format for every output (svg|png)")
	cmd.Flags().Float64Var(&width, "width", render.DefaultWidth, "image width in pixels")
	cmd.Flags().StringVar(&theme, "theme", "", "palette (light|dark, default from config)")
	cmd.Flags().StringVar(&title, "title", "", "snapshot title")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	cmd.Flags().StringVar(&selection, "select", "", "selection to draw, e.g. \"1/4, 3/4\"")
	return cmd
}

// paletteFor picks the export palette from a flag, falling back to the
// config theme.
func paletteFor(flag, configured string) (export.Palette, error) {
	name := flag
	if name == "" {
		name = configured
	}
	switch name {
	case "", "light":
		return export.LightPalette(), nil
	case "dark":
		return export.DarkPalette(), nil
	}
	return export.Palette{}, fmt.Errorf("unknown theme %q (want light or dark)", name)
}
