package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/ui"
)

// fallbackWidth is used when stdout is not a terminal
const fallbackWidth = 80

func renderCmd(opts *rootOptions) *cobra.Command {
	var (
		width     int
		preset    string
		selection string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the numberlines once, without interaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := opts.startState(preset, selection)
			if err != nil {
				return err
			}
			if width <= 0 {
				width = terminalWidth()
			}
			out := cmd.OutOrStdout()
			theme := ui.DefaultTheme(lipgloss.NewRenderer(out), opts.cfg.Theme)
			fmt.Fprintln(out, ui.RenderStatic(opts.cfg, state, width, theme))
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 0, "output width in cells (default: terminal width)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	cmd.Flags().StringVar(&selection, "select", "", "selection to draw, e.g. \"1/4, 3/4\"")
	return cmd
}

// terminalWidth returns the width of stdout, or fallbackWidth
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallbackWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallbackWidth
	}
	return w
}
