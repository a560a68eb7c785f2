package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/version"
)

func versionCmd(opts *rootOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the nlv version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nlv %s\n", version.Version)
			if !check {
				return nil
			}

			tag, url, err := opts.checker.CheckForUpdates(cmd.Context())
			if err != nil {
				return err
			}
			if tag == "" {
				fmt.Fprintln(out, "You are running the latest release.")
				return nil
			}
			fmt.Fprintf(out, "Update available: %s\n%s\n", tag, url)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
