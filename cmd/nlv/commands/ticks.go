package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/numberline_viewer/pkg/model"
	"github.com/Dicklesworthstone/numberline_viewer/pkg/ticks"
)

func ticksCmd(opts *rootOptions) *cobra.Command {
	var (
		minTicks     int
		maxTicks     int
		denominators []int
	)

	cmd := &cobra.Command{
		Use:   "ticks LO HI",
		Short: "Show the tick denominator chosen for a range",
		Long: "Prints the strategy, denominator and ticks the solver picks for [LO, HI].\n" +
			"Bounds may be decimals, fractions or mixed numbers. Use -- before a\n" +
			"negative bound, e.g. nlv ticks -- -1/2 3/4.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lo, err := ticks.ParseValue(args[0])
			if err != nil {
				return fmt.Errorf("LO: %w", err)
			}
			hi, err := ticks.ParseValue(args[1])
			if err != nil {
				return fmt.Errorf("HI: %w", err)
			}
			r := model.NewRange(lo, hi)
			if err := r.Validate(); err != nil {
				return err
			}

			to := opts.cfg.TickOptions()
			if cmd.Flags().Changed("min") {
				to.Min = minTicks
			}
			if cmd.Flags().Changed("max") {
				to.Max = maxTicks
			}
			if cmd.Flags().Changed("den") {
				to.Denominators = denominators
			}

			solver := ticks.NewSolver(to)
			res := solver.Solve(r)
			writeResult(cmd, r, res)
			return nil
		},
	}

	cmd.Flags().IntVar(&minTicks, "min", ticks.DefaultMinTicks, "minimum tick count")
	cmd.Flags().IntVar(&maxTicks, "max", ticks.DefaultMaxTicks, "maximum tick count")
	cmd.Flags().IntSliceVar(&denominators, "den", nil, "denominators in preference order (default from config)")
	return cmd
}

func writeResult(cmd *cobra.Command, r model.Range, res ticks.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "range:       %s\n", r)
	fmt.Fprintf(out, "strategy:    %s\n", res.Strategy)
	if res.Denominator > 0 {
		fmt.Fprintf(out, "denominator: %d\n", res.Denominator)
	}
	fmt.Fprintf(out, "count:       %d\n", len(res.Ticks))

	labels := make([]string, len(res.Ticks))
	for i, t := range res.Ticks {
		labels[i] = t.Label
	}
	fmt.Fprintf(out, "ticks:       %s\n", strings.Join(labels, "  "))
}
