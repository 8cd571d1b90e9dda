package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	var seed string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Fill the empty slots of the current month",
		Long: `Fill every open slot of the current month with an eligible person, balancing
weekday and weekend load by participation. Existing entries are never changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("assign command", zap.String("seed", seed), zap.Bool("dry_run", dryRun))

			result, err := services.RunAssignment(app.Ctx, app.Store, app.Logger, services.RunOptions{
				Settings: app.Cfg.AssignmentSettings(),
				Holidays: app.Holidays,
				Seed:     seed,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			year, month := result.Grid.Period()
			fmt.Fprintf(out, "\n%s %d\n\n", month, year)
			renderGrid(out, result.Grid, services.MonthCalendar(year, month, app.Holidays, app.Logger))

			fmt.Fprintf(out, "\nFilled %d slots", len(result.Outcome.Filled))
			if len(result.Outcome.Unfilled) > 0 {
				fmt.Fprintf(out, ", %s%d left empty%s", colorRed, len(result.Outcome.Unfilled), colorReset)
			}
			fmt.Fprintf(out, " (seed %q)\n", result.Seed)

			for _, slot := range result.Outcome.Unfilled {
				fmt.Fprintf(out, "  %s%2d %s  %s%s\n", colorDim, slot.Day, slot.Weekday.String()[:3], slot.Post, colorReset)
			}
			for _, v := range result.Outcome.Violations {
				fmt.Fprintf(out, "  %s! %s%s\n", colorYellow, v.Description, colorReset)
			}

			if result.Saved {
				fmt.Fprintf(out, "\n✓ Saved (run %s)\n\n", result.RunID)
			} else {
				fmt.Fprintf(out, "\nDry run, nothing saved\n\n")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&seed, "seed", "", "Seed for reproducible runs (default: derived from the clock)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")

	return cmd
}
