package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// CountsCmd creates the counts command
func CountsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "counts",
		Short: "Show weekday and weekend counts per person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.CountAssignments(app.Ctx, app.Store, app.Logger, services.RunOptions{
				Settings: app.Cfg.AssignmentSettings(),
				Holidays: app.Holidays,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n%s %d (totals over %d months)\n\n", result.Month, result.Year, result.Months)
			renderTallies(out, result.Tallies, result.Targets)
			fmt.Fprintln(out)
			return nil
		},
	}
}
