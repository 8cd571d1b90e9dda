package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// BalanceCmd creates the balance command
func BalanceCmd(app *AppContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Swap filled slots of the current month to even out cumulative counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("balance command", zap.Bool("dry_run", dryRun))

			result, err := services.RunLocalBalance(app.Ctx, app.Store, app.Logger, services.RunOptions{
				Settings: app.Cfg.AssignmentSettings(),
				Holidays: app.Holidays,
				DryRun:   dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Changes) == 0 {
				fmt.Fprintln(out, "\nNo swap improves the balance")
				return nil
			}

			fmt.Fprintf(out, "\n%d swaps:\n", result.Changes.Swaps())
			for i := 0; i+1 < len(result.Changes); i += 2 {
				a, b := result.Changes[i], result.Changes[i+1]
				fmt.Fprintf(out, "  %2d %-10s %s -> %s   %2d %-10s %s -> %s\n",
					a.Day, a.Post, a.Old, a.New, b.Day, b.Post, b.Old, b.New)
			}
			for _, v := range result.Violations {
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

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the swaps without saving them")

	return cmd
}
