package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-rota/pkg/core/services"
)

// InitCmd creates the init command
func InitCmd(app *AppContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <year> <month> <post> [post...]",
		Short: "Create a workspace for a month with the given posts",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseYearMonth(args[0], args[1])
			if err != nil {
				return err
			}

			ws, err := services.InitWorkspace(app.Ctx, app.Store, app.Logger, year, month, args[2:], force)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Workspace created for %s %d with posts %v\n", ws.Month, ws.Year, ws.Posts)
			fmt.Fprintf(cmd.OutOrStdout(), "Add people under 'profiles' in %s, then run 'assign'.\n\n", app.Cfg.WorkspacePath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing workspace")

	return cmd
}

// AdvanceCmd creates the advance command
func AdvanceCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Archive the current month and start the next one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := services.AdvanceMonth(app.Ctx, app.Store, app.Logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Now working on %s %d (%d months of history)\n\n", ws.Month, ws.Year, len(ws.History))
			return nil
		},
	}
}
