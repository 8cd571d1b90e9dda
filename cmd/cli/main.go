package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/cmd/cli/commands"
	"github.com/jakechorley/duty-rota/internal/config"
	"github.com/jakechorley/duty-rota/pkg/utils/logging"
	"github.com/jakechorley/duty-rota/pkg/workspace"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Duty rota CLI - Fill and balance monthly duty rosters",
		Long: `A CLI tool that fills a monthly duty roster from people's constraints and
participation, and rebalances weekday and weekend load over the months.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment, selects duty_config.<env>.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")

	rootCmd.AddCommand(commands.InitCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.BalanceCmd(app))
	rootCmd.AddCommand(commands.CountsCmd(app))
	rootCmd.AddCommand(commands.HolidaysCmd(app))
	rootCmd.AddCommand(commands.AdvanceCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, holidays and the workspace store
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Holidays, err = app.Cfg.HolidayProvider()
	if err != nil {
		return fmt.Errorf("failed to set up holidays: %w", err)
	}

	app.Store = workspace.NewFileStore(app.Cfg.WorkspacePath)
	app.Logger.Debug("Workspace store ready", zap.String("path", app.Cfg.WorkspacePath))

	return nil
}
