package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/assigner"
	"github.com/jakechorley/duty-rota/pkg/core/balancer"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/workspace"
)

// BalanceResult represents the result of rebalancing the current month
type BalanceResult struct {
	RunID      string
	Grid       *grid.MonthGrid
	Changes    balancer.ChangeLog
	Violations []assigner.SlotViolation
	Saved      bool
}

// RunLocalBalance swaps occupants of the current month to even out the
// cumulative weekday and weekend counts over the workspace history.
// opts.Seed is not used: the balancer is deterministic.
func RunLocalBalance(ctx context.Context, store workspace.Store, logger *zap.Logger, opts RunOptions) (*BalanceResult, error) {
	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))

	logger.Debug("Loading workspace")
	ws, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	profiles := ws.ParsedProfiles()
	months := ws.Months()
	current := ws.CurrentGrid()
	if opts.DryRun {
		current = current.Clone()
		months[len(months)-1] = current
	}

	logger.Info("Balancing month",
		zap.Int("year", ws.Year),
		zap.Stringer("month", ws.Month),
		zap.Int("history_months", len(ws.History)),
		zap.Bool("dry_run", opts.DryRun))

	startedAt := now()
	changes := balancer.Balance(months, profiles, opts.Settings, balancer.Options{
		Logger:   logger,
		Holidays: opts.Holidays,
	})

	violations := assigner.ValidateGrid(current, profiles, opts.Settings, monthHolidays(current, opts.Holidays, logger))
	logger.Info("Balancing finished",
		zap.Int("swaps", changes.Swaps()),
		zap.Int("violations", len(violations)))

	result := &BalanceResult{
		RunID:      runID,
		Grid:       current,
		Changes:    changes,
		Violations: violations,
	}
	if opts.DryRun {
		return result, nil
	}

	ws.AddRun(workspace.RunRecord{
		ID:         runID,
		Kind:       workspace.RunBalance,
		StartedAt:  startedAt,
		Swaps:      changes.Swaps(),
		Violations: len(violations),
	})

	logger.Debug("Saving workspace")
	if err := store.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}
	result.Saved = true

	return result, nil
}
