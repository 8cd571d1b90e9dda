package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/assigner"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/workspace"
)

// AssignmentResult represents the result of filling the current month
type AssignmentResult struct {
	RunID   string
	Seed    string
	Grid    *grid.MonthGrid
	Outcome *assigner.Outcome
	Saved   bool
}

// RunAssignment fills the empty slots of the workspace's current month.
// Unless opts.DryRun is set, the filled grid and a run record are saved back
// to the store.
func RunAssignment(ctx context.Context, store workspace.Store, logger *zap.Logger, opts RunOptions) (*AssignmentResult, error) {
	runID := uuid.New().String()
	seed := resolveSeed(opts.Seed)
	logger = logger.With(zap.String("run_id", runID))

	logger.Debug("Loading workspace")
	ws, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	profiles := ws.ParsedProfiles()
	if len(profiles) == 0 {
		logger.Warn("Workspace has no profiles, nothing will be assigned")
	}

	g := ws.CurrentGrid()
	if opts.DryRun {
		g = g.Clone()
	}

	logger.Info("Assigning month",
		zap.Int("year", ws.Year),
		zap.Stringer("month", ws.Month),
		zap.Int("profiles", len(profiles)),
		zap.String("seed", seed),
		zap.Bool("dry_run", opts.DryRun))

	startedAt := now()
	outcome := assigner.Assign(g, profiles, opts.Settings, assigner.Options{
		Rand:     NewRand(seed),
		Logger:   logger,
		Holidays: opts.Holidays,
	})

	logger.Info("Assignment finished",
		zap.Int("filled", len(outcome.Filled)),
		zap.Int("unfilled", len(outcome.Unfilled)),
		zap.Int("violations", len(outcome.Violations)))
	for _, v := range outcome.Violations {
		logger.Warn("Grid violation", zap.Int("day", v.Day), zap.String("rule", v.Rule), zap.String("description", v.Description))
	}

	result := &AssignmentResult{
		RunID:   runID,
		Seed:    seed,
		Grid:    g,
		Outcome: outcome,
	}
	if opts.DryRun {
		return result, nil
	}

	ws.AddRun(workspace.RunRecord{
		ID:         runID,
		Kind:       workspace.RunAssign,
		StartedAt:  startedAt,
		Seed:       seed,
		Filled:     len(outcome.Filled),
		Unfilled:   len(outcome.Unfilled),
		Violations: len(outcome.Violations),
	})

	logger.Debug("Saving workspace")
	if err := store.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}
	result.Saved = true

	return result, nil
}
