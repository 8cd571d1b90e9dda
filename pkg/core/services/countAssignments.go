package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/assigner"
	"github.com/jakechorley/duty-rota/pkg/core/balancer"
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/workspace"
)

// CountsResult holds the per-profile day counts of the workspace
type CountsResult struct {
	Year    int
	Month   time.Month
	Months  int
	Tallies []assigner.Tally

	// Targets are the cumulative targets the balancer works towards
	Targets assigner.TargetMap
}

// CountAssignments tallies weekday and weekend days per profile for the
// current month and cumulatively over the history. Only opts.Holidays and
// opts.Settings are used.
func CountAssignments(ctx context.Context, store workspace.Reader, logger *zap.Logger, opts RunOptions) (*CountsResult, error) {
	logger.Debug("Loading workspace")
	ws, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}

	months := ws.Months()
	profiles := ws.ParsedProfiles()
	tallies := assigner.TallyMonths(months, profiles, opts.Holidays)
	logger.Debug("Counted assignments", zap.Int("profiles", len(tallies)), zap.Int("months", len(months)))

	cumulative := make(map[string]assigner.PoolCounts, len(tallies))
	for _, tally := range tallies {
		cumulative[tally.ID] = tally.Cumulative
	}
	targets := balancer.ComputeTargets(profiles, func(id string) assigner.PoolCounts {
		return cumulative[id]
	}, opts.Settings.Normalized().ReferenceParticipation)

	return &CountsResult{
		Year:    ws.Year,
		Month:   ws.Month,
		Months:  len(months),
		Tallies: tallies,
		Targets: targets,
	}, nil
}

// MonthCalendar classifies every day of a month, including the days turned
// into weekend days by holidays and holiday eves
func MonthCalendar(year int, month time.Month, holidays calendar.HolidayProvider, logger *zap.Logger) []calendar.DayInfo {
	set, err := calendar.ResolveHolidays(holidays, year, month)
	if err != nil {
		logger.Warn("Holiday lookup failed, using weekday rules only", zap.Error(err))
	}
	return calendar.Month(year, month, set)
}
