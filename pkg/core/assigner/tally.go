package assigner

import (
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// Tally is the workload of one profile: distinct days per pool in the last
// month and cumulated over every month supplied
type Tally struct {
	ID         string
	Month      PoolCounts
	Cumulative PoolCounts
}

// CountPoolDays returns the distinct days per pool each known profile holds in g
func CountPoolDays(g grid.Grid, profiles []profile.ConstraintProfile, holidays calendar.HolidaySet) map[string]PoolCounts {
	ledger := SeedLedger(g, profiles, GridDays(g, holidays))
	counts := make(map[string]PoolCounts, len(profiles))
	for _, p := range profiles {
		counts[p.ID] = ledger.Counts(p.ID)
	}
	return counts
}

// TallyMonths counts every month in order; the last one is the current month.
// Holidays that cannot be looked up are treated as none.
func TallyMonths(months []grid.Grid, profiles []profile.ConstraintProfile, holidays calendar.HolidayProvider) []Tally {
	tallies := make([]Tally, len(profiles))
	for i, p := range profiles {
		tallies[i].ID = p.ID
	}

	for m, g := range months {
		year, month := g.Period()
		set, _ := calendar.ResolveHolidays(holidays, year, month)
		counts := CountPoolDays(g, profiles, set)

		for i := range tallies {
			c := counts[tallies[i].ID]
			tallies[i].Cumulative = tallies[i].Cumulative.Plus(c)
			if m == len(months)-1 {
				tallies[i].Month = c
			}
		}
	}
	return tallies
}
