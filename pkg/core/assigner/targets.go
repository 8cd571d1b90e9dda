package assigner

import (
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// GridDays classifies the days of the grid rows. Rows whose day number is
// not a day of the grid's month are left out.
func GridDays(g grid.Grid, holidays calendar.HolidaySet) []calendar.DayInfo {
	year, month := g.Period()
	days := make([]calendar.DayInfo, 0, g.RowCount())
	for row := 0; row < g.RowCount(); row++ {
		day, ok := g.DayNumber(row)
		if !ok {
			continue
		}
		if info, ok := calendar.Describe(year, month, day, holidays); ok {
			days = append(days, info)
		}
	}
	return days
}

// OpenSlots lists the slots the engine may fill, in grid order
func OpenSlots(g grid.Grid, days []calendar.DayInfo) []Slot {
	posts := g.Posts()
	var open []Slot
	for _, info := range days {
		for i, post := range posts {
			if grid.IsOpen(g, info.Day, i) {
				open = append(open, newSlot(info, i, post))
			}
		}
	}
	return open
}

// ComputeTargets sets each profile's target per pool to its participation
// times the open slots of that pool falling on a weekday it works
func ComputeTargets(profiles []profile.ConstraintProfile, open []Slot) TargetMap {
	targets := make(TargetMap, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		var workable PoolCounts
		for _, slot := range open {
			if !p.ExcludesWeekday(slot.Weekday) {
				workable.add(slot.Type, 1)
			}
		}
		targets[p.ID] = PoolTargets{
			Weekday: max(0, p.Participation*float64(workable.Weekday)),
			Weekend: max(0, p.Participation*float64(workable.Weekend)),
		}
	}
	return targets
}
