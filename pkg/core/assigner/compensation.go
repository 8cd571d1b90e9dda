package assigner

import (
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
)

// CompensationRegister lists, per post and day, the profiles whose score is
// raised by the compensation malus on that slot
type CompensationRegister map[int]map[int]map[string]bool

// Penalizes reports whether id is penalized on (post, day). A nil register
// penalizes nobody.
func (r CompensationRegister) Penalizes(post, day int, id string) bool {
	return r[post][day][id]
}

func (r CompensationRegister) add(post, day int, id string) {
	if r[post] == nil {
		r[post] = make(map[int]map[string]bool)
	}
	if r[post][day] == nil {
		r[post][day] = make(map[string]bool)
	}
	r[post][day][id] = true
}

// BuildCompensation scans the weekend trios of the block posts. Every trio
// held by a single profile on all three days penalizes that profile on the
// nearest weekday-type days before the Friday and after the Sunday, at the
// same post, up to window days on each side and within the month.
func BuildCompensation(g grid.Grid, days []calendar.DayInfo, blockPosts []int, known map[string]bool, window int) CompensationRegister {
	register := make(CompensationRegister)
	if len(blockPosts) == 0 {
		return register
	}

	byDay := make(map[int]calendar.DayInfo, len(days))
	for _, info := range days {
		byDay[info.Day] = info
	}

	year, month := g.Period()
	for _, trio := range calendar.WeekendTrios(year, month) {
		for _, post := range blockPosts {
			holder, ok := trioHolder(g, trio, post, known)
			if !ok {
				continue
			}
			for _, day := range nearestWeekdays(byDay, trio.Friday-1, -1, window) {
				register.add(post, day, holder)
			}
			for _, day := range nearestWeekdays(byDay, trio.Friday+3, 1, window) {
				register.add(post, day, holder)
			}
		}
	}
	return register
}

// trioHolder returns the profile holding the post on all three days of the trio
func trioHolder(g grid.Grid, trio calendar.Trio, post int, known map[string]bool) (string, bool) {
	holder := ""
	for _, day := range trio.Days() {
		value, err := g.Get(day, post)
		if err != nil {
			return "", false
		}
		names := grid.ExtractNames(value, known)
		if len(names) != 1 {
			return "", false
		}
		if holder != "" && names[0] != holder {
			return "", false
		}
		holder = names[0]
	}
	return holder, holder != ""
}

// nearestWeekdays walks from start in direction step and collects up to
// limit weekday-type days, stopping at the month boundary
func nearestWeekdays(byDay map[int]calendar.DayInfo, start, step, limit int) []int {
	var found []int
	for day := start; len(found) < limit; day += step {
		info, ok := byDay[day]
		if !ok {
			break
		}
		if info.Type == calendar.Weekday {
			found = append(found, day)
		}
	}
	return found
}
