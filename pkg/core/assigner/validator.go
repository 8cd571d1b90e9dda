package assigner

import (
	"fmt"
	"slices"

	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// SlotViolation describes a hard constraint broken by the content of a grid.
// PostIndex is -1 for violations that concern a whole day.
type SlotViolation struct {
	Day         int
	PostIndex   int
	Post        string
	ID          string
	Rule        string
	Description string
}

// ValidateGrid checks the assignments present in g against the profiles:
// absences, excluded weekdays, excluded posts, the weekend cap and at most
// one post per day outside associated posts. Cells naming unknown people,
// unavailable cells and cells excluded from count are ignored.
func ValidateGrid(g grid.Grid, profiles []profile.ConstraintProfile, settings Settings, holidays calendar.HolidaySet) []SlotViolation {
	return validate(g, profiles, settings.Normalized(), GridDays(g, holidays))
}

func validate(g grid.Grid, profiles []profile.ConstraintProfile, settings Settings, days []calendar.DayInfo) []SlotViolation {
	violations := []SlotViolation{}
	byID := make(map[string]*profile.ConstraintProfile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}
	known := profile.IDs(profiles)
	posts := g.Posts()
	weekendDays := make(map[string]int)

	for _, info := range days {
		held := make(map[string][]int)

		for postIndex, post := range posts {
			if !g.IsAvailable(info.Day, postIndex) || g.IsExcludedFromCount(info.Day, postIndex) {
				continue
			}
			value, err := g.Get(info.Day, postIndex)
			if err != nil {
				continue
			}

			for _, id := range grid.ExtractNames(value, known) {
				p := byID[id]
				held[id] = append(held[id], postIndex)
				violation := SlotViolation{Day: info.Day, PostIndex: postIndex, Post: post, ID: id}

				if p.IsAbsent(info.Day) {
					violation.Rule = RuleAbsence
					violation.Description = fmt.Sprintf("%s is absent on day %d", id, info.Day)
					violations = append(violations, violation)
				}
				if p.ExcludesWeekday(info.Weekday) {
					violation.Rule = RuleExcludedWeekday
					violation.Description = fmt.Sprintf("%s does not work on %s", id, info.Weekday)
					violations = append(violations, violation)
				}
				if p.Excludes(post) {
					violation.Rule = RuleExcludedPost
					violation.Description = fmt.Sprintf("%s does not work post %s", id, post)
					violations = append(violations, violation)
				}
			}
		}

		// Map order does not matter for the content, but keep the report stable
		ids := make([]string, 0, len(held))
		for id := range held {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		for _, id := range ids {
			postIndices := held[id]
			if unlinkedPair(byID[id], postIndices) {
				violations = append(violations, SlotViolation{
					Day:         info.Day,
					PostIndex:   -1,
					ID:          id,
					Rule:        RuleOnePostPerDay,
					Description: fmt.Sprintf("%s holds %d unrelated posts on day %d", id, len(postIndices), info.Day),
				})
			}

			if info.Type != calendar.Weekend {
				continue
			}
			weekendDays[id]++
			if settings.LimitWeekendDays && weekendDays[id] > settings.MaxWeekendDays {
				violations = append(violations, SlotViolation{
					Day:         info.Day,
					PostIndex:   -1,
					ID:          id,
					Rule:        RuleWeekendCap,
					Description: fmt.Sprintf("%s exceeds %d weekend days", id, settings.MaxWeekendDays),
				})
			}
		}
	}
	return violations
}

// unlinkedPair reports whether two of the posts held on one day are not
// associated for the profile
func unlinkedPair(p *profile.ConstraintProfile, postIndices []int) bool {
	for i := 0; i < len(postIndices); i++ {
		for j := i + 1; j < len(postIndices); j++ {
			if !p.IsAssociated(postIndices[i], postIndices[j]) {
				return true
			}
		}
	}
	return false
}
