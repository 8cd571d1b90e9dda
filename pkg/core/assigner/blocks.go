package assigner

import (
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// runBlockPass gives each Friday-Sunday trio of a block post to a single
// profile where possible, before the general pass
func (r *run) runBlockPass(blockPosts []int) {
	year, month := r.grid.Period()
	for _, trio := range calendar.WeekendTrios(year, month) {
		for _, post := range blockPosts {
			r.resolveTrio(trio, post)
		}
	}
}

func (r *run) resolveTrio(trio calendar.Trio, post int) {
	occupant := ""
	var open []Slot

	for _, day := range trio.Days() {
		info, ok := r.byDay[day]
		if !ok {
			return
		}
		if grid.IsOpen(r.grid, day, post) {
			open = append(open, newSlot(info, post, r.posts[post]))
			continue
		}
		if occupant != "" {
			continue
		}
		value, err := r.grid.Get(day, post)
		if err != nil {
			continue
		}
		if names := grid.ExtractNames(value, r.known); len(names) > 0 {
			occupant = names[0]
		}
	}

	if len(open) == 0 {
		return
	}

	if occupant != "" {
		r.extendBlock(trio, occupant, open)
		return
	}

	candidates := make([]candidate, 0, len(r.profiles))
	for i := range r.profiles {
		p := &r.profiles[i]
		if r.blockEligible(p, trio, open) {
			candidates = append(candidates, candidate{profile: p, preferred: p.Prefers(r.posts[post])})
		}
	}

	winner := r.pickWinner(candidates, open[0])
	if winner == nil {
		r.logger.Debug("No profile available for the whole weekend",
			zap.Int("friday", trio.Friday),
			zap.String("post", r.posts[post]))
		return
	}

	for _, slot := range open {
		if r.commit(winner, slot, SourceBlock) {
			r.propagate(winner, slot)
		}
	}
}

// extendBlock copies the trio's existing occupant onto the open days it is
// eligible for
func (r *run) extendBlock(trio calendar.Trio, occupant string, open []Slot) {
	p := r.profileByID(occupant)
	if p == nil || !r.trioBoundaryAllows(p, trio, open[0].PostIndex) {
		return
	}
	for _, slot := range open {
		if !allows(r.rules, p, slot, r.ledger, r.settings, consecutiveDayRules...) {
			continue
		}
		if r.commit(p, slot, SourceBlock) {
			r.propagate(p, slot)
		}
	}
}

// blockEligible checks p against every open day of the trio at once. The
// weekend cap is checked for all the new days together.
func (r *run) blockEligible(p *profile.ConstraintProfile, trio calendar.Trio, open []Slot) bool {
	skips := append([]string{RuleWeekendCap}, consecutiveDayRules...)
	for _, slot := range open {
		if !allows(r.rules, p, slot, r.ledger, r.settings, skips...) {
			return false
		}
	}
	if !r.trioBoundaryAllows(p, trio, open[0].PostIndex) {
		return false
	}
	if !r.settings.LimitWeekendDays {
		return true
	}
	return r.ledger.Count(p.ID, calendar.Weekend)+len(open) <= r.settings.MaxWeekendDays
}

// consecutiveDayRules do not apply between the days of one trio, which are
// meant to be held together
var consecutiveDayRules = []string{RuleRestAfterDuty, RuleDifferentPostPerDay}

// trioBoundaryAllows applies the consecutive-day rules to the Thursday
// before and the Monday after the trio
func (r *run) trioBoundaryAllows(p *profile.ConstraintProfile, trio calendar.Trio, post int) bool {
	before, after := trio.Friday-1, trio.Friday+3
	if r.settings.RestAfterDuty && (r.ledger.HoldsAny(p.ID, before) || r.ledger.HoldsAny(p.ID, after)) {
		return false
	}
	if r.settings.DifferentPostPerDay && (r.ledger.Holds(p.ID, before, post) || r.ledger.Holds(p.ID, after, post)) {
		return false
	}
	return true
}
