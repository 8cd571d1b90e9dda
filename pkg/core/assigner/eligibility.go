package assigner

import (
	"slices"

	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// Rule is one hard constraint on placing a profile into a slot.
// A rule that returns false vetoes the placement.
type Rule interface {
	// Name returns a human-readable identifier for this rule
	Name() string

	// Allows reports whether the profile may take the slot given what the
	// ledger already records for the month
	Allows(p *profile.ConstraintProfile, slot Slot, ledger *Ledger, settings Settings) bool
}

const (
	RuleExcludedWeekday     = "ExcludedWeekday"
	RuleWeekendCap          = "WeekendCap"
	RuleAbsence             = "Absence"
	RuleExcludedPost        = "ExcludedPost"
	RuleOnePostPerDay       = "OnePostPerDay"
	RuleMaxPerPost          = "MaxPerPost"
	RuleRestAfterDuty       = "RestAfterDuty"
	RuleDifferentPostPerDay = "DifferentPostPerDay"
)

type excludedWeekdayRule struct{}

func (excludedWeekdayRule) Name() string { return RuleExcludedWeekday }

func (excludedWeekdayRule) Allows(p *profile.ConstraintProfile, slot Slot, _ *Ledger, _ Settings) bool {
	return !p.ExcludesWeekday(slot.Weekday)
}

// weekendCapRule limits the weekend days of the month. A profile at the cap
// gets no further weekend slot, not even a linked post on a day it holds.
type weekendCapRule struct{}

func (weekendCapRule) Name() string { return RuleWeekendCap }

func (weekendCapRule) Allows(p *profile.ConstraintProfile, slot Slot, ledger *Ledger, settings Settings) bool {
	if slot.Type != calendar.Weekend || !settings.LimitWeekendDays {
		return true
	}
	return ledger.Count(p.ID, calendar.Weekend) < settings.MaxWeekendDays
}

type absenceRule struct{}

func (absenceRule) Name() string { return RuleAbsence }

func (absenceRule) Allows(p *profile.ConstraintProfile, slot Slot, _ *Ledger, _ Settings) bool {
	return !p.IsAbsent(slot.Day)
}

type excludedPostRule struct{}

func (excludedPostRule) Name() string { return RuleExcludedPost }

func (excludedPostRule) Allows(p *profile.ConstraintProfile, slot Slot, _ *Ledger, _ Settings) bool {
	return !p.Excludes(slot.Post)
}

// onePostPerDayRule is bypassed only by associated-post propagation
type onePostPerDayRule struct{}

func (onePostPerDayRule) Name() string { return RuleOnePostPerDay }

func (onePostPerDayRule) Allows(p *profile.ConstraintProfile, slot Slot, ledger *Ledger, _ Settings) bool {
	return !ledger.HoldsAny(p.ID, slot.Day)
}

type maxPerPostRule struct{}

func (maxPerPostRule) Name() string { return RuleMaxPerPost }

func (maxPerPostRule) Allows(p *profile.ConstraintProfile, slot Slot, ledger *Ledger, settings Settings) bool {
	return ledger.PostCount(p.ID, slot.PostIndex) < settings.MaxPerPost
}

// restAfterDutyRule keeps the day after a duty free. Slots are filled in
// random order, so both neighbours are checked. Days outside the month are
// not known here and are not checked.
type restAfterDutyRule struct{}

func (restAfterDutyRule) Name() string { return RuleRestAfterDuty }

func (restAfterDutyRule) Allows(p *profile.ConstraintProfile, slot Slot, ledger *Ledger, _ Settings) bool {
	return !ledger.HoldsAny(p.ID, slot.Day-1) && !ledger.HoldsAny(p.ID, slot.Day+1)
}

// differentPostPerDayRule forbids the same post on two consecutive days
type differentPostPerDayRule struct{}

func (differentPostPerDayRule) Name() string { return RuleDifferentPostPerDay }

func (differentPostPerDayRule) Allows(p *profile.ConstraintProfile, slot Slot, ledger *Ledger, _ Settings) bool {
	return !ledger.Holds(p.ID, slot.Day-1, slot.PostIndex) && !ledger.Holds(p.ID, slot.Day+1, slot.PostIndex)
}

// Rules returns the rules enabled by settings, in evaluation order
func Rules(settings Settings) []Rule {
	rules := []Rule{
		excludedWeekdayRule{},
		weekendCapRule{},
		absenceRule{},
		excludedPostRule{},
		onePostPerDayRule{},
	}
	if settings.MaxPerPost > 0 {
		rules = append(rules, maxPerPostRule{})
	}
	if settings.RestAfterDuty {
		rules = append(rules, restAfterDutyRule{})
	}
	if settings.DifferentPostPerDay {
		rules = append(rules, differentPostPerDayRule{})
	}
	return rules
}

// IsEligible evaluates every enabled rule in order and stops at the first veto
func IsEligible(p *profile.ConstraintProfile, slot Slot, ledger *Ledger, settings Settings) bool {
	return allows(Rules(settings), p, slot, ledger, settings)
}

// FirstViolatedRule returns the name of the rule vetoing the placement, or
// "" if the profile is eligible
func FirstViolatedRule(p *profile.ConstraintProfile, slot Slot, ledger *Ledger, settings Settings) string {
	for _, rule := range Rules(settings) {
		if !rule.Allows(p, slot, ledger, settings) {
			return rule.Name()
		}
	}
	return ""
}

func allows(rules []Rule, p *profile.ConstraintProfile, slot Slot, ledger *Ledger, settings Settings, skip ...string) bool {
	for _, rule := range rules {
		if slices.Contains(skip, rule.Name()) {
			continue
		}
		if !rule.Allows(p, slot, ledger, settings) {
			return false
		}
	}
	return true
}
