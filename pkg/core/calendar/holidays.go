package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

const isoDate = "2006-01-02"

// HolidaySet is a set of dates keyed by their ISO representation.
// A nil set is valid and empty.
type HolidaySet map[string]bool

// NewHolidaySet creates a set containing the given dates
func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set.Add(d)
	}
	return set
}

// Add inserts a date, ignoring its time of day
func (h HolidaySet) Add(date time.Time) {
	h[date.Format(isoDate)] = true
}

// Contains reports whether date is a holiday
func (h HolidaySet) Contains(date time.Time) bool {
	return h[date.Format(isoDate)]
}

// Merge adds every date of other into h
func (h HolidaySet) Merge(other HolidaySet) {
	for key := range other {
		h[key] = true
	}
}

// HolidayProvider supplies the public holidays of a given month
type HolidayProvider interface {
	HolidaysFor(year int, month time.Month) (HolidaySet, error)
}

// ResolveHolidays asks the provider for the holidays of the month and of the
// following month, so that a holiday on the 1st still marks the last day of
// the month as a holiday eve. A nil provider yields an empty set. On error
// the returned set is empty and the error is returned for the caller to log.
func ResolveHolidays(provider HolidayProvider, year int, month time.Month) (HolidaySet, error) {
	set := HolidaySet{}
	if provider == nil {
		return set, nil
	}

	current, err := provider.HolidaysFor(year, month)
	if err != nil {
		return HolidaySet{}, fmt.Errorf("failed to fetch holidays for %d-%02d: %w", year, int(month), err)
	}
	set.Merge(current)

	next := Date(year, month, 1).AddDate(0, 1, 0)
	following, err := provider.HolidaysFor(next.Year(), next.Month())
	if err != nil {
		return HolidaySet{}, fmt.Errorf("failed to fetch holidays for %d-%02d: %w", next.Year(), int(next.Month()), err)
	}
	set.Merge(following)

	return set, nil
}

// StaticHolidays is a fixed list of holiday dates
type StaticHolidays []time.Time

func (s StaticHolidays) HolidaysFor(year int, month time.Month) (HolidaySet, error) {
	set := HolidaySet{}
	for _, d := range s {
		if d.Year() == year && d.Month() == month {
			set.Add(d)
		}
	}
	return set, nil
}

// RRuleHolidays expands recurrence rules (RFC 5545 RRULE syntax) into holidays
type RRuleHolidays struct {
	rules []*rrule.RRule
}

// NewRRuleHolidays parses each rule string. DTSTART is ignored and reset to
// the month being queried, so rules should be written as yearly patterns,
// e.g. "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25".
func NewRRuleHolidays(rules ...string) (*RRuleHolidays, error) {
	provider := &RRuleHolidays{rules: make([]*rrule.RRule, 0, len(rules))}
	for i, raw := range rules {
		rule, err := rrule.StrToRRule(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday rrule [%d] %q: %w", i, raw, err)
		}
		provider.rules = append(provider.rules, rule)
	}
	return provider, nil
}

func (p *RRuleHolidays) HolidaysFor(year int, month time.Month) (HolidaySet, error) {
	return expandRules(p.rules, year, month), nil
}

func expandRules(rules []*rrule.RRule, year int, month time.Month) HolidaySet {
	set := HolidaySet{}
	// Yearly rules need a DTSTART at the start of the year to land on the right dates
	yearStart := Date(year, time.January, 1)
	monthStart := Date(year, month, 1)
	monthEnd := Date(year, month, DaysIn(year, month))

	for _, rule := range rules {
		rule.DTStart(yearStart)
		for _, occurrence := range rule.Between(monthStart, monthEnd, true) {
			set.Add(occurrence)
		}
	}
	return set
}

// frenchHolidayRules lists the eleven French public holidays
var frenchHolidayRules = []rrule.ROption{
	{Freq: rrule.YEARLY, Bymonth: []int{1}, Bymonthday: []int{1}},   // Jour de l'an
	{Freq: rrule.YEARLY, Byeaster: []int{1}},                        // Lundi de Pâques
	{Freq: rrule.YEARLY, Bymonth: []int{5}, Bymonthday: []int{1}},   // Fête du travail
	{Freq: rrule.YEARLY, Bymonth: []int{5}, Bymonthday: []int{8}},   // Victoire 1945
	{Freq: rrule.YEARLY, Byeaster: []int{39}},                       // Ascension
	{Freq: rrule.YEARLY, Byeaster: []int{50}},                       // Lundi de Pentecôte
	{Freq: rrule.YEARLY, Bymonth: []int{7}, Bymonthday: []int{14}},  // Fête nationale
	{Freq: rrule.YEARLY, Bymonth: []int{8}, Bymonthday: []int{15}},  // Assomption
	{Freq: rrule.YEARLY, Bymonth: []int{11}, Bymonthday: []int{1}},  // Toussaint
	{Freq: rrule.YEARLY, Bymonth: []int{11}, Bymonthday: []int{11}}, // Armistice
	{Freq: rrule.YEARLY, Bymonth: []int{12}, Bymonthday: []int{25}}, // Noël
}

// FrenchHolidays provides the French public holidays, including the
// Easter-relative ones
type FrenchHolidays struct{}

func (FrenchHolidays) HolidaysFor(year int, month time.Month) (HolidaySet, error) {
	rules := make([]*rrule.RRule, 0, len(frenchHolidayRules))
	for _, opt := range frenchHolidayRules {
		opt.Dtstart = Date(year, time.January, 1)
		rule, err := rrule.NewRRule(opt)
		if err != nil {
			return nil, fmt.Errorf("failed to build holiday rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return expandRules(rules, year, month), nil
}

// CombinedHolidays merges several providers. The first failing provider
// aborts the lookup.
type CombinedHolidays []HolidayProvider

func (c CombinedHolidays) HolidaysFor(year int, month time.Month) (HolidaySet, error) {
	set := HolidaySet{}
	for _, provider := range c {
		if provider == nil {
			continue
		}
		part, err := provider.HolidaysFor(year, month)
		if err != nil {
			return nil, err
		}
		set.Merge(part)
	}
	return set, nil
}

// ProviderForCountry returns the built-in provider for an ISO country code.
// Only "FR" is built in; other codes return nil (no holidays).
func ProviderForCountry(code string) HolidayProvider {
	switch code {
	case "FR", "fr":
		return FrenchHolidays{}
	}
	return nil
}
