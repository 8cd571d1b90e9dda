package calendar

import (
	"time"

	"github.com/teambition/rrule-go"
)

// DayType partitions the days of a month into the two balancing pools
type DayType int

const (
	// Weekday is an ordinary Monday-Thursday that is neither a holiday nor a holiday eve
	Weekday DayType = iota
	// Weekend covers Friday, Saturday, Sunday, holidays and holiday eves
	Weekend
)

// Pools lists both day types in a stable order
var Pools = []DayType{Weekday, Weekend}

func (d DayType) String() string {
	if d == Weekend {
		return "weekend"
	}
	return "weekday"
}

// DayInfo describes one calendar day of the month being planned
type DayInfo struct {
	Day     int
	Date    time.Time
	Weekday time.Weekday
	Type    DayType
}

// Classify returns Weekend for Fridays, Saturdays, Sundays, holidays and the
// day before a holiday. Every other day is a Weekday.
func Classify(date time.Time, holidays HolidaySet) DayType {
	switch date.Weekday() {
	case time.Friday, time.Saturday, time.Sunday:
		return Weekend
	}
	if holidays.Contains(date) || holidays.Contains(date.AddDate(0, 0, 1)) {
		return Weekend
	}
	return Weekday
}

// Date builds the UTC midnight date for a day of the month
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Describe classifies a single day of the month.
// Returns false if day is outside the month.
func Describe(year int, month time.Month, day int, holidays HolidaySet) (DayInfo, bool) {
	if day < 1 || day > DaysIn(year, month) {
		return DayInfo{}, false
	}
	date := Date(year, month, day)
	return DayInfo{
		Day:     day,
		Date:    date,
		Weekday: date.Weekday(),
		Type:    Classify(date, holidays),
	}, true
}

// Month classifies every day of the month in order
func Month(year int, month time.Month, holidays HolidaySet) []DayInfo {
	count := DaysIn(year, month)
	days := make([]DayInfo, 0, count)
	for day := 1; day <= count; day++ {
		info, _ := Describe(year, month, day, holidays)
		days = append(days, info)
	}
	return days
}

// Trio is a Friday/Saturday/Sunday window that lies entirely inside one month
type Trio struct {
	Friday int
}

// Days returns the Friday, Saturday and Sunday day numbers of the trio
func (t Trio) Days() [3]int {
	return [3]int{t.Friday, t.Friday + 1, t.Friday + 2}
}

// Contains reports whether day belongs to the trio
func (t Trio) Contains(day int) bool {
	return day >= t.Friday && day <= t.Friday+2
}

// WeekendTrios returns every Friday/Saturday/Sunday window of the month whose
// three days all fall inside the month, in chronological order.
func WeekendTrios(year int, month time.Month) []Trio {
	first := Date(year, month, 1)
	last := Date(year, month, DaysIn(year, month))

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rrule.FR},
		Dtstart:   first,
		Until:     last,
	})
	if err != nil {
		return nil
	}

	trios := make([]Trio, 0, 5)
	for _, friday := range rule.All() {
		// Sunday must still be in the month
		if friday.Day()+2 > last.Day() {
			continue
		}
		trios = append(trios, Trio{Friday: friday.Day()})
	}
	return trios
}
