package assigner

import (
	"time"

	"github.com/jakechorley/duty-rota/pkg/core/calendar"
)

// Slot describes one (day, post) cell together with its calendar facts
type Slot struct {
	Day       int
	Weekday   time.Weekday
	Type      calendar.DayType
	PostIndex int
	Post      string
}

func newSlot(info calendar.DayInfo, postIndex int, post string) Slot {
	return Slot{
		Day:       info.Day,
		Weekday:   info.Weekday,
		Type:      info.Type,
		PostIndex: postIndex,
		Post:      post,
	}
}

// PoolCounts is a number of distinct days per pool
type PoolCounts struct {
	Weekday int
	Weekend int
}

// Of returns the count of the given pool
func (c PoolCounts) Of(pool calendar.DayType) int {
	if pool == calendar.Weekend {
		return c.Weekend
	}
	return c.Weekday
}

func (c *PoolCounts) add(pool calendar.DayType, n int) {
	if pool == calendar.Weekend {
		c.Weekend += n
	} else {
		c.Weekday += n
	}
}

// Total returns the sum of both pools
func (c PoolCounts) Total() int {
	return c.Weekday + c.Weekend
}

// Plus returns the pool-wise sum of c and other
func (c PoolCounts) Plus(other PoolCounts) PoolCounts {
	return PoolCounts{Weekday: c.Weekday + other.Weekday, Weekend: c.Weekend + other.Weekend}
}

// PoolTargets is an expected number of distinct days per pool
type PoolTargets struct {
	Weekday float64
	Weekend float64
}

// Of returns the target of the given pool
func (t PoolTargets) Of(pool calendar.DayType) float64 {
	if pool == calendar.Weekend {
		return t.Weekend
	}
	return t.Weekday
}

// TargetMap holds the targets of every profile, keyed by identifier
type TargetMap map[string]PoolTargets

// Of returns the target of a profile in a pool; unknown profiles have target 0
func (m TargetMap) Of(id string, pool calendar.DayType) float64 {
	return m[id].Of(pool)
}

// Source tells which stage of a run wrote an assignment
type Source string

const (
	SourceBlock      Source = "block"
	SourceScored     Source = "scored"
	SourcePropagated Source = "propagated"
)

// Assignment is one identifier written by the engine
type Assignment struct {
	Day       int
	PostIndex int
	Post      string
	ID        string
	Pool      calendar.DayType
	Source    Source
}

// Outcome reports what a run did. The grid itself carries the result;
// the outcome is informational.
type Outcome struct {
	Filled     []Assignment
	Unfilled   []Slot
	Targets    TargetMap
	Violations []SlotViolation
}

// Success reports whether every open slot was filled without violations
func (o *Outcome) Success() bool {
	return len(o.Unfilled) == 0 && len(o.Violations) == 0
}

// FilledBy counts the slots written for one identifier
func (o *Outcome) FilledBy(id string) int {
	count := 0
	for _, a := range o.Filled {
		if a.ID == id {
			count++
		}
	}
	return count
}
