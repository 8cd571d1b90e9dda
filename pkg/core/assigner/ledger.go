package assigner

import (
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// Ledger tracks who holds which post on which day of one month, and the
// resulting distinct-day counts per pool. A day with two posts counts once.
type Ledger struct {
	held    map[string]map[int]map[int]bool
	pools   map[int]calendar.DayType
	counts  map[string]*PoolCounts
	perPost map[string]map[int]int
}

// NewLedger returns an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		held:    make(map[string]map[int]map[int]bool),
		pools:   make(map[int]calendar.DayType),
		counts:  make(map[string]*PoolCounts),
		perPost: make(map[string]map[int]int),
	}
}

// SeedLedger records the assignments already present in the grid.
// Unavailable cells and cells excluded from count are ignored; cells naming
// several known profiles count for each of them.
func SeedLedger(g grid.Grid, profiles []profile.ConstraintProfile, days []calendar.DayInfo) *Ledger {
	ledger := NewLedger()
	known := profile.IDs(profiles)
	posts := g.Posts()

	for _, info := range days {
		for post := range posts {
			if !g.IsAvailable(info.Day, post) || g.IsExcludedFromCount(info.Day, post) {
				continue
			}
			value, err := g.Get(info.Day, post)
			if err != nil {
				continue
			}
			for _, id := range grid.ExtractNames(value, known) {
				ledger.Add(id, info.Day, post, info.Type)
			}
		}
	}
	return ledger
}

// Add records that id holds post on day
func (l *Ledger) Add(id string, day, post int, pool calendar.DayType) {
	if l.held[id] == nil {
		l.held[id] = make(map[int]map[int]bool)
	}
	if l.held[id][day] == nil {
		l.held[id][day] = make(map[int]bool)
	}
	if l.held[id][day][post] {
		return
	}

	if len(l.held[id][day]) == 0 {
		l.countsOf(id).add(pool, 1)
	}
	l.held[id][day][post] = true
	l.pools[day] = pool

	if l.perPost[id] == nil {
		l.perPost[id] = make(map[int]int)
	}
	l.perPost[id][post]++
}

// Remove undoes Add. Removing an unrecorded assignment is a no-op.
func (l *Ledger) Remove(id string, day, post int) {
	if !l.held[id][day][post] {
		return
	}
	delete(l.held[id][day], post)
	l.perPost[id][post]--

	if len(l.held[id][day]) == 0 {
		delete(l.held[id], day)
		l.countsOf(id).add(l.pools[day], -1)
	}
}

func (l *Ledger) countsOf(id string) *PoolCounts {
	c, ok := l.counts[id]
	if !ok {
		c = &PoolCounts{}
		l.counts[id] = c
	}
	return c
}

// Count returns the distinct days id holds in the pool
func (l *Ledger) Count(id string, pool calendar.DayType) int {
	if c, ok := l.counts[id]; ok {
		return c.Of(pool)
	}
	return 0
}

// Counts returns both pool counts of id
func (l *Ledger) Counts(id string) PoolCounts {
	if c, ok := l.counts[id]; ok {
		return *c
	}
	return PoolCounts{}
}

// HoldsAny reports whether id holds any post on day
func (l *Ledger) HoldsAny(id string, day int) bool {
	return len(l.held[id][day]) > 0
}

// Holds reports whether id holds post on day
func (l *Ledger) Holds(id string, day, post int) bool {
	return l.held[id][day][post]
}

// PostCount returns how many slots of post id holds in the month
func (l *Ledger) PostCount(id string, post int) int {
	return l.perPost[id][post]
}
