package balancer

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/duty-rota/pkg/core/assigner"
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// March 2025 starts on a Saturday: 1, 2, 7, 8, 9 and 15 are weekend days,
// 3-6 and 10-13 are weekdays
func fill(t *testing.T, g *grid.MonthGrid, post int, id string, days ...int) {
	t.Helper()
	for _, day := range days {
		require.NoError(t, g.Set(day, post, id))
	}
}

var posts = []string{"Garde", "Consult"}

func people(rows ...profile.RawRow) []profile.ConstraintProfile {
	return profile.ParseAll(rows, posts)
}

// linked holds both posts on the same day, which counts as one day
var linked = profile.RawRow{Identifier: "CD", AssociatedPosts: "Garde, Consult"}

// doubledWeekdays gives AB four weekdays and CD both posts on two weekdays
func doubledWeekdays(t *testing.T) *grid.MonthGrid {
	g := grid.NewMonthGrid(2025, time.March, posts)
	fill(t, g, 0, "AB", 3, 4, 5, 6)
	fill(t, g, 0, "CD", 10, 11)
	fill(t, g, 1, "CD", 10, 11)
	return g
}

func counts(g grid.Grid, profiles []profile.ConstraintProfile) map[string]assigner.PoolCounts {
	return assigner.CountPoolDays(g, profiles, nil)
}

func TestBalance_SwapsWithinPools(t *testing.T) {
	g := grid.NewMonthGrid(2025, time.March, posts)
	fill(t, g, 0, "AB", 1, 2, 8, 3, 4, 5)
	fill(t, g, 0, "CD", 15, 10)
	fill(t, g, 1, "CD", 15, 10)
	profiles := people(profile.RawRow{Identifier: "AB"}, linked)

	log := Balance([]grid.Grid{g}, profiles, assigner.DefaultSettings(), Options{})

	// Targets are 2 days per pool; AB cannot drop a day by swapping, CD
	// gains one per pool by giving away half of a doubled day
	require.Equal(t, 2, log.Swaps())
	assert.Equal(t, ChangeLog{
		{Day: 1, PostIndex: 0, Post: "Garde", Old: "AB", New: "CD", Pool: calendar.Weekend},
		{Day: 15, PostIndex: 0, Post: "Garde", Old: "CD", New: "AB", Pool: calendar.Weekend},
		{Day: 3, PostIndex: 0, Post: "Garde", Old: "AB", New: "CD", Pool: calendar.Weekday},
		{Day: 10, PostIndex: 0, Post: "Garde", Old: "CD", New: "AB", Pool: calendar.Weekday},
	}, log)

	for i := 0; i < len(log); i += 2 {
		assert.Equal(t, log[i].Pool, log[i+1].Pool)
	}
	for _, change := range log {
		value, err := g.Get(change.Day, change.PostIndex)
		require.NoError(t, err)
		assert.Equal(t, change.New, value)
	}

	result := counts(g, profiles)
	assert.Equal(t, assigner.PoolCounts{Weekday: 3, Weekend: 3}, result["AB"])
	assert.Equal(t, assigner.PoolCounts{Weekday: 2, Weekend: 2}, result["CD"])
	assert.Empty(t, assigner.ValidateGrid(g, profiles, assigner.DefaultSettings(), nil))
}

func TestBalance_NeverCrossesPools(t *testing.T) {
	// AB has every weekend day and CD every weekday: only a cross-pool swap
	// could even this out
	g := grid.NewMonthGrid(2025, time.March, []string{"Garde"})
	fill(t, g, 0, "AB", 1, 2, 7, 8)
	fill(t, g, 0, "CD", 3, 4, 5, 6)
	before := g.Clone()
	profiles := people(profile.RawRow{Identifier: "AB"}, profile.RawRow{Identifier: "CD"})

	log := Balance([]grid.Grid{g}, profiles, assigner.DefaultSettings(), Options{})

	assert.Empty(t, log)
	assert.Equal(t, before, g)
}

func TestBalance_RespectsEligibility(t *testing.T) {
	g := doubledWeekdays(t)
	before := g.Clone()
	absent := linked
	absent.Absences = "3-6"
	profiles := people(profile.RawRow{Identifier: "AB"}, absent)

	log := Balance([]grid.Grid{g}, profiles, assigner.DefaultSettings(), Options{})

	assert.Empty(t, log)
	assert.Equal(t, before, g)
}

func TestBalance_SkipsBlockPosts(t *testing.T) {
	g := doubledWeekdays(t)
	before := g.Clone()
	profiles := people(profile.RawRow{Identifier: "AB"}, linked)
	settings := assigner.DefaultSettings()
	settings.BlockPosts = []string{"Garde"}

	log := Balance([]grid.Grid{g}, profiles, settings, Options{})

	assert.Empty(t, log)
	assert.Equal(t, before, g)
}

func TestBalance_SkipsSharedAndUnknownCells(t *testing.T) {
	g := grid.NewMonthGrid(2025, time.March, posts)
	fill(t, g, 0, "AB", 3, 4, 5)
	fill(t, g, 0, "ZZ", 6)
	fill(t, g, 0, "CD / ZZ", 10)
	fill(t, g, 1, "CD", 10)
	profiles := people(profile.RawRow{Identifier: "AB"}, linked)

	log := Balance([]grid.Grid{g}, profiles, assigner.DefaultSettings(), Options{})

	// The shared cell still counts for CD but is never rewritten
	require.Equal(t, 1, log.Swaps())
	assert.Equal(t, Change{Day: 10, PostIndex: 1, Post: "Consult", Old: "CD", New: "AB", Pool: calendar.Weekday}, log[1])
	for _, cell := range []struct {
		day, post int
		value     string
	}{{6, 0, "ZZ"}, {10, 0, "CD / ZZ"}} {
		value, err := g.Get(cell.day, cell.post)
		require.NoError(t, err)
		assert.Equal(t, cell.value, value)
	}
}

func TestBalance_UsesHistory(t *testing.T) {
	profiles := people(profile.RawRow{Identifier: "AB"}, linked)

	// February 2025: 3 and 4 are weekdays
	february := grid.NewMonthGrid(2025, time.February, posts)
	fill(t, february, 0, "AB", 3, 4)

	// March alone is balanced: two weekdays each
	march := grid.NewMonthGrid(2025, time.March, posts)
	fill(t, march, 0, "AB", 3, 4)
	fill(t, march, 0, "CD", 10, 11)
	fill(t, march, 1, "CD", 10)

	alone := Balance([]grid.Grid{march.Clone()}, profiles, assigner.DefaultSettings(), Options{})
	assert.Empty(t, alone)

	log := Balance([]grid.Grid{february, march}, profiles, assigner.DefaultSettings(), Options{})

	require.Equal(t, 1, log.Swaps())
	result := counts(march, profiles)
	assert.Equal(t, assigner.PoolCounts{Weekday: 2}, result["AB"])
	assert.Equal(t, assigner.PoolCounts{Weekday: 3}, result["CD"])
	assert.Equal(t, assigner.PoolCounts{Weekday: 2}, counts(february, profiles)["AB"], "history is never rewritten")
}

func TestBalance_FallbackTargetsWithoutReferenceProfile(t *testing.T) {
	g := doubledWeekdays(t)
	half := linked
	half.Participation = "60"
	profiles := people(profile.RawRow{Identifier: "AB", Participation: "30"}, half)

	log := Balance([]grid.Grid{g}, profiles, assigner.DefaultSettings(), Options{})

	// Targets are 1/3 and 2/3 of the 6 assigned weekdays: CD reaches 4 by
	// splitting both doubled days
	assert.Equal(t, 2, log.Swaps())
	result := counts(g, profiles)
	assert.Equal(t, assigner.PoolCounts{Weekday: 4}, result["AB"])
	assert.Equal(t, assigner.PoolCounts{Weekday: 4}, result["CD"])
}

func TestBalance_StopsAtIterationCap(t *testing.T) {
	g := doubledWeekdays(t)
	half := linked
	half.Participation = "60"
	profiles := people(profile.RawRow{Identifier: "AB", Participation: "30"}, half)
	settings := assigner.DefaultSettings()
	settings.BalancerMaxIterations = 1

	log := Balance([]grid.Grid{g}, profiles, settings, Options{})

	assert.Equal(t, 1, log.Swaps())
}

func TestBalance_NothingToDo(t *testing.T) {
	profiles := people(profile.RawRow{Identifier: "AB"})
	assert.Empty(t, Balance(nil, profiles, assigner.DefaultSettings(), Options{}))

	g := doubledWeekdays(t)
	assert.Empty(t, Balance([]grid.Grid{g}, nil, assigner.DefaultSettings(), Options{}))
}

func TestComputeTargets_ReferenceProfiles(t *testing.T) {
	profiles := people(
		profile.RawRow{Identifier: "AB", Participation: "100"},
		profile.RawRow{Identifier: "CD", Participation: "99"},
		profile.RawRow{Identifier: "EF", Participation: "50"},
	)
	data := map[string]assigner.PoolCounts{
		"AB": {Weekday: 10, Weekend: 4},
		"CD": {Weekday: 6, Weekend: 2},
		"EF": {Weekday: 1, Weekend: 9},
	}

	targets := ComputeTargets(profiles, func(id string) assigner.PoolCounts { return data[id] }, assigner.DefaultReferenceParticipation)

	assert.InDelta(t, 8, targets.Of("AB", calendar.Weekday), 1e-9)
	assert.InDelta(t, 3, targets.Of("AB", calendar.Weekend), 1e-9)
	assert.InDelta(t, 7.92, targets.Of("CD", calendar.Weekday), 1e-9)
	assert.InDelta(t, 4, targets.Of("EF", calendar.Weekday), 1e-9)
	assert.InDelta(t, 1.5, targets.Of("EF", calendar.Weekend), 1e-9)
}

func TestComputeTargets_Fallback(t *testing.T) {
	profiles := people(
		profile.RawRow{Identifier: "AB", Participation: "60"},
		profile.RawRow{Identifier: "CD", Participation: "20"},
	)
	data := map[string]assigner.PoolCounts{
		"AB": {Weekday: 2, Weekend: 6},
		"CD": {Weekday: 6, Weekend: 2},
	}

	targets := ComputeTargets(profiles, func(id string) assigner.PoolCounts { return data[id] }, assigner.DefaultReferenceParticipation)

	assert.InDelta(t, 6, targets.Of("AB", calendar.Weekday), 1e-9)
	assert.InDelta(t, 6, targets.Of("AB", calendar.Weekend), 1e-9)
	assert.InDelta(t, 2, targets.Of("CD", calendar.Weekday), 1e-9)
	assert.InDelta(t, 2, targets.Of("CD", calendar.Weekend), 1e-9)
}

func TestComputeTargets_NoParticipation(t *testing.T) {
	profiles := people(profile.RawRow{Identifier: "AB", Participation: "0"})
	targets := ComputeTargets(profiles, func(string) assigner.PoolCounts {
		return assigner.PoolCounts{Weekday: 3}
	}, assigner.DefaultReferenceParticipation)

	assert.Equal(t, assigner.PoolTargets{}, targets["AB"])
}

// TestBalance_Monotonic balances months produced by the assigner and checks
// every accepted swap and the grand total
func TestBalance_Monotonic(t *testing.T) {
	posts := []string{"Garde", "Consult"}
	profiles := profile.ParseAll([]profile.RawRow{
		{Identifier: "AB", Participation: "100"},
		{Identifier: "CD", Participation: "100", Absences: "10-14"},
		{Identifier: "EF", Participation: "50", ExcludedWeekdays: "sun"},
		{Identifier: "GH", Participation: "80", ExcludedPosts: "Consult"},
	}, posts)

	for seed := int64(0); seed < 5; seed++ {
		g := grid.NewMonthGrid(2025, time.March, posts)
		assigner.Assign(g, profiles, assigner.DefaultSettings(), assigner.Options{Rand: rand.New(rand.NewSource(seed))})

		b := newBalancer([]grid.Grid{g}, profiles, assigner.DefaultSettings(), Options{})
		total := b.totalDeviation()

		for iteration := 0; iteration < b.settings.BalancerMaxIterations; iteration++ {
			best, ok := b.bestSwap()
			if !ok {
				break
			}
			a, c := b.slots[best.i], b.slots[best.j]
			assert.Equal(t, a.slot.Type, c.slot.Type, "seed %d", seed)
			pairBefore := b.deviation(a.id) + b.deviation(c.id)

			b.apply(best)

			assert.Less(t, b.deviation(a.id)+b.deviation(c.id), pairBefore, "seed %d", seed)
			next := b.totalDeviation()
			assert.LessOrEqual(t, next, total+1e-9, "seed %d", seed)
			total = next
		}

		assert.Empty(t, assigner.ValidateGrid(g, profiles, assigner.DefaultSettings(), nil), "seed %d", seed)
	}
}
