package balancer

import (
	"math"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/assigner"
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

const gainEpsilon = 1e-9

// Options carries the collaborators of a balancing run. Every field is optional.
type Options struct {
	Logger *zap.Logger

	// Holidays supplies public holidays; nil or failing means none
	Holidays calendar.HolidayProvider
}

// Change is one cell rewritten by the balancer
type Change struct {
	Day       int
	PostIndex int
	Post      string
	Old       string
	New       string
	Pool      calendar.DayType
}

// ChangeLog lists the changes in the order they were applied. Each swap
// contributes two consecutive changes.
type ChangeLog []Change

// Swaps returns the number of swaps in the log
func (l ChangeLog) Swaps() int {
	return len(l) / 2
}

// swapSlot is a cell of the current month held by exactly one known profile
type swapSlot struct {
	slot assigner.Slot
	id   string
}

type swap struct {
	i, j int
	gain float64
}

type balancer struct {
	current  grid.Grid
	profiles map[string]*profile.ConstraintProfile
	settings assigner.Settings

	history map[string]assigner.PoolCounts
	ledger  *assigner.Ledger
	targets assigner.TargetMap
	slots   []swapSlot

	logger *zap.Logger
}

// Balance swaps the occupants of filled cells of the same pool in the last
// month of months to bring every profile's cumulative day counts closer to
// its target. The earlier months only contribute to the counts. Each
// iteration applies the single best swap; the run stops when no swap strictly improves the total
// deviation or after Settings.BalancerMaxIterations iterations.
func Balance(months []grid.Grid, profiles []profile.ConstraintProfile, settings assigner.Settings, opts Options) ChangeLog {
	log := ChangeLog{}
	if len(months) == 0 || len(profiles) == 0 {
		return log
	}

	b := newBalancer(months, profiles, settings, opts)
	for iteration := 0; iteration < b.settings.BalancerMaxIterations; iteration++ {
		best, ok := b.bestSwap()
		if !ok {
			b.logger.Debug("No improving swap left", zap.Int("iterations", iteration))
			break
		}
		log = append(log, b.apply(best)...)
	}
	return log
}

func newBalancer(months []grid.Grid, profiles []profile.ConstraintProfile, settings assigner.Settings, opts Options) *balancer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	current := months[len(months)-1]
	history := make(map[string]assigner.PoolCounts)
	for _, g := range months[:len(months)-1] {
		for id, counts := range assigner.CountPoolDays(g, profiles, monthHolidays(g, opts.Holidays, logger)) {
			history[id] = history[id].Plus(counts)
		}
	}

	byID := make(map[string]*profile.ConstraintProfile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	days := assigner.GridDays(current, monthHolidays(current, opts.Holidays, logger))
	b := &balancer{
		current:  current,
		profiles: byID,
		settings: settings.Normalized(),
		history:  history,
		ledger:   assigner.SeedLedger(current, profiles, days),
		logger:   logger,
	}
	b.targets = ComputeTargets(profiles, b.cumulative, b.settings.ReferenceParticipation)
	b.slots = b.swappableSlots(days)
	return b
}

func monthHolidays(g grid.Grid, provider calendar.HolidayProvider, logger *zap.Logger) calendar.HolidaySet {
	year, month := g.Period()
	set, err := calendar.ResolveHolidays(provider, year, month)
	if err != nil {
		logger.Warn("Holiday lookup failed, using weekday rules only", zap.Error(err))
	}
	return set
}

// ComputeTargets derives cumulative targets from the counts. Profiles at or
// above the reference participation set the pace: everyone's target is its
// participation times their mean count. Without any reference profile, each
// profile gets its participation share of all assigned days.
func ComputeTargets(profiles []profile.ConstraintProfile, counts func(id string) assigner.PoolCounts, reference float64) assigner.TargetMap {
	targets := make(assigner.TargetMap, len(profiles))

	var referenceTotal, assignedTotal assigner.PoolCounts
	referenceCount := 0
	participationSum := 0.0
	for _, p := range profiles {
		c := counts(p.ID)
		assignedTotal = assignedTotal.Plus(c)
		participationSum += p.Participation
		if p.Participation >= reference {
			referenceTotal = referenceTotal.Plus(c)
			referenceCount++
		}
	}

	for _, p := range profiles {
		var t assigner.PoolTargets
		switch {
		case referenceCount > 0:
			t.Weekday = p.Participation * float64(referenceTotal.Weekday) / float64(referenceCount)
			t.Weekend = p.Participation * float64(referenceTotal.Weekend) / float64(referenceCount)
		case participationSum > 0:
			share := p.Participation / participationSum
			t.Weekday = share * float64(assignedTotal.Weekday)
			t.Weekend = share * float64(assignedTotal.Weekend)
		}
		targets[p.ID] = t
	}
	return targets
}

// swappableSlots lists the counted cells of non-block posts that hold a
// single known profile and nothing else
func (b *balancer) swappableSlots(days []calendar.DayInfo) []swapSlot {
	known := make(map[string]bool, len(b.profiles))
	for id := range b.profiles {
		known[id] = true
	}

	var slots []swapSlot
	posts := b.current.Posts()
	for _, info := range days {
		for postIndex, post := range posts {
			if b.settings.IsBlockPost(post) {
				continue
			}
			if !b.current.IsAvailable(info.Day, postIndex) || b.current.IsExcludedFromCount(info.Day, postIndex) {
				continue
			}
			value, err := b.current.Get(info.Day, postIndex)
			if err != nil {
				continue
			}
			names := grid.ExtractNames(value, known)
			if len(names) != 1 || len(grid.ExtractNames(value, nil)) != 1 {
				continue
			}
			slots = append(slots, swapSlot{
				slot: assigner.Slot{
					Day:       info.Day,
					Weekday:   info.Weekday,
					Type:      info.Type,
					PostIndex: postIndex,
					Post:      post,
				},
				id: names[0],
			})
		}
	}
	return slots
}

func (b *balancer) cumulative(id string) assigner.PoolCounts {
	return b.history[id].Plus(b.ledger.Counts(id))
}

// deviation is the distance of a profile from its targets, over both pools
func (b *balancer) deviation(id string) float64 {
	counts := b.cumulative(id)
	total := 0.0
	for _, pool := range calendar.Pools {
		total += math.Abs(float64(counts.Of(pool)) - b.targets.Of(id, pool))
	}
	return total
}

func (b *balancer) totalDeviation() float64 {
	total := 0.0
	for id := range b.profiles {
		total += b.deviation(id)
	}
	return total
}

// bestSwap scans every pair of swappable slots of the same pool and returns
// the one that reduces the two profiles' deviation the most
func (b *balancer) bestSwap() (swap, bool) {
	best := swap{gain: gainEpsilon}
	found := false
	for i := 0; i < len(b.slots); i++ {
		for j := i + 1; j < len(b.slots); j++ {
			if b.slots[i].id == b.slots[j].id || b.slots[i].slot.Type != b.slots[j].slot.Type {
				continue
			}
			gain, ok := b.evaluate(b.slots[i], b.slots[j])
			if ok && gain > best.gain {
				best = swap{i: i, j: j, gain: gain}
				found = true
			}
		}
	}
	return best, found
}

// evaluate returns the deviation gain of exchanging the occupants of a and
// c, and false when either profile may not take the other's slot. The
// ledger is left as it was found.
func (b *balancer) evaluate(a, c swapSlot) (float64, bool) {
	pa, pc := b.profiles[a.id], b.profiles[c.id]
	before := b.deviation(a.id) + b.deviation(c.id)

	b.ledger.Remove(a.id, a.slot.Day, a.slot.PostIndex)
	b.ledger.Remove(c.id, c.slot.Day, c.slot.PostIndex)
	defer func() {
		b.ledger.Add(a.id, a.slot.Day, a.slot.PostIndex, a.slot.Type)
		b.ledger.Add(c.id, c.slot.Day, c.slot.PostIndex, c.slot.Type)
	}()

	if !assigner.IsEligible(pa, c.slot, b.ledger, b.settings) || !assigner.IsEligible(pc, a.slot, b.ledger, b.settings) {
		return 0, false
	}

	b.ledger.Add(a.id, c.slot.Day, c.slot.PostIndex, c.slot.Type)
	b.ledger.Add(c.id, a.slot.Day, a.slot.PostIndex, a.slot.Type)
	after := b.deviation(a.id) + b.deviation(c.id)
	b.ledger.Remove(a.id, c.slot.Day, c.slot.PostIndex)
	b.ledger.Remove(c.id, a.slot.Day, a.slot.PostIndex)

	return before - after, true
}

// apply performs the swap on the grid and the ledger
func (b *balancer) apply(s swap) []Change {
	a, c := &b.slots[s.i], &b.slots[s.j]

	if err := b.current.Set(a.slot.Day, a.slot.PostIndex, c.id); err != nil {
		b.logger.Warn("Swap skipped", zap.Error(err))
		return nil
	}
	if err := b.current.Set(c.slot.Day, c.slot.PostIndex, a.id); err != nil {
		// Put the first cell back so the grid is never half swapped
		_ = b.current.Set(a.slot.Day, a.slot.PostIndex, a.id)
		b.logger.Warn("Swap skipped", zap.Error(err))
		return nil
	}

	b.ledger.Remove(a.id, a.slot.Day, a.slot.PostIndex)
	b.ledger.Remove(c.id, c.slot.Day, c.slot.PostIndex)
	b.ledger.Add(c.id, a.slot.Day, a.slot.PostIndex, a.slot.Type)
	b.ledger.Add(a.id, c.slot.Day, c.slot.PostIndex, c.slot.Type)

	changes := []Change{
		{Day: a.slot.Day, PostIndex: a.slot.PostIndex, Post: a.slot.Post, Old: a.id, New: c.id, Pool: a.slot.Type},
		{Day: c.slot.Day, PostIndex: c.slot.PostIndex, Post: c.slot.Post, Old: c.id, New: a.id, Pool: c.slot.Type},
	}
	a.id, c.id = c.id, a.id

	b.logger.Debug("Swapped",
		zap.Int("dayA", changes[0].Day),
		zap.Int("dayB", changes[1].Day),
		zap.String("from", changes[0].Old),
		zap.String("to", changes[0].New),
		zap.Float64("gain", s.gain))
	return changes
}
