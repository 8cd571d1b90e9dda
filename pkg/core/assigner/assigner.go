package assigner

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// Options carries the collaborators of a run. Every field is optional.
type Options struct {
	// Rand drives every shuffle and tie-break. Defaults to a time-seeded source.
	Rand *rand.Rand

	Logger *zap.Logger

	// Holidays supplies public holidays; nil or failing means none
	Holidays calendar.HolidayProvider
}

// run is the state of one Assign call. It is discarded when the call returns.
type run struct {
	grid     grid.Grid
	profiles []profile.ConstraintProfile
	settings Settings
	rules    []Rule

	posts []string
	days  []calendar.DayInfo
	byDay map[int]calendar.DayInfo
	known map[string]bool

	ledger   *Ledger
	targets  TargetMap
	register CompensationRegister

	rng     *rand.Rand
	logger  *zap.Logger
	outcome *Outcome
}

// Assign fills the open slots of g in place. Slots already holding a value,
// unavailable slots and slots excluded from count are never written.
// Data problems never abort the run: slots without a suitable candidate are
// left empty and reported in the outcome.
func Assign(g grid.Grid, profiles []profile.ConstraintProfile, settings Settings, opts Options) *Outcome {
	r := newRun(g, profiles, settings, opts)

	if len(profiles) == 0 {
		r.logger.Debug("No profiles, nothing to assign")
		r.outcome.Unfilled = OpenSlots(g, r.days)
		return r.outcome
	}

	r.targets = ComputeTargets(r.profiles, OpenSlots(g, r.days))
	r.outcome.Targets = r.targets

	blockPosts := r.settings.BlockPostIndices(r.posts)
	r.rebuildCompensation(blockPosts)
	if r.settings.WeekendBlocks && len(blockPosts) > 0 {
		r.runBlockPass(blockPosts)
		r.rebuildCompensation(blockPosts)
	}

	r.runGeneralPass()

	r.outcome.Unfilled = OpenSlots(g, r.days)
	r.outcome.Violations = validate(g, r.profiles, r.settings, r.days)

	r.logger.Debug("Assignment run finished",
		zap.Int("filled", len(r.outcome.Filled)),
		zap.Int("unfilled", len(r.outcome.Unfilled)),
		zap.Int("violations", len(r.outcome.Violations)))

	return r.outcome
}

func newRun(g grid.Grid, profiles []profile.ConstraintProfile, settings Settings, opts Options) *run {
	settings = settings.Normalized()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	year, month := g.Period()
	holidays, err := calendar.ResolveHolidays(opts.Holidays, year, month)
	if err != nil {
		logger.Warn("Holiday lookup failed, using weekday rules only", zap.Error(err))
	}

	days := GridDays(g, holidays)
	byDay := make(map[int]calendar.DayInfo, len(days))
	for _, info := range days {
		byDay[info.Day] = info
	}

	return &run{
		grid:     g,
		profiles: profiles,
		settings: settings,
		rules:    Rules(settings),
		posts:    g.Posts(),
		days:     days,
		byDay:    byDay,
		known:    profile.IDs(profiles),
		ledger:   SeedLedger(g, profiles, days),
		targets:  TargetMap{},
		rng:      rng,
		logger:   logger,
		outcome:  &Outcome{Targets: TargetMap{}},
	}
}

// rebuildCompensation recomputes the register from the blocks currently in
// the grid
func (r *run) rebuildCompensation(blockPosts []int) {
	if !r.settings.WeekdayCompensation {
		r.register = nil
		return
	}
	r.register = BuildCompensation(r.grid, r.days, blockPosts, r.known, r.settings.CompensationWindow)
}

// runGeneralPass visits the open slots once, in random order
func (r *run) runGeneralPass() {
	open := OpenSlots(r.grid, r.days)
	shuffle(r.rng, open)

	for _, slot := range open {
		// Propagation may have filled it since the list was built
		if !grid.IsOpen(r.grid, slot.Day, slot.PostIndex) {
			continue
		}

		winner := r.pickWinner(r.candidatesFor(slot), slot)
		if winner == nil {
			r.logger.Debug("No candidate for slot",
				zap.Int("day", slot.Day),
				zap.String("post", slot.Post))
			continue
		}

		if r.commit(winner, slot, SourceScored) {
			r.propagate(winner, slot)
		}
	}
}

func (r *run) candidatesFor(slot Slot) []candidate {
	candidates := make([]candidate, 0, len(r.profiles))
	for i := range r.profiles {
		p := &r.profiles[i]
		if allows(r.rules, p, slot, r.ledger, r.settings) {
			candidates = append(candidates, candidate{profile: p, preferred: p.Prefers(slot.Post)})
		}
	}
	return candidates
}

// commit writes p into the slot and records it. A slot the grid refuses is
// skipped.
func (r *run) commit(p *profile.ConstraintProfile, slot Slot, source Source) bool {
	if err := r.grid.Set(slot.Day, slot.PostIndex, p.ID); err != nil {
		r.logger.Debug("Skipping slot", zap.Error(err))
		return false
	}

	r.ledger.Add(p.ID, slot.Day, slot.PostIndex, slot.Type)
	r.outcome.Filled = append(r.outcome.Filled, Assignment{
		Day:       slot.Day,
		PostIndex: slot.PostIndex,
		Post:      slot.Post,
		ID:        p.ID,
		Pool:      slot.Type,
		Source:    source,
	})

	r.logger.Debug("Assigned",
		zap.String("id", p.ID),
		zap.Int("day", slot.Day),
		zap.String("post", slot.Post),
		zap.String("source", string(source)))
	return true
}

func (r *run) profileByID(id string) *profile.ConstraintProfile {
	for i := range r.profiles {
		if r.profiles[i].ID == id {
			return &r.profiles[i]
		}
	}
	return nil
}
