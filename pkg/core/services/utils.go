package services

import (
	"hash/fnv"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/assigner"
	"github.com/jakechorley/duty-rota/pkg/core/calendar"
	"github.com/jakechorley/duty-rota/pkg/core/grid"
)

// now is replaced in tests
var now = time.Now

// RunOptions holds the inputs shared by the assignment and balancing services
type RunOptions struct {
	Settings assigner.Settings

	// Holidays may be nil (no public holidays)
	Holidays calendar.HolidayProvider

	// Seed makes the run reproducible. An empty seed is derived from the clock
	// and reported back in the result.
	Seed string

	// DryRun works on a copy of the grid and saves nothing
	DryRun bool
}

// resolveSeed returns seed, or a clock-derived seed when it is empty
func resolveSeed(seed string) string {
	if seed != "" {
		return seed
	}
	return strconv.FormatInt(now().UnixNano(), 10)
}

// NewRand returns a generator seeded from the FNV-64a hash of seed
func NewRand(seed string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// monthHolidays resolves the holidays around the grid's month, logging and
// ignoring provider failures
func monthHolidays(g grid.Grid, provider calendar.HolidayProvider, logger *zap.Logger) calendar.HolidaySet {
	year, month := g.Period()
	set, err := calendar.ResolveHolidays(provider, year, month)
	if err != nil {
		logger.Warn("Holiday lookup failed, using weekday rules only", zap.Error(err))
	}
	return set
}
