package assigner

import "slices"

// Scoring and balancing constants. They are empirical and can be overridden
// per run through Settings.
const (
	DefaultOverTargetPenalty      = 0.35
	DefaultPreferenceBonus        = 0.15
	DefaultCompensationMalus      = 0.8
	DefaultCompensationWindow     = 4
	DefaultMaxWeekendDays         = 4
	DefaultBalancerMaxIterations  = 100 // also the upper bound
	DefaultReferenceParticipation = 0.99

	maxDaysInMonth = 31
)

// Settings holds every toggle of an assignment or balancing run.
// It is passed by value and never mutated by the engine.
type Settings struct {
	// MaxPerPost caps how many slots of one post a person gets in the month (0 disables)
	MaxPerPost int

	// DifferentPostPerDay forbids holding the same post on two consecutive days
	DifferentPostPerDay bool

	// RestAfterDuty forbids any post on the day after a duty
	RestAfterDuty bool

	// LimitWeekendDays enables MaxWeekendDays
	LimitWeekendDays bool
	MaxWeekendDays   int

	// WeekendBlocks enables the Friday-Sunday pre-pass on BlockPosts
	WeekendBlocks bool
	BlockPosts    []string

	// WeekdayCompensation penalizes weekday slots around resolved blocks on BlockPosts
	WeekdayCompensation bool
	CompensationMalus   float64
	CompensationWindow  int

	OverTargetPenalty float64
	PreferenceBonus   float64

	BalancerMaxIterations  int
	ReferenceParticipation float64
}

// DefaultSettings returns settings with every optional rule disabled and
// the default constants
func DefaultSettings() Settings {
	return Settings{
		MaxWeekendDays:         DefaultMaxWeekendDays,
		CompensationMalus:      DefaultCompensationMalus,
		CompensationWindow:     DefaultCompensationWindow,
		OverTargetPenalty:      DefaultOverTargetPenalty,
		PreferenceBonus:        DefaultPreferenceBonus,
		BalancerMaxIterations:  DefaultBalancerMaxIterations,
		ReferenceParticipation: DefaultReferenceParticipation,
	}
}

// Normalized clamps out-of-range values and fills unset counts with defaults
func (s Settings) Normalized() Settings {
	s.MaxWeekendDays = max(0, min(maxDaysInMonth, s.MaxWeekendDays))
	s.MaxPerPost = max(0, s.MaxPerPost)
	if s.CompensationWindow <= 0 {
		s.CompensationWindow = DefaultCompensationWindow
	}
	if s.BalancerMaxIterations <= 0 {
		s.BalancerMaxIterations = DefaultBalancerMaxIterations
	}
	s.BalancerMaxIterations = min(s.BalancerMaxIterations, DefaultBalancerMaxIterations)
	if s.ReferenceParticipation <= 0 {
		s.ReferenceParticipation = DefaultReferenceParticipation
	}
	s.BlockPosts = slices.Clone(s.BlockPosts)
	return s
}

// IsBlockPost reports whether post is one of the weekend block posts
func (s Settings) IsBlockPost(post string) bool {
	return slices.Contains(s.BlockPosts, post)
}

// BlockPostIndices resolves BlockPosts against the grid columns, in column order
func (s Settings) BlockPostIndices(posts []string) []int {
	var indices []int
	for i, post := range posts {
		if s.IsBlockPost(post) {
			indices = append(indices, i)
		}
	}
	return indices
}
