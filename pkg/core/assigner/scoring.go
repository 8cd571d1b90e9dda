package assigner

import (
	"math"
	"math/rand"

	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

const scoreEpsilon = 1e-9

// Score returns the effective load of a candidate for a slot; lower wins.
// Returns false when the target is zero, which makes the candidate
// unselectable.
func Score(current int, target float64, preferred, compensated bool, settings Settings) (float64, bool) {
	if target <= 0 {
		return 0, false
	}

	ratio := float64(current) / target
	effective := ratio + settings.OverTargetPenalty*math.Max(0, ratio-1)
	if preferred {
		effective = math.Max(0, effective-settings.PreferenceBonus)
	}
	if compensated {
		effective += settings.CompensationMalus
	}
	return effective, true
}

// candidate is a profile eligible for the slot being filled
type candidate struct {
	profile   *profile.ConstraintProfile
	preferred bool
}

type scoredCandidate struct {
	candidate
	effective float64
	deficit   float64
	jitter    float64
}

// beats orders scored candidates: lower effective load, then larger
// deficit, then lower jitter
func (s scoredCandidate) beats(other scoredCandidate) bool {
	if math.Abs(s.effective-other.effective) > scoreEpsilon {
		return s.effective < other.effective
	}
	if math.Abs(s.deficit-other.deficit) > scoreEpsilon {
		return s.deficit > other.deficit
	}
	return s.jitter < other.jitter
}

// pickWinner shuffles the candidates and returns the best scored one.
// Returns nil when every candidate has a zero target.
func (r *run) pickWinner(candidates []candidate, slot Slot) *profile.ConstraintProfile {
	shuffle(r.rng, candidates)

	var best *scoredCandidate
	for _, c := range candidates {
		target := r.targets.Of(c.profile.ID, slot.Type)
		current := r.ledger.Count(c.profile.ID, slot.Type)
		compensated := r.register.Penalizes(slot.PostIndex, slot.Day, c.profile.ID)

		effective, ok := Score(current, target, c.preferred, compensated, r.settings)
		if !ok {
			continue
		}

		scored := scoredCandidate{
			candidate: c,
			effective: effective,
			deficit:   target - float64(current),
			jitter:    r.rng.Float64(),
		}
		if best == nil || scored.beats(*best) {
			best = &scored
		}
	}

	if best == nil {
		return nil
	}
	return best.profile
}

func shuffle[T any](rng *rand.Rand, items []T) {
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
