package assigner

import (
	"github.com/jakechorley/duty-rota/pkg/core/grid"
	"github.com/jakechorley/duty-rota/pkg/core/profile"
)

// propagate places p on every post associated with the slot's post, on the
// same day, when that slot is open and p passes every rule except the
// one-post-per-day check. Only the originating post's links are followed.
func (r *run) propagate(p *profile.ConstraintProfile, origin Slot) {
	info, ok := r.byDay[origin.Day]
	if !ok {
		return
	}

	for _, postIndex := range p.AssociatedWith(origin.PostIndex) {
		if postIndex < 0 || postIndex >= len(r.posts) {
			continue
		}
		if !grid.IsOpen(r.grid, origin.Day, postIndex) {
			continue
		}

		linked := newSlot(info, postIndex, r.posts[postIndex])
		if !allows(r.rules, p, linked, r.ledger, r.settings, RuleOnePostPerDay) {
			continue
		}
		r.commit(p, linked, SourcePropagated)
	}
}
