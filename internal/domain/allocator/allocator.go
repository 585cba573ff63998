// Package allocator narrows per-skill level ranges for one slot while it
// spends an investment budget on proficiency tiers.
package allocator

import (
	"maps"
	"sort"

	"github.com/okian/rosterbias/internal/domain/model"
)

// State is a copy of an allocator's mutable state.
type State[S comparable] struct {
	Ranges     map[S]model.IntRange
	Tiers      map[S]model.Tier
	Usable     map[S]bool
	PointsUsed float64
}

// Result is what Finalize emits for a slot.
type Result[S comparable] struct {
	Skills    map[S]model.SkillOutcome
	Exhausted bool
}

// Allocator holds one slot's ranges, tiers and spent budget. S is the skill
// identifier type.
type Allocator[S comparable] struct {
	order      []S
	ranges     map[S]model.IntRange
	tiers      map[S]model.Tier
	usable     map[S]bool
	disallowed map[S]struct{}
	forced     map[S]struct{}
	budget     float64
	used       float64
	pinned     bool
}

// New creates an allocator for the skills in order, seeded with the estimated
// ranges. Skills missing from ranges start at [0,0].
func New[S comparable](order []S, ranges map[S]model.IntRange, opts ...Option[S]) *Allocator[S] {
	a := &Allocator[S]{
		order:      append([]S(nil), order...),
		ranges:     make(map[S]model.IntRange, len(order)),
		tiers:      make(map[S]model.Tier, len(order)),
		usable:     make(map[S]bool),
		disallowed: make(map[S]struct{}),
		forced:     make(map[S]struct{}),
		budget:     DefaultBudget,
	}
	for _, s := range order {
		a.ranges[s] = ranges[s]
		a.tiers[s] = model.TierNone
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewPinned creates a read-only allocator for a locked slot. Every range is
// [level,level] and Finalize returns levels and tiers unchanged.
func NewPinned[S comparable](order []S, levels map[S]int, tiers map[S]model.Tier) *Allocator[S] {
	a := New[S](order, nil)
	a.pinned = true
	for _, s := range order {
		a.ranges[s] = model.Pinned(levels[s])
		a.tiers[s] = tiers[s]
		a.used += tiers[s].Cost()
	}
	if a.used > a.budget {
		a.budget = a.used
	}
	return a
}

// Pinned reports whether the allocator belongs to a locked slot.
func (a *Allocator[S]) Pinned() bool { return a.pinned }

// Range returns the current range of skill.
func (a *Allocator[S]) Range(skill S) model.IntRange { return a.ranges[skill] }

// Tier returns the current tier of skill.
func (a *Allocator[S]) Tier(skill S) model.Tier { return a.tiers[skill] }

// PointsUsed returns the budget spent so far.
func (a *Allocator[S]) PointsUsed() float64 { return a.used }

// Budget returns the slot's investment budget.
func (a *Allocator[S]) Budget() float64 { return a.budget }

// Snapshot copies the mutable state.
func (a *Allocator[S]) Snapshot() State[S] {
	return State[S]{
		Ranges:     maps.Clone(a.ranges),
		Tiers:      maps.Clone(a.tiers),
		Usable:     maps.Clone(a.usable),
		PointsUsed: a.used,
	}
}

func (a *Allocator[S]) known(skill S) bool {
	_, ok := a.ranges[skill]
	return ok
}

func (a *Allocator[S]) isDisallowed(skill S) bool {
	_, ok := a.disallowed[skill]
	return ok
}

// TryRaise upgrades skill to at least target and narrows its range floor.
// It returns false, leaving state untouched, when the skill is disallowed or
// the upgrade does not fit in the budget.
func (a *Allocator[S]) TryRaise(skill S, target model.Tier) bool {
	current := a.tiers[skill]
	if current >= target {
		return true
	}
	if a.pinned || !a.known(skill) || a.isDisallowed(skill) {
		return false
	}
	cost := target.Cost() - current.Cost()
	if a.used+cost > a.budget {
		return false
	}

	r := a.ranges[skill]
	switch {
	case r.Min == 0:
		r.Min = r.Max
	case target == model.TierMajor:
		r.Min = max(r.Max-2, r.Min)
	default:
		r.Min = max(r.Max-4, r.Min)
	}
	a.ranges[skill] = r
	a.tiers[skill] = target
	a.used += cost
	return true
}

// MarkUsable records that the slot covers skill without investing in it.
// A skill that cannot exceed level 0 is not usable.
func (a *Allocator[S]) MarkUsable(skill S) bool {
	if a.pinned {
		r := a.ranges[skill]
		return a.known(skill) && r.Max > 0
	}
	r, ok := a.ranges[skill]
	if !ok || r.Max == 0 {
		return false
	}
	if r.Min < 1 {
		r.Min = 1
		a.ranges[skill] = r
	}
	a.usable[skill] = true
	return true
}

// LockInRequirement claims one unit of goal for skill. remaining is how much
// of the goal is still open; the tier is Major while major units remain, then
// Minor, then usable.
func (a *Allocator[S]) LockInRequirement(skill S, goal model.Goal, remaining int) bool {
	tier, ok := goal.TierFor(goal.Total() - remaining)
	if !ok {
		return false
	}
	if tier == model.TierNone {
		return a.MarkUsable(skill)
	}
	return a.TryRaise(skill, tier)
}

type tierSet[S comparable] struct {
	tier    model.Tier
	members []S
}

func (t *tierSet[S]) remove(skill S) {
	for i, m := range t.members {
		if m == skill {
			t.members = append(t.members[:i], t.members[i+1:]...)
			return
		}
	}
}

// Finalize reconciles tiers with ranges so that a skill never ranges above
// the floor of a skill with a higher tier, and returns the outcome. Exhausted
// is set when the budget or a disallowed skill prevented that.
func (a *Allocator[S]) Finalize() Result[S] {
	if a.pinned {
		return Result[S]{Skills: a.outcomes()}
	}

	var exhausted bool
	major := &tierSet[S]{tier: model.TierMajor}
	minor := &tierSet[S]{tier: model.TierMinor}
	highest := model.TierNone
	for _, s := range a.order {
		highest = max(highest, a.tiers[s])
		if _, forced := a.forced[s]; forced {
			continue
		}
		switch a.tiers[s] {
		case model.TierMajor:
			major.members = append(major.members, s)
		case model.TierMinor:
			minor.members = append(minor.members, s)
		}
	}

	// Forced skills take the highest tier granted so far, for free.
	for _, s := range a.order {
		if _, forced := a.forced[s]; forced && a.known(s) {
			a.tiers[s] = highest
		}
	}

	byFloor := make([]S, 0, len(a.order))
	for _, s := range a.order {
		if _, forced := a.forced[s]; !forced {
			byFloor = append(byFloor, s)
		}
	}
	sort.SliceStable(byFloor, func(i, j int) bool {
		return a.ranges[byFloor[i]].Min > a.ranges[byFloor[j]].Min
	})

	for _, s := range byFloor {
		for _, set := range []*tierSet[S]{major, minor} {
			if a.tiers[s] >= set.tier || len(set.members) == 0 {
				continue
			}
			span := a.span(set.members)
			r := a.ranges[s]
			if r.Max <= span.Min {
				continue
			}
			from := a.tiers[s]
			if a.TryRaise(s, set.tier) {
				if from == model.TierMinor {
					minor.remove(s)
				}
				set.members = append(set.members, s)
				continue
			}
			exhausted = true
			cut := max(span.Min, r.Min)
			r.Max = cut
			a.ranges[s] = r
			for _, m := range set.members {
				mr := a.ranges[m]
				mr.Min = min(max(mr.Min, cut), mr.Max)
				a.ranges[m] = mr
			}
		}
	}

	for _, ref := range a.order {
		for _, s := range a.order {
			if a.tiers[s] >= a.tiers[ref] {
				continue
			}
			r, rr := a.ranges[s], a.ranges[ref]
			if r.Max > rr.Min-1 {
				r.Max = max(r.Min, rr.Min-1)
				a.ranges[s] = r
			}
			if r.Max > rr.Min {
				rr.Min = min(r.Max, rr.Max)
				a.ranges[ref] = rr
			}
			if r.Max > rr.Min {
				exhausted = true
			}
		}
	}

	return Result[S]{Skills: a.outcomes(), Exhausted: exhausted}
}

func (a *Allocator[S]) span(skills []S) model.IntRange {
	rs := make([]model.IntRange, 0, len(skills))
	for _, s := range skills {
		rs = append(rs, a.ranges[s])
	}
	return model.Span(rs...)
}

func (a *Allocator[S]) outcomes() map[S]model.SkillOutcome {
	out := make(map[S]model.SkillOutcome, len(a.order))
	for _, s := range a.order {
		out[s] = model.SkillOutcome{Range: a.ranges[s], Tier: a.tiers[s]}
	}
	return out
}
