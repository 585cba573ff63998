package model

// Goal counts how many slots should hold a skill at each level.
type Goal struct {
	Major  int
	Minor  int
	Usable int
}

// Total is the number of slots the goal asks for.
func (g Goal) Total() int { return g.Major + g.Minor + g.Usable }

// TierFor returns the tier implied by the number of slots already used.
// The second result is false once the goal is fully consumed; a TierNone
// result with true means the slot only has to be usable.
func (g Goal) TierFor(used int) (Tier, bool) {
	switch {
	case used < g.Major:
		return TierMajor, true
	case used < g.Major+g.Minor:
		return TierMinor, true
	case used < g.Total():
		return TierNone, true
	default:
		return TierNone, false
	}
}

// SkillRequirement is a team-wide target for one skill.
type SkillRequirement struct {
	Skill SkillID
	Goal
}
