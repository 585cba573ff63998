package model

// TraitID identifies a trait in the trait catalog.
type TraitID string

// TraitConstraint pins a trait at a specific degree.
type TraitConstraint struct {
	Trait  TraitID
	Degree int
}

// TraitDegree holds the skill associations of one degree of a trait.
type TraitDegree struct {
	Label               string
	ForcedPassions      []SkillID
	ConflictingPassions []SkillID
}

// Trait is read-only trait metadata.
type Trait struct {
	ID    TraitID
	Label string
	// Sexuality traits do not count toward the forced-trait limit of a background.
	Sexuality     bool
	ConflictsWith []TraitID
	Degrees       map[int]TraitDegree
}

// Conflicts reports whether the trait declares a conflict with other.
func (t Trait) Conflicts(other TraitID) bool {
	for _, id := range t.ConflictsWith {
		if id == other {
			return true
		}
	}
	return false
}

// Degree returns the degree data, if declared.
func (t Trait) Degree(d int) (TraitDegree, bool) {
	deg, ok := t.Degrees[d]
	return deg, ok
}
