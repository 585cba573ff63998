// Package model contains the domain types shared by the solver packages.
package model

// SkillID identifies a skill in the skill catalog.
type SkillID string

// Skill is read-only skill metadata.
type Skill struct {
	ID    SkillID
	Label string
	// Order is the display order; lower comes first.
	Order int
	// TypicallyFromBackground marks skills whose level mostly comes from backstory bonuses.
	TypicallyFromBackground bool
	// DisablingWork lists work tags that disable the skill entirely.
	DisablingWork WorkTags
}

// DisabledBy reports whether any of tags disables the skill.
func (s Skill) DisabledBy(tags WorkTags) bool {
	return s.DisablingWork.Overlaps(tags)
}

// SkillOutcome is the final per-skill result for a slot.
type SkillOutcome struct {
	Range IntRange
	Tier  Tier
}

// WorkTag names a category of work a background can require or disable.
type WorkTag string

// WorkTags is a small set of work tags.
type WorkTags []WorkTag

// Has reports whether tag is present.
func (w WorkTags) Has(tag WorkTag) bool {
	for _, t := range w {
		if t == tag {
			return true
		}
	}
	return false
}

// Overlaps reports whether the two sets share a tag.
func (w WorkTags) Overlaps(other WorkTags) bool {
	for _, t := range w {
		if other.Has(t) {
			return true
		}
	}
	return false
}

// Union returns the tags of both sets without duplicates.
func (w WorkTags) Union(other WorkTags) WorkTags {
	out := make(WorkTags, 0, len(w)+len(other))
	for _, t := range w {
		if !out.Has(t) {
			out = append(out, t)
		}
	}
	for _, t := range other {
		if !out.Has(t) {
			out = append(out, t)
		}
	}
	return out
}
