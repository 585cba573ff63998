package model

import (
	"fmt"
	"strings"
)

// Stage is the life stage a backstory belongs to.
type Stage int

// Life stages.
const (
	StageChildhood Stage = iota
	StageAdulthood
)

func (s Stage) String() string {
	if s == StageAdulthood {
		return "adulthood"
	}
	return "childhood"
}

// ParseStage accepts childhood or adulthood.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "childhood":
		return StageChildhood, nil
	case "adulthood":
		return StageAdulthood, nil
	default:
		return StageChildhood, fmt.Errorf("unknown stage %q", s)
	}
}

// Gender constrains which biographies a slot may take.
type Gender int

// Genders. GenderEither accepts any biography.
const (
	GenderEither Gender = iota
	GenderMale
	GenderFemale
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "either"
	}
}

// ParseGender accepts male, female, either or empty.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "either", "any":
		return GenderEither, nil
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	default:
		return GenderEither, fmt.Errorf("unknown gender %q", s)
	}
}

// Accepts reports whether a biography of gender other satisfies g.
func (g Gender) Accepts(other Gender) bool {
	return g == GenderEither || other == GenderEither || g == other
}

// Backstory is one life-stage template.
type Backstory struct {
	ID           string
	Title        string
	Stage        Stage
	Shuffleable  bool
	Categories   []string
	SkillBonuses map[SkillID]int
	DisabledWork WorkTags
	RequiredWork WorkTags
	ForcedTraits []TraitConstraint
}

// InCategory reports whether the backstory belongs to any of categories.
// An empty filter matches everything.
func (b *Backstory) InCategory(categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, want := range categories {
		for _, c := range b.Categories {
			if c == want {
				return true
			}
		}
	}
	return false
}

// Biography is a fixed, pre-authored childhood and adulthood pair.
type Biography struct {
	ID        string
	Name      string
	Gender    Gender
	Childhood *Backstory
	Adulthood *Backstory
}

// LifeStageBackground is the unit assigned to a slot: either a synthesized
// childhood/adulthood pair or a fixed biography.
type LifeStageBackground struct {
	Childhood *Backstory
	Adulthood *Backstory
	Biography *Biography
}

// FromBiography wraps a fixed biography.
func FromBiography(b *Biography) LifeStageBackground {
	return LifeStageBackground{Childhood: b.Childhood, Adulthood: b.Adulthood, Biography: b}
}

// Key identifies the background for caching and logging.
func (l LifeStageBackground) Key() string {
	if l.Biography != nil {
		return "bio:" + l.Biography.ID
	}
	var child, adult string
	if l.Childhood != nil {
		child = l.Childhood.ID
	}
	if l.Adulthood != nil {
		adult = l.Adulthood.ID
	}
	return child + "/" + adult
}

// IsZero reports whether no stage is set.
func (l LifeStageBackground) IsZero() bool {
	return l.Childhood == nil && l.Adulthood == nil && l.Biography == nil
}

// Stages returns the non-nil stages, childhood first.
func (l LifeStageBackground) Stages() []*Backstory {
	out := make([]*Backstory, 0, 2)
	if l.Childhood != nil {
		out = append(out, l.Childhood)
	}
	if l.Adulthood != nil {
		out = append(out, l.Adulthood)
	}
	return out
}

// SkillBonus sums the stage bonuses for skill.
func (l LifeStageBackground) SkillBonus(skill SkillID) int {
	total := 0
	for _, s := range l.Stages() {
		total += s.SkillBonuses[skill]
	}
	return total
}

// DisabledWork is the union of the stages' disabled work tags.
func (l LifeStageBackground) DisabledWork() WorkTags {
	var out WorkTags
	for _, s := range l.Stages() {
		out = out.Union(s.DisabledWork)
	}
	return out
}

// Disables reports whether the combined work tags disable skill.
func (l LifeStageBackground) Disables(skill Skill) bool {
	return skill.DisabledBy(l.DisabledWork())
}

// ForcedTraits concatenates the stages' forced traits.
func (l LifeStageBackground) ForcedTraits() []TraitConstraint {
	var out []TraitConstraint
	for _, s := range l.Stages() {
		out = append(out, s.ForcedTraits...)
	}
	return out
}

// Categories lists the distinct categories of both stages.
func (l LifeStageBackground) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range l.Stages() {
		for _, c := range s.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
