package solver

import (
	"sort"

	"github.com/okian/rosterbias/internal/domain/model"
)

// Slot is one roster position in a team request.
type Slot struct {
	Index  int
	Locked bool
	// Age of the pawn. Zero means sample one.
	Age            float64
	Gender         model.Gender
	Categories     []string
	RequiredTraits []model.TraitConstraint
	// Disallowed skills never receive a tier in this slot.
	Disallowed []model.SkillID
	// PointsBudget overrides the solver budget when positive.
	PointsBudget float64

	// Locked slots carry their existing character.
	Background model.LifeStageBackground
	Levels     map[model.SkillID]int
	Tiers      map[model.SkillID]model.Tier
}

// TeamRequest is the input of Solve.
type TeamRequest struct {
	Slots        []Slot
	Requirements []model.SkillRequirement
	// Variation jitters requirement weights. The zero value uses the solver default.
	Variation model.FloatRange
	// Categories is the filter for slots that set none.
	Categories []string
}

// SlotResult is the outcome for one slot.
type SlotResult struct {
	Index      int
	Locked     bool
	Age        float64
	Background model.LifeStageBackground
	Skills     map[model.SkillID]model.SkillOutcome
	PointsUsed float64
	Exhausted  bool
}

// RequirementShortfall reports goal units no slot could take.
type RequirementShortfall struct {
	Skill     model.SkillID
	Goal      model.Goal
	Remaining int
}

// SlotFailure records a slot that got no background.
type SlotFailure struct {
	Index int
	Err   error
}

// TeamResult is the output of Solve. Slots holds an entry for every slot
// index; failed slots map to nil.
type TeamResult struct {
	Slots    map[int]*SlotResult
	Unmet    []RequirementShortfall
	Failures []SlotFailure
}

// ExhaustedSlots lists the indexes of slots that ran out of budget.
func (r *TeamResult) ExhaustedSlots() []int {
	var out []int
	for idx, s := range r.Slots {
		if s != nil && s.Exhausted {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}

// AssignRequest describes a single-slot re-roll.
type AssignRequest struct {
	Age            float64
	Gender         model.Gender
	Categories     []string
	RequiredTraits []model.TraitConstraint
	Disallowed     []model.SkillID
	PointsBudget   float64
	// Exclude lists backstory ids that must not be used, e.g. ones held by
	// the rest of the roster.
	Exclude []string
}

// Assignment is the outcome of AssignOne.
type Assignment struct {
	Age        float64
	Background model.LifeStageBackground
	Skills     map[model.SkillID]model.SkillOutcome
	PointsUsed float64
	Exhausted  bool
}
