package selector

import (
	"math"

	"github.com/okian/rosterbias/internal/domain/catalog"
	"github.com/okian/rosterbias/internal/domain/model"
)

// MinScore is the score of a candidate that must never win against a viable one.
const MinScore = -math.MaxFloat64

// Scorer rates a candidate background. Implementations must be pure.
type Scorer interface {
	Score(bg model.LifeStageBackground) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(bg model.LifeStageBackground) float64

// Score implements Scorer.
func (f ScorerFunc) Score(bg model.LifeStageBackground) float64 { return f(bg) }

// SkillWeight weights one skill's background bonus.
type SkillWeight struct {
	Skill  model.SkillID
	Weight float64
}

// TraitWeight rewards backgrounds that force a trait.
type TraitWeight struct {
	Trait  model.TraitID
	Weight float64
}

// TeamShortfallWeighting scores a background by how much its bonuses cover the
// skills the team still lacks. Weights are listed in requirement order so the
// sum is evaluated in a stable order.
type TeamShortfallWeighting struct {
	Weights []SkillWeight
	Skills  catalog.Skills
}

// Score implements Scorer. A background that disables any still-wanted skill
// scores MinScore.
func (w TeamShortfallWeighting) Score(bg model.LifeStageBackground) float64 {
	if disablesWanted(bg, w.Weights, w.Skills) {
		return MinScore
	}
	return weightedBonus(bg, w.Weights)
}

// TraitAndSkillWeighting scores explicit skill and trait preferences, used for
// single-slot re-rolls.
type TraitAndSkillWeighting struct {
	SkillWeights []SkillWeight
	TraitWeights []TraitWeight
	Skills       catalog.Skills
}

// Score implements Scorer.
func (w TraitAndSkillWeighting) Score(bg model.LifeStageBackground) float64 {
	if disablesWanted(bg, w.SkillWeights, w.Skills) {
		return MinScore
	}
	score := weightedBonus(bg, w.SkillWeights)
	forced := bg.ForcedTraits()
	for _, tw := range w.TraitWeights {
		for _, f := range forced {
			if f.Trait == tw.Trait {
				score += tw.Weight
				break
			}
		}
	}
	return score
}

// FixedCategoryWeighting scores a background by the categories of its stages.
type FixedCategoryWeighting struct {
	Weights map[string]float64
}

// Score implements Scorer.
func (w FixedCategoryWeighting) Score(bg model.LifeStageBackground) float64 {
	var score float64
	for _, c := range bg.Categories() {
		score += w.Weights[c]
	}
	return score
}

func weightedBonus(bg model.LifeStageBackground, weights []SkillWeight) float64 {
	var score float64
	for _, sw := range weights {
		score += sw.Weight * float64(bg.SkillBonus(sw.Skill))
	}
	return score
}

func disablesWanted(bg model.LifeStageBackground, weights []SkillWeight, skills catalog.Skills) bool {
	if skills == nil {
		return false
	}
	disabled := bg.DisabledWork()
	if len(disabled) == 0 {
		return false
	}
	for _, sw := range weights {
		if sw.Weight <= 0 {
			continue
		}
		if skill, ok := skills.Skill(sw.Skill); ok && skill.DisabledBy(disabled) {
			return true
		}
	}
	return false
}
