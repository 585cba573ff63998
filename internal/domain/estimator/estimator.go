// Package estimator computes the achievable level range of a skill for a
// background and age by evaluating the level generation at fixed percentiles.
package estimator

import (
	"math"

	"github.com/okian/rosterbias/internal/domain/curve"
	"github.com/okian/rosterbias/internal/domain/model"
	"github.com/okian/rosterbias/pkg/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultUpperPercentile = 0.98
	defaultCacheSize       = 4096
	maxLevel               = 20
)

var (
	// typicalBase is the flat 0-4 base for skills that mostly come from backstories.
	typicalBase = curve.MustNew(curve.Point{X: 0, Y: 1}, curve.Point{X: 4, Y: 1})

	// levelBase favours 0.5-4 and tapers off toward 15.
	levelBase = curve.MustNew(
		curve.Point{X: 0, Y: 0},
		curve.Point{X: 0.5, Y: 150},
		curve.Point{X: 4, Y: 150},
		curve.Point{X: 5, Y: 25},
		curve.Point{X: 10, Y: 5},
		curve.Point{X: 15, Y: 0},
	)

	// ageMultiplier maps age to the upper bound of the age factor.
	ageMultiplier = curve.MustNew(
		curve.Point{X: 0, Y: 1},
		curve.Point{X: 10, Y: 1},
		curve.Point{X: 35, Y: 1},
		curve.Point{X: 60, Y: 1.6},
	)

	// diminishing flattens high raw levels.
	diminishing = curve.MustNew(
		curve.Point{X: 0, Y: 0},
		curve.Point{X: 10, Y: 10},
		curve.Point{X: 20, Y: 16},
		curve.Point{X: 27, Y: 20},
	)

	storyMultiplier = model.FloatRange{Min: 1.0, Max: 1.4}
)

type cacheKey struct {
	background string
	age        float64
	skill      model.SkillID
}

// Estimator turns a background and age into per-skill level ranges.
type Estimator struct {
	upper     float64
	cacheSize int
	cache     *lru.Cache[cacheKey, model.IntRange]
}

// New creates an Estimator.
func New(opts ...Option) *Estimator {
	e := &Estimator{
		upper:     defaultUpperPercentile,
		cacheSize: defaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		e.cache, _ = lru.New[cacheKey, model.IntRange](e.cacheSize)
	}
	return e
}

// Estimate returns the (min,max) level the skill can roll for bg at age.
// Min is the level at percentile 0 and max the level at the upper percentile.
func (e *Estimator) Estimate(bg model.LifeStageBackground, age float64, skill model.Skill) model.IntRange {
	key := cacheKey{background: bg.Key(), age: age, skill: skill.ID}
	if e.cache != nil {
		if r, ok := e.cache.Get(key); ok {
			metrics.RecordEstimatorCacheHit()
			return r
		}
		metrics.RecordEstimatorCacheMiss()
	}

	r := model.IntRange{
		Min: Level(bg, age, skill, 0),
		Max: Level(bg, age, skill, e.upper),
	}
	if e.cache != nil {
		e.cache.Add(key, r)
	}
	return r
}

// EstimateAll estimates every skill, keyed by id.
func (e *Estimator) EstimateAll(bg model.LifeStageBackground, age float64, skills []model.Skill) map[model.SkillID]model.IntRange {
	out := make(map[model.SkillID]model.IntRange, len(skills))
	for _, s := range skills {
		out[s.ID] = e.Estimate(bg, age, s)
	}
	return out
}

// Level evaluates the level generation at percentile p.
func Level(bg model.LifeStageBackground, age float64, skill model.Skill, p float64) int {
	base := levelBase
	if skill.TypicallyFromBackground {
		base = typicalBase
	}
	raw := base.ValueAtPercentile(p) + storyBonus(bg, skill.ID, p)

	ageFactor := model.FloatRange{Min: 1, Max: ageMultiplier.Evaluate(age)}
	raw *= ageFactor.Percentile(p)

	v := diminishing.Evaluate(raw)
	v = math.Max(0, math.Min(maxLevel, v))
	return int(math.Round(v))
}

// storyBonus scales each stage bonus. Positive bonuses grow with p and
// negative ones shrink, so the result is non-decreasing in p.
func storyBonus(bg model.LifeStageBackground, skill model.SkillID, p float64) float64 {
	var bonus float64
	for _, stage := range bg.Stages() {
		delta, ok := stage.SkillBonuses[skill]
		if !ok || delta == 0 {
			continue
		}
		mult := storyMultiplier.Percentile(p)
		if delta < 0 {
			mult = storyMultiplier.Percentile(1 - p)
		}
		bonus += float64(delta) * mult
	}
	return bonus
}
