// Package solver assigns backgrounds to a roster and spends each slot's
// investment budget so the team meets its skill requirements.
//
// A solve runs in three phases: backgrounds are picked slot by slot in index
// order, requirement units are handed out to the best placed slots, and every
// slot is finalized into per-skill ranges and tiers.
package solver

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okian/rosterbias/internal/domain/allocator"
	"github.com/okian/rosterbias/internal/domain/catalog"
	"github.com/okian/rosterbias/internal/domain/curve"
	"github.com/okian/rosterbias/internal/domain/estimator"
	"github.com/okian/rosterbias/internal/domain/model"
	"github.com/okian/rosterbias/internal/domain/random"
	"github.com/okian/rosterbias/internal/domain/selector"
	"github.com/okian/rosterbias/pkg/logger"
	"github.com/okian/rosterbias/pkg/metrics"
)

// populationAges weights how likely a pawn is to be a given age.
var populationAges = curve.MustNew(
	curve.Point{X: 14, Y: 0},
	curve.Point{X: 16, Y: 100},
	curve.Point{X: 25, Y: 100},
	curve.Point{X: 40, Y: 85},
	curve.Point{X: 60, Y: 35},
	curve.Point{X: 80, Y: 5},
	curve.Point{X: 90, Y: 0},
)

// Solver runs team solves and single-slot assignments over read-only catalogs.
// It is not safe for concurrent use: callers serialize access so the
// percentile source is drawn in a stable order.
type Solver struct {
	backgrounds catalog.Backgrounds
	skills      catalog.Skills
	traits      catalog.Traits

	source        random.Source
	estimator     *estimator.Estimator
	selector      *selector.Selector
	logger        logger.Logger
	budget        float64
	variation     model.FloatRange
	ages          model.FloatRange
	ageCurve      *curve.Curve
	maxCandidates int
}

// New creates a Solver.
func New(backgrounds catalog.Backgrounds, skills catalog.Skills, traits catalog.Traits, opts ...Option) *Solver {
	s := &Solver{
		backgrounds: backgrounds,
		skills:      skills,
		traits:      traits,
		source:      random.NewSeeded(0),
		logger:      logger.Nop(),
		budget:      allocator.DefaultBudget,
		variation:   model.FloatRange{Min: 1, Max: 5},
		ages:        model.FloatRange{Min: 20, Max: 65},
		ageCurve:    populationAges,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.estimator == nil {
		s.estimator = estimator.New()
	}
	s.selector = selector.New(backgrounds, traits,
		selector.WithMaxCandidates(s.maxCandidates),
		selector.WithLogger(s.logger),
	)
	return s
}

// slotState is the working state of one slot during a solve.
type slotState struct {
	slot  Slot
	age   float64
	bg    model.LifeStageBackground
	alloc *allocator.Allocator[model.SkillID]
}

// Solve assigns every slot of req. Slots whose background cannot be chosen
// are reported in Failures and map to nil; they do not abort the solve.
func (s *Solver) Solve(ctx context.Context, req TeamRequest) (*TeamResult, error) {
	if err := s.checkCatalog(); err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}
	variation := req.Variation
	if variation == (model.FloatRange{}) {
		variation = s.variation
	}

	slots := append([]Slot(nil), req.Slots...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Index < slots[j].Index })

	result := &TeamResult{Slots: make(map[int]*SlotResult, len(slots))}
	excluded := selector.NewExclusionSet()
	states := make([]*slotState, 0, len(slots))

	// Locked slots are fixed before anything is selected.
	for _, slot := range slots {
		if !slot.Locked {
			continue
		}
		if !slot.Background.IsZero() {
			excluded.Add(slot.Background)
		}
		states = append(states, &slotState{
			slot:  slot,
			age:   slot.Age,
			bg:    slot.Background,
			alloc: allocator.NewPinned(s.skillOrder(), slot.Levels, slot.Tiers),
		})
	}

	// Phase A: backgrounds, in index order.
	for _, slot := range slots {
		if slot.Locked {
			continue
		}
		age, err := s.ageFor(slot.Age)
		if err != nil {
			return nil, err
		}
		weights := s.shortfallWeights(req.Requirements, states, variation)
		q := selector.Query{
			Categories:     firstNonEmpty(slot.Categories, req.Categories),
			Gender:         slot.Gender,
			Excluded:       excluded,
			RequiredTraits: slot.RequiredTraits,
		}
		bg, err := s.selector.SelectBest(ctx, q, selector.TeamShortfallWeighting{Weights: weights, Skills: s.skills})
		if err != nil {
			result.Failures = append(result.Failures, SlotFailure{Index: slot.Index, Err: err})
			result.Slots[slot.Index] = nil
			metrics.RecordSlotFailure()
			s.logger.Warn(ctx, "slot left without background",
				logger.Int("slot", slot.Index),
				logger.Error(err),
			)
			continue
		}
		st := &slotState{slot: slot, age: age, bg: bg}
		st.alloc = s.seed(bg, age, slot.RequiredTraits, slot.Disallowed, slot.PointsBudget)
		states = append(states, st)
		s.logger.Debug(ctx, "slot background assigned",
			logger.Int("slot", slot.Index),
			logger.String("background", bg.Key()),
			logger.Float64("age", age),
		)
	}

	// Phase B: requirement units.
	for _, r := range s.orderRequirements(req.Requirements) {
		remaining := s.allocate(r, states)
		if remaining > 0 {
			result.Unmet = append(result.Unmet, RequirementShortfall{Skill: r.Skill, Goal: r.Goal, Remaining: remaining})
			metrics.RecordUnmetRequirement(remaining)
			s.logger.Warn(ctx, "requirement not met",
				logger.String("skill", string(r.Skill)),
				logger.Int("remaining", remaining),
			)
		}
	}

	// Phase C: finalize.
	for _, st := range states {
		res := st.alloc.Finalize()
		result.Slots[st.slot.Index] = &SlotResult{
			Index:      st.slot.Index,
			Locked:     st.slot.Locked,
			Age:        st.age,
			Background: st.bg,
			Skills:     res.Skills,
			PointsUsed: st.alloc.PointsUsed(),
			Exhausted:  res.Exhausted,
		}
		if res.Exhausted {
			metrics.RecordExhaustedSlot()
			s.logger.Warn(ctx, "slot ran out of investment budget",
				logger.Int("slot", st.slot.Index),
				logger.Float64("points_used", st.alloc.PointsUsed()),
			)
		}
	}
	return result, nil
}

func (s *Solver) checkCatalog() error {
	if s.backgrounds == nil || s.skills == nil {
		return ErrEmptyCatalog
	}
	if len(s.skills.Skills()) == 0 {
		return fmt.Errorf("%w: no skills", ErrEmptyCatalog)
	}
	if len(s.backgrounds.Biographies(model.GenderEither)) == 0 &&
		(len(s.backgrounds.Childhoods(nil)) == 0 || len(s.backgrounds.Adulthoods(nil)) == 0) {
		return fmt.Errorf("%w: no backgrounds", ErrEmptyCatalog)
	}
	return nil
}

func (s *Solver) validate(req TeamRequest) error {
	if len(req.Slots) == 0 {
		return ErrEmptyTeam
	}
	if req.Variation.Min > req.Variation.Max || req.Variation.Min < 0 {
		return fmt.Errorf("%w: variation %v..%v", ErrInvalidRequest, req.Variation.Min, req.Variation.Max)
	}
	seen := make(map[int]struct{}, len(req.Slots))
	for _, slot := range req.Slots {
		if _, dup := seen[slot.Index]; dup {
			return fmt.Errorf("%w: duplicate slot index %d", ErrInvalidRequest, slot.Index)
		}
		seen[slot.Index] = struct{}{}
		if slot.Age < 0 {
			return fmt.Errorf("%w: slot %d has negative age", ErrInvalidRequest, slot.Index)
		}
	}
	skills := make(map[model.SkillID]struct{}, len(req.Requirements))
	for _, r := range req.Requirements {
		if _, ok := s.skills.Skill(r.Skill); !ok {
			return fmt.Errorf("%w: unknown skill %q", ErrInvalidRequest, r.Skill)
		}
		if _, dup := skills[r.Skill]; dup {
			return fmt.Errorf("%w: duplicate requirement for %q", ErrInvalidRequest, r.Skill)
		}
		skills[r.Skill] = struct{}{}
		if r.Major < 0 || r.Minor < 0 || r.Usable < 0 {
			return fmt.Errorf("%w: negative goal for %q", ErrInvalidRequest, r.Skill)
		}
	}
	return nil
}

func (s *Solver) skillOrder() []model.SkillID {
	skills := s.skills.Skills()
	out := make([]model.SkillID, len(skills))
	for i, sk := range skills {
		out[i] = sk.ID
	}
	return out
}

// ageFor returns age, or samples one from the age curve restricted to the
// configured bounds when age is zero.
func (s *Solver) ageFor(age float64) (float64, error) {
	if age > 0 {
		return age, nil
	}
	ages, err := s.ageCurve.SubRange(s.ages.Min, s.ages.Max)
	if err != nil {
		return 0, fmt.Errorf("%w: age range: %w", ErrInvalidRequest, err)
	}
	return math.Round(ages.ValueAtPercentile(s.source.Percentile())), nil
}

// shortfallWeights weights each requirement by the units not yet covered by
// the slots already settled, jittered by one draw from variation.
func (s *Solver) shortfallWeights(reqs []model.SkillRequirement, settled []*slotState, variation model.FloatRange) []selector.SkillWeight {
	out := make([]selector.SkillWeight, 0, len(reqs))
	for _, r := range reqs {
		covered := 0
		for _, st := range settled {
			if st.slot.Locked {
				if st.alloc.Tier(r.Skill) > model.TierNone {
					covered++
				}
				continue
			}
			if st.bg.SkillBonus(r.Skill) > 0 {
				covered++
			}
		}
		outstanding := max(0, r.Total()-covered)
		jitter := variation.Percentile(s.source.Percentile())
		out = append(out, selector.SkillWeight{Skill: r.Skill, Weight: float64(outstanding) * jitter})
	}
	return out
}

// seed estimates every skill for bg at age and applies trait and work-tag
// restrictions to a fresh allocator.
func (s *Solver) seed(bg model.LifeStageBackground, age float64, required []model.TraitConstraint, disallowed []model.SkillID, budget float64) *allocator.Allocator[model.SkillID] {
	skills := s.skills.Skills()
	order := make([]model.SkillID, len(skills))
	ranges := s.estimator.EstimateAll(bg, age, skills)

	blocked := make(map[model.SkillID]struct{})
	for _, id := range disallowed {
		blocked[id] = struct{}{}
	}
	for i, sk := range skills {
		order[i] = sk.ID
		if bg.Disables(sk) {
			ranges[sk.ID] = model.IntRange{}
			blocked[sk.ID] = struct{}{}
		}
	}

	var forced []model.SkillID
	constraints := append(bg.ForcedTraits(), required...)
	for _, c := range constraints {
		t, ok := s.trait(c.Trait)
		if !ok {
			continue
		}
		deg, ok := t.Degree(c.Degree)
		if !ok {
			continue
		}
		for _, id := range deg.ConflictingPassions {
			blocked[id] = struct{}{}
		}
		forced = append(forced, deg.ForcedPassions...)
	}

	keep := forced[:0]
	for _, id := range forced {
		if _, no := blocked[id]; !no {
			keep = append(keep, id)
		}
	}
	blockedList := make([]model.SkillID, 0, len(blocked))
	for _, id := range order {
		if _, ok := blocked[id]; ok {
			blockedList = append(blockedList, id)
		}
	}

	if budget <= 0 {
		budget = s.budget
	}
	return allocator.New(order, ranges,
		allocator.WithBudget[model.SkillID](budget),
		allocator.WithDisallowed(blockedList...),
		allocator.WithForcedTier(keep...),
	)
}

func (s *Solver) trait(id model.TraitID) (model.Trait, bool) {
	if s.traits == nil {
		return model.Trait{}, false
	}
	return s.traits.Trait(id)
}

// orderRequirements puts backstory-typical skills first, then larger goals.
func (s *Solver) orderRequirements(reqs []model.SkillRequirement) []model.SkillRequirement {
	out := append([]model.SkillRequirement(nil), reqs...)
	typical := func(id model.SkillID) bool {
		sk, ok := s.skills.Skill(id)
		return ok && sk.TypicallyFromBackground
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ta, tb := typical(a.Skill), typical(b.Skill); ta != tb {
			return ta
		}
		if a.Major != b.Major {
			return a.Major > b.Major
		}
		if a.Minor != b.Minor {
			return a.Minor > b.Minor
		}
		return a.Usable > b.Usable
	})
	return out
}

// allocate hands out the units of r to unlocked slots and returns how many
// were left over.
func (s *Solver) allocate(r model.SkillRequirement, states []*slotState) int {
	remaining := r.Total()
	if remaining == 0 {
		return 0
	}
	sk, _ := s.skills.Skill(r.Skill)

	candidates := make([]*slotState, 0, len(states))
	for _, st := range states {
		if !st.slot.Locked {
			candidates = append(candidates, st)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		maxA, maxB := a.alloc.Range(r.Skill).Max, b.alloc.Range(r.Skill).Max
		usedA, usedB := a.alloc.PointsUsed(), b.alloc.PointsUsed()
		if sk.TypicallyFromBackground {
			if maxA != maxB {
				return maxA > maxB
			}
			if usedA != usedB {
				return usedA < usedB
			}
		} else {
			if usedA != usedB {
				return usedA < usedB
			}
			if maxA != maxB {
				return maxA > maxB
			}
		}
		return a.slot.Index < b.slot.Index
	})

	for _, st := range candidates {
		if remaining == 0 {
			break
		}
		if st.alloc.LockInRequirement(r.Skill, r.Goal, remaining) {
			remaining--
		}
	}
	return remaining
}

func firstNonEmpty(a, b []string) []string {
	if len(a) > 0 {
		return a
	}
	return b
}
