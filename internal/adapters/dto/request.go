// Package dto holds the wire shapes of solve and assign requests and results
// and converts them to and from domain types.
package dto

import (
	"fmt"
	"sort"

	"github.com/okian/rosterbias/internal/domain/catalog"
	"github.com/okian/rosterbias/internal/domain/model"
	"github.com/okian/rosterbias/internal/domain/selector"
	"github.com/okian/rosterbias/internal/domain/solver"

	"gopkg.in/yaml.v3"
)

// RangeDTO is a closed float range.
type RangeDTO struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// TraitDTO pins a trait degree.
type TraitDTO struct {
	Trait  string `json:"trait" yaml:"trait"`
	Degree int    `json:"degree,omitempty" yaml:"degree,omitempty"`
}

// RequirementDTO is a team-wide skill goal.
type RequirementDTO struct {
	Skill  string `json:"skill" yaml:"skill"`
	Major  int    `json:"major,omitempty" yaml:"major,omitempty"`
	Minor  int    `json:"minor,omitempty" yaml:"minor,omitempty"`
	Usable int    `json:"usable,omitempty" yaml:"usable,omitempty"`
}

// SlotDTO is one roster slot. Locked slots name their background by
// biography id or by childhood and adulthood ids.
type SlotDTO struct {
	Index          int               `json:"index" yaml:"index"`
	Locked         bool              `json:"locked,omitempty" yaml:"locked,omitempty"`
	Age            float64           `json:"age,omitempty" yaml:"age,omitempty"`
	Gender         string            `json:"gender,omitempty" yaml:"gender,omitempty"`
	Categories     []string          `json:"categories,omitempty" yaml:"categories,omitempty"`
	RequiredTraits []TraitDTO        `json:"required_traits,omitempty" yaml:"required_traits,omitempty"`
	Disallowed     []string          `json:"disallowed,omitempty" yaml:"disallowed,omitempty"`
	PointsBudget   float64           `json:"points_budget,omitempty" yaml:"points_budget,omitempty"`
	Biography      string            `json:"biography,omitempty" yaml:"biography,omitempty"`
	Childhood      string            `json:"childhood,omitempty" yaml:"childhood,omitempty"`
	Adulthood      string            `json:"adulthood,omitempty" yaml:"adulthood,omitempty"`
	Levels         map[string]int    `json:"levels,omitempty" yaml:"levels,omitempty"`
	Tiers          map[string]string `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

// SolveRequest is the body of POST /solve and the CLI request file.
type SolveRequest struct {
	Slots        []SlotDTO        `json:"slots" yaml:"slots"`
	Requirements []RequirementDTO `json:"requirements,omitempty" yaml:"requirements,omitempty"`
	Variation    *RangeDTO        `json:"variation,omitempty" yaml:"variation,omitempty"`
	Categories   []string         `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// AssignRequest is the body of POST /assign. Weights choose the scorer:
// skill or trait weights score by bonuses and forced traits, category
// weights alone score by category.
type AssignRequest struct {
	Age             float64            `json:"age,omitempty" yaml:"age,omitempty"`
	Gender          string             `json:"gender,omitempty" yaml:"gender,omitempty"`
	Categories      []string           `json:"categories,omitempty" yaml:"categories,omitempty"`
	RequiredTraits  []TraitDTO         `json:"required_traits,omitempty" yaml:"required_traits,omitempty"`
	Disallowed      []string           `json:"disallowed,omitempty" yaml:"disallowed,omitempty"`
	PointsBudget    float64            `json:"points_budget,omitempty" yaml:"points_budget,omitempty"`
	Exclude         []string           `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	SkillWeights    map[string]float64 `json:"skill_weights,omitempty" yaml:"skill_weights,omitempty"`
	TraitWeights    map[string]float64 `json:"trait_weights,omitempty" yaml:"trait_weights,omitempty"`
	CategoryWeights map[string]float64 `json:"category_weights,omitempty" yaml:"category_weights,omitempty"`
}

// DecodeSolveRequest parses a YAML or JSON request document.
func DecodeSolveRequest(data []byte) (SolveRequest, error) {
	var req SolveRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return SolveRequest{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return req, nil
}

// Resolver looks up the catalog entries a request refers to.
type Resolver interface {
	catalog.Backgrounds
	catalog.Skills
}

// ToDomain converts the request, resolving background and skill ids.
func (r SolveRequest) ToDomain(res Resolver) (solver.TeamRequest, error) {
	out := solver.TeamRequest{Categories: r.Categories}
	if r.Variation != nil {
		v, err := model.NewFloatRange(r.Variation.Min, r.Variation.Max)
		if err != nil {
			return solver.TeamRequest{}, fmt.Errorf("%w: variation: %w", ErrInvalidPayload, err)
		}
		out.Variation = v
	}
	for _, req := range r.Requirements {
		if _, ok := res.Skill(model.SkillID(req.Skill)); !ok {
			return solver.TeamRequest{}, fmt.Errorf("%w: skill %q", ErrUnknownRef, req.Skill)
		}
		out.Requirements = append(out.Requirements, model.SkillRequirement{
			Skill: model.SkillID(req.Skill),
			Goal:  model.Goal{Major: req.Major, Minor: req.Minor, Usable: req.Usable},
		})
	}
	for _, s := range r.Slots {
		slot, err := s.toDomain(res)
		if err != nil {
			return solver.TeamRequest{}, fmt.Errorf("slot %d: %w", s.Index, err)
		}
		out.Slots = append(out.Slots, slot)
	}
	return out, nil
}

func (s SlotDTO) toDomain(res Resolver) (solver.Slot, error) {
	gender, err := model.ParseGender(s.Gender)
	if err != nil {
		return solver.Slot{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	disallowed, err := skillIDs(res, s.Disallowed)
	if err != nil {
		return solver.Slot{}, err
	}
	slot := solver.Slot{
		Index:          s.Index,
		Locked:         s.Locked,
		Age:            s.Age,
		Gender:         gender,
		Categories:     s.Categories,
		RequiredTraits: traits(s.RequiredTraits),
		Disallowed:     disallowed,
		PointsBudget:   s.PointsBudget,
	}
	if !s.Locked {
		return slot, nil
	}

	slot.Background, err = background(res, s.Biography, s.Childhood, s.Adulthood)
	if err != nil {
		return solver.Slot{}, err
	}
	slot.Levels = make(map[model.SkillID]int, len(s.Levels))
	for id, lvl := range s.Levels {
		if _, ok := res.Skill(model.SkillID(id)); !ok {
			return solver.Slot{}, fmt.Errorf("%w: skill %q", ErrUnknownRef, id)
		}
		slot.Levels[model.SkillID(id)] = lvl
	}
	slot.Tiers = make(map[model.SkillID]model.Tier, len(s.Tiers))
	for id, raw := range s.Tiers {
		if _, ok := res.Skill(model.SkillID(id)); !ok {
			return solver.Slot{}, fmt.Errorf("%w: skill %q", ErrUnknownRef, id)
		}
		tier, err := model.ParseTier(raw)
		if err != nil {
			return solver.Slot{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		slot.Tiers[model.SkillID(id)] = tier
	}
	return slot, nil
}

func background(res Resolver, bio, child, adult string) (model.LifeStageBackground, error) {
	if bio != "" {
		b, ok := res.Biography(bio)
		if !ok {
			return model.LifeStageBackground{}, fmt.Errorf("%w: biography %q", ErrUnknownRef, bio)
		}
		return model.FromBiography(b), nil
	}
	var out model.LifeStageBackground
	if child != "" {
		b, ok := res.Backstory(child)
		if !ok {
			return model.LifeStageBackground{}, fmt.Errorf("%w: backstory %q", ErrUnknownRef, child)
		}
		out.Childhood = b
	}
	if adult != "" {
		b, ok := res.Backstory(adult)
		if !ok {
			return model.LifeStageBackground{}, fmt.Errorf("%w: backstory %q", ErrUnknownRef, adult)
		}
		out.Adulthood = b
	}
	return out, nil
}

func skillIDs(res Resolver, ids []string) ([]model.SkillID, error) {
	out := make([]model.SkillID, 0, len(ids))
	for _, id := range ids {
		if _, ok := res.Skill(model.SkillID(id)); !ok {
			return nil, fmt.Errorf("%w: skill %q", ErrUnknownRef, id)
		}
		out = append(out, model.SkillID(id))
	}
	return out, nil
}

func traits(in []TraitDTO) []model.TraitConstraint {
	out := make([]model.TraitConstraint, 0, len(in))
	for _, t := range in {
		out = append(out, model.TraitConstraint{Trait: model.TraitID(t.Trait), Degree: t.Degree})
	}
	return out
}

// ToDomain converts the request and builds the scorer its weights describe.
func (r AssignRequest) ToDomain(res Resolver) (solver.AssignRequest, selector.Scorer, error) {
	gender, err := model.ParseGender(r.Gender)
	if err != nil {
		return solver.AssignRequest{}, nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	disallowed, err := skillIDs(res, r.Disallowed)
	if err != nil {
		return solver.AssignRequest{}, nil, err
	}
	req := solver.AssignRequest{
		Age:            r.Age,
		Gender:         gender,
		Categories:     r.Categories,
		RequiredTraits: traits(r.RequiredTraits),
		Disallowed:     disallowed,
		PointsBudget:   r.PointsBudget,
		Exclude:        r.Exclude,
	}

	if len(r.SkillWeights) == 0 && len(r.TraitWeights) == 0 && len(r.CategoryWeights) > 0 {
		return req, selector.FixedCategoryWeighting{Weights: r.CategoryWeights}, nil
	}
	scorer := selector.TraitAndSkillWeighting{Skills: res}
	for _, id := range sortedKeys(r.SkillWeights) {
		if _, ok := res.Skill(model.SkillID(id)); !ok {
			return solver.AssignRequest{}, nil, fmt.Errorf("%w: skill %q", ErrUnknownRef, id)
		}
		scorer.SkillWeights = append(scorer.SkillWeights, selector.SkillWeight{Skill: model.SkillID(id), Weight: r.SkillWeights[id]})
	}
	for _, id := range sortedKeys(r.TraitWeights) {
		scorer.TraitWeights = append(scorer.TraitWeights, selector.TraitWeight{Trait: model.TraitID(id), Weight: r.TraitWeights[id]})
	}
	return req, scorer, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
