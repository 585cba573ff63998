package dto

import (
	"sort"
	"time"

	"github.com/okian/rosterbias/internal/adapters/repository"
	"github.com/okian/rosterbias/internal/domain/catalog"
	"github.com/okian/rosterbias/internal/domain/model"
	"github.com/okian/rosterbias/internal/domain/solver"
)

// BackgroundDTO names the backstories assigned to a slot.
type BackgroundDTO struct {
	Key       string `json:"key" yaml:"key"`
	Biography string `json:"biography,omitempty" yaml:"biography,omitempty"`
	Childhood string `json:"childhood,omitempty" yaml:"childhood,omitempty"`
	Adulthood string `json:"adulthood,omitempty" yaml:"adulthood,omitempty"`
}

// SkillDTO is one skill outcome.
type SkillDTO struct {
	Skill string `json:"skill" yaml:"skill"`
	Min   int    `json:"min" yaml:"min"`
	Max   int    `json:"max" yaml:"max"`
	Tier  string `json:"tier" yaml:"tier"`
}

// SlotResultDTO is the outcome for one slot.
type SlotResultDTO struct {
	Index      int           `json:"index" yaml:"index"`
	Locked     bool          `json:"locked,omitempty" yaml:"locked,omitempty"`
	Age        float64       `json:"age" yaml:"age"`
	Background BackgroundDTO `json:"background" yaml:"background"`
	Skills     []SkillDTO    `json:"skills" yaml:"skills"`
	PointsUsed float64       `json:"points_used" yaml:"points_used"`
	Exhausted  bool          `json:"exhausted,omitempty" yaml:"exhausted,omitempty"`
}

// ShortfallDTO is a requirement the roster could not cover.
type ShortfallDTO struct {
	Skill     string `json:"skill" yaml:"skill"`
	Remaining int    `json:"remaining" yaml:"remaining"`
}

// FailureDTO is a slot with no feasible background.
type FailureDTO struct {
	Index int    `json:"index" yaml:"index"`
	Error string `json:"error" yaml:"error"`
}

// SolveResponse is the body returned for a solve.
type SolveResponse struct {
	ID         string          `json:"id,omitempty" yaml:"id,omitempty"`
	CreatedAt  *time.Time      `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	DurationMS float64         `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	Seed       int64           `json:"seed,omitempty" yaml:"seed,omitempty"`
	Slots      []SlotResultDTO `json:"slots" yaml:"slots"`
	Unmet      []ShortfallDTO  `json:"unmet,omitempty" yaml:"unmet,omitempty"`
	Failures   []FailureDTO    `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// AssignResponse is the body returned for a single-slot assignment.
type AssignResponse struct {
	Age        float64       `json:"age" yaml:"age"`
	Background BackgroundDTO `json:"background" yaml:"background"`
	Skills     []SkillDTO    `json:"skills" yaml:"skills"`
	PointsUsed float64       `json:"points_used" yaml:"points_used"`
	Exhausted  bool          `json:"exhausted,omitempty" yaml:"exhausted,omitempty"`
}

// FromRecord converts a stored solve.
func FromRecord(rec repository.Record, skills catalog.Skills) SolveResponse {
	out := FromTeamResult(rec.Result, skills)
	out.ID = rec.ID
	created := rec.CreatedAt
	out.CreatedAt = &created
	out.DurationMS = float64(rec.Duration.Microseconds()) / 1000
	out.Seed = rec.Seed
	return out
}

// FromTeamResult converts a solver result. Slots are ordered by index and
// skills by display order; failed slots appear only under failures.
func FromTeamResult(res *solver.TeamResult, skills catalog.Skills) SolveResponse {
	out := SolveResponse{Slots: []SlotResultDTO{}}
	if res == nil {
		return out
	}
	indexes := make([]int, 0, len(res.Slots))
	for idx, s := range res.Slots {
		if s != nil {
			indexes = append(indexes, idx)
		}
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		s := res.Slots[idx]
		out.Slots = append(out.Slots, SlotResultDTO{
			Index:      s.Index,
			Locked:     s.Locked,
			Age:        s.Age,
			Background: fromBackground(s.Background),
			Skills:     fromSkills(s.Skills, skills),
			PointsUsed: s.PointsUsed,
			Exhausted:  s.Exhausted,
		})
	}
	for _, u := range res.Unmet {
		out.Unmet = append(out.Unmet, ShortfallDTO{Skill: string(u.Skill), Remaining: u.Remaining})
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, FailureDTO{Index: f.Index, Error: f.Err.Error()})
	}
	return out
}

// FromAssignment converts a single-slot result.
func FromAssignment(a *solver.Assignment, skills catalog.Skills) AssignResponse {
	return AssignResponse{
		Age:        a.Age,
		Background: fromBackground(a.Background),
		Skills:     fromSkills(a.Skills, skills),
		PointsUsed: a.PointsUsed,
		Exhausted:  a.Exhausted,
	}
}

func fromBackground(bg model.LifeStageBackground) BackgroundDTO {
	out := BackgroundDTO{Key: bg.Key()}
	if bg.Biography != nil {
		out.Biography = bg.Biography.ID
	}
	if bg.Childhood != nil {
		out.Childhood = bg.Childhood.ID
	}
	if bg.Adulthood != nil {
		out.Adulthood = bg.Adulthood.ID
	}
	return out
}

func fromSkills(in map[model.SkillID]model.SkillOutcome, skills catalog.Skills) []SkillDTO {
	out := make([]SkillDTO, 0, len(in))
	for _, sk := range skills.Skills() {
		o, ok := in[sk.ID]
		if !ok {
			continue
		}
		out = append(out, SkillDTO{Skill: string(sk.ID), Min: o.Range.Min, Max: o.Range.Max, Tier: o.Tier.String()})
	}
	return out
}
