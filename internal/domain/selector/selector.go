// Package selector picks the best-scoring background for a slot among the
// catalog entries that satisfy category, gender, exclusion and trait rules.
package selector

import (
	"context"
	"fmt"

	"github.com/okian/rosterbias/internal/domain/catalog"
	"github.com/okian/rosterbias/internal/domain/model"
	"github.com/okian/rosterbias/pkg/logger"
	"github.com/okian/rosterbias/pkg/metrics"
)

// maxForcedTraits caps the non-sexuality traits a synthesized pair may force.
const maxForcedTraits = 3

// Query describes the slot a background is selected for.
type Query struct {
	Categories     []string
	Gender         model.Gender
	Excluded       *ExclusionSet
	RequiredTraits []model.TraitConstraint
}

// Selector enumerates eligible backgrounds and keeps the best one.
type Selector struct {
	backgrounds   catalog.Backgrounds
	traits        catalog.Traits
	maxCandidates int
	logger        logger.Logger
}

// New creates a Selector over the given catalogs.
func New(backgrounds catalog.Backgrounds, traits catalog.Traits, opts ...Option) *Selector {
	s := &Selector{
		backgrounds: backgrounds,
		traits:      traits,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectBest scores every eligible candidate and returns the one with the
// greatest score. Ties go to the candidate enumerated last. On success both
// stages are added to q.Excluded.
func (s *Selector) SelectBest(ctx context.Context, q Query, scorer Scorer) (model.LifeStageBackground, error) {
	var (
		best      model.LifeStageBackground
		bestScore float64
		found     bool
		count     int
	)
	s.each(q, func(bg model.LifeStageBackground) {
		count++
		score := scorer.Score(bg)
		if !found || score >= bestScore {
			best, bestScore, found = bg, score, true
		}
	})
	metrics.RecordBackgroundCandidates(count)

	if !found {
		return model.LifeStageBackground{}, fmt.Errorf("%w: categories=%v gender=%s", ErrNoFeasibleBackground, q.Categories, q.Gender)
	}
	if q.Excluded != nil {
		q.Excluded.Add(best)
	}
	s.logger.Debug(ctx, "background selected",
		logger.String("background", best.Key()),
		logger.Float64("score", bestScore),
		logger.Int("candidates", count),
	)
	return best, nil
}

// Candidates lists the eligible backgrounds in enumeration order.
func (s *Selector) Candidates(q Query) []model.LifeStageBackground {
	var out []model.LifeStageBackground
	s.each(q, func(bg model.LifeStageBackground) { out = append(out, bg) })
	return out
}

// each enumerates fixed biographies first, then childhood x adulthood pairs.
// Stages are filtered by category before the cross product is formed.
func (s *Selector) each(q Query, fn func(model.LifeStageBackground)) {
	n := 0
	emit := func(bg model.LifeStageBackground) bool {
		fn(bg)
		n++
		return s.maxCandidates <= 0 || n < s.maxCandidates
	}

	for _, bio := range s.backgrounds.Biographies(q.Gender) {
		if !bio.Childhood.InCategory(q.Categories) {
			continue
		}
		if q.Excluded.Contains(bio.Childhood.ID) || q.Excluded.Contains(bio.Adulthood.ID) {
			continue
		}
		if !emit(model.FromBiography(bio)) {
			return
		}
	}

	childhoods := s.shuffleable(s.backgrounds.Childhoods(q.Categories), q.Excluded)
	adulthoods := s.shuffleable(s.backgrounds.Adulthoods(q.Categories), q.Excluded)
	for _, child := range childhoods {
		for _, adult := range adulthoods {
			if !s.compatible(child, adult, q.RequiredTraits) {
				continue
			}
			if !emit(model.LifeStageBackground{Childhood: child, Adulthood: adult}) {
				return
			}
		}
	}
}

func (s *Selector) shuffleable(stories []*model.Backstory, excluded *ExclusionSet) []*model.Backstory {
	out := make([]*model.Backstory, 0, len(stories))
	for _, b := range stories {
		if b.Shuffleable && !excluded.Contains(b.ID) {
			out = append(out, b)
		}
	}
	return out
}

// compatible checks the pair-level rules: forced-trait count, trait
// compatibility with the slot's required traits, and work-tag consistency.
func (s *Selector) compatible(child, adult *model.Backstory, required []model.TraitConstraint) bool {
	if child.RequiredWork.Overlaps(adult.DisabledWork) || adult.RequiredWork.Overlaps(child.DisabledWork) {
		return false
	}

	forced := make([]model.TraitConstraint, 0, len(child.ForcedTraits)+len(adult.ForcedTraits))
	forced = append(forced, child.ForcedTraits...)
	forced = append(forced, adult.ForcedTraits...)

	counted := 0
	for _, f := range forced {
		if t, ok := s.trait(f.Trait); ok && t.Sexuality {
			continue
		}
		counted++
	}
	if counted > maxForcedTraits {
		return false
	}

	for _, f := range forced {
		for _, r := range required {
			if !s.traitsCompatible(f, r) {
				return false
			}
		}
	}
	return true
}

func (s *Selector) traitsCompatible(a, b model.TraitConstraint) bool {
	if a.Trait == b.Trait {
		return a.Degree == b.Degree
	}
	if ta, ok := s.trait(a.Trait); ok && ta.Conflicts(b.Trait) {
		return false
	}
	if tb, ok := s.trait(b.Trait); ok && tb.Conflicts(a.Trait) {
		return false
	}
	return true
}

func (s *Selector) trait(id model.TraitID) (model.Trait, bool) {
	if s.traits == nil {
		return model.Trait{}, false
	}
	return s.traits.Trait(id)
}
