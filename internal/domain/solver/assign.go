package solver

import (
	"context"
	"fmt"

	"github.com/okian/rosterbias/internal/domain/selector"
	"github.com/okian/rosterbias/pkg/logger"
)

// AssignOne picks and finalizes a background for a single slot outside a
// team solve. It fails with selector.ErrNoFeasibleBackground when no
// candidate matches.
func (s *Solver) AssignOne(ctx context.Context, req AssignRequest, scorer selector.Scorer) (*Assignment, error) {
	if err := s.checkCatalog(); err != nil {
		return nil, err
	}
	if scorer == nil {
		return nil, fmt.Errorf("%w: scorer is required", ErrInvalidRequest)
	}
	if req.Age < 0 {
		return nil, fmt.Errorf("%w: negative age", ErrInvalidRequest)
	}
	age, err := s.ageFor(req.Age)
	if err != nil {
		return nil, err
	}

	excluded := selector.NewExclusionSet()
	for _, id := range req.Exclude {
		excluded.AddID(id)
	}
	bg, err := s.selector.SelectBest(ctx, selector.Query{
		Categories:     req.Categories,
		Gender:         req.Gender,
		Excluded:       excluded,
		RequiredTraits: req.RequiredTraits,
	}, scorer)
	if err != nil {
		return nil, err
	}

	alloc := s.seed(bg, age, req.RequiredTraits, req.Disallowed, req.PointsBudget)
	res := alloc.Finalize()
	s.logger.Debug(ctx, "single slot assigned",
		logger.String("background", bg.Key()),
		logger.Float64("age", age),
		logger.Bool("exhausted", res.Exhausted),
	)
	return &Assignment{
		Age:        age,
		Background: bg,
		Skills:     res.Skills,
		PointsUsed: alloc.PointsUsed(),
		Exhausted:  res.Exhausted,
	}, nil
}
