package solver

import (
	"github.com/okian/rosterbias/internal/domain/curve"
	"github.com/okian/rosterbias/internal/domain/estimator"
	"github.com/okian/rosterbias/internal/domain/model"
	"github.com/okian/rosterbias/internal/domain/random"
	"github.com/okian/rosterbias/pkg/logger"
)

// Option applies a configuration option to the Solver.
type Option func(*Solver)

// WithSource sets the percentile source every draw goes through.
func WithSource(src random.Source) Option {
	return func(s *Solver) {
		if src != nil {
			s.source = src
		}
	}
}

// WithEstimator replaces the default range estimator.
func WithEstimator(e *estimator.Estimator) Option {
	return func(s *Solver) {
		if e != nil {
			s.estimator = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPointsBudget sets the default per-slot investment budget.
func WithPointsBudget(budget float64) Option {
	return func(s *Solver) {
		if budget > 0 {
			s.budget = budget
		}
	}
}

// WithVariation sets the default jitter range for requirement weights.
func WithVariation(r model.FloatRange) Option {
	return func(s *Solver) {
		if r.Min <= r.Max {
			s.variation = r
		}
	}
}

// WithAgeRange bounds sampled ages.
func WithAgeRange(r model.FloatRange) Option {
	return func(s *Solver) {
		if r.Min <= r.Max {
			s.ages = r
		}
	}
}

// WithAgeCurve replaces the population age distribution.
func WithAgeCurve(c *curve.Curve) Option {
	return func(s *Solver) {
		if c != nil {
			s.ageCurve = c
		}
	}
}

// WithMaxCandidates caps the candidates scored per selection.
func WithMaxCandidates(n int) Option {
	return func(s *Solver) {
		s.maxCandidates = n
	}
}
