package allocator

// DefaultBudget is the investment budget of a slot when none is configured.
const DefaultBudget = 7.0

// Option applies a configuration option to the Allocator.
type Option[S comparable] func(*Allocator[S])

// WithBudget sets the investment budget. Non-positive values keep the default.
func WithBudget[S comparable](budget float64) Option[S] {
	return func(a *Allocator[S]) {
		if budget > 0 {
			a.budget = budget
		}
	}
}

// WithDisallowed marks skills that may never receive a tier.
func WithDisallowed[S comparable](skills ...S) Option[S] {
	return func(a *Allocator[S]) {
		for _, s := range skills {
			a.disallowed[s] = struct{}{}
		}
	}
}

// WithForcedTier marks skills that take the slot's highest granted tier at
// finalize time instead of competing for budget.
func WithForcedTier[S comparable](skills ...S) Option[S] {
	return func(a *Allocator[S]) {
		for _, s := range skills {
			a.forced[s] = struct{}{}
		}
	}
}
