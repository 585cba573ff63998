package selector

import "github.com/okian/rosterbias/pkg/logger"

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithMaxCandidates caps how many eligible candidates one selection scores.
// Zero or less means no cap.
func WithMaxCandidates(n int) Option {
	return func(s *Selector) {
		s.maxCandidates = n
	}
}

// WithLogger sets the logger used for selection diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}
