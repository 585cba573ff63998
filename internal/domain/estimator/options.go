package estimator

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithCacheSize bounds the memoized range cache. Zero or less disables caching.
func WithCacheSize(size int) Option {
	return func(e *Estimator) {
		e.cacheSize = size
	}
}

// WithUpperPercentile sets the percentile used for the range maximum.
func WithUpperPercentile(p float64) Option {
	return func(e *Estimator) {
		if p > 0 && p <= 1 {
			e.upper = p
		}
	}
}
