// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches the log handler to JSON.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a YAML background catalog. Empty uses the embedded one.
	CatalogPath string `koanf:"catalog_path"`

	// PointsBudget is the per-slot investment budget.
	PointsBudget float64 `koanf:"points_budget"`

	// VariationMin and VariationMax bound the jitter applied to requirement weights.
	VariationMin float64 `koanf:"variation_min"`
	VariationMax float64 `koanf:"variation_max"`

	// AgeMin and AgeMax bound sampled ages for slots without one.
	AgeMin float64 `koanf:"age_min"`
	AgeMax float64 `koanf:"age_max"`

	// Seed seeds the percentile source. Zero uses the clock.
	Seed int64 `koanf:"seed"`

	// MaxCandidates caps the candidates scored per background selection.
	MaxCandidates int `koanf:"max_candidates"`

	// EstimatorCacheSize bounds the memoized range estimates.
	EstimatorCacheSize int `koanf:"estimator_cache_size"`

	// ResultStoreSize bounds how many solve results are kept for GET /solves/{id}.
	ResultStoreSize int `koanf:"result_store_size"`

	// DefaultCategories filters backgrounds when a request names none.
	DefaultCategories []string `koanf:"default_categories"`

	// MetricsEnabled toggles Prometheus recording.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		PointsBudget:       7.0,
		VariationMin:       1,
		VariationMax:       5,
		AgeMin:             20,
		AgeMax:             65,
		MaxCandidates:      5000,
		EstimatorCacheSize: 4096,
		ResultStoreSize:    256,
		MetricsEnabled:     true,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PointsBudget <= 0:
		return fmt.Errorf("%w: points_budget must be positive, got %v", ErrInvalidConfig, c.PointsBudget)
	case c.VariationMin > c.VariationMax:
		return fmt.Errorf("%w: variation_min %v above variation_max %v", ErrInvalidConfig, c.VariationMin, c.VariationMax)
	case c.VariationMin < 0:
		return fmt.Errorf("%w: variation_min must not be negative", ErrInvalidConfig)
	case c.AgeMin > c.AgeMax:
		return fmt.Errorf("%w: age_min %v above age_max %v", ErrInvalidConfig, c.AgeMin, c.AgeMax)
	case c.AgeMin < 0:
		return fmt.Errorf("%w: age_min must not be negative", ErrInvalidConfig)
	case c.ResultStoreSize <= 0:
		return fmt.Errorf("%w: result_store_size must be positive", ErrInvalidConfig)
	}
	return nil
}
