// Package random provides the percentile source the solver draws from.
package random

import (
	"math/rand"
	"sync"
	"time"

	"github.com/okian/rosterbias/internal/domain/model"
)

// Source yields percentiles in [0,1). Every random decision in a solve goes
// through one Source so tests can pin each draw.
type Source interface {
	Percentile() float64
}

// Seeded is a Source backed by math/rand.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a seeded source. A zero seed uses the current time.
func NewSeeded(seed int64) *Seeded {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeded{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // not security sensitive
}

// Percentile implements Source.
func (s *Seeded) Percentile() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Fixed replays a list of percentiles in order and wraps around.
// An empty Fixed always returns 0.
type Fixed struct {
	values []float64
	next   int
}

// NewFixed returns a Fixed source over values.
func NewFixed(values ...float64) *Fixed {
	return &Fixed{values: values}
}

// Percentile implements Source.
func (f *Fixed) Percentile() float64 {
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

// Draws reports how many percentiles were handed out.
func (f *Fixed) Draws() int { return f.next }

// IntIn draws an integer inside r.
func IntIn(src Source, r model.IntRange) int {
	return r.Percentile(src.Percentile())
}
