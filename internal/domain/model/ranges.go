package model

import (
	"fmt"
	"math"
)

// IntRange is an inclusive integer range. Min never exceeds Max.
type IntRange struct {
	Min int
	Max int
}

// NewIntRange validates and builds an IntRange.
func NewIntRange(lo, hi int) (IntRange, error) {
	if lo > hi {
		return IntRange{}, fmt.Errorf("%w: [%d,%d]", ErrInvalidRange, lo, hi)
	}
	return IntRange{Min: lo, Max: hi}, nil
}

// Pinned returns the single-value range [v,v].
func Pinned(v int) IntRange { return IntRange{Min: v, Max: v} }

// Valid reports whether Min <= Max.
func (r IntRange) Valid() bool { return r.Min <= r.Max }

// Contains reports whether v lies inside the range.
func (r IntRange) Contains(v int) bool { return v >= r.Min && v <= r.Max }

// Percentile interpolates between Min and Max and rounds half away from zero.
func (r IntRange) Percentile(p float64) int {
	return int(math.Round(float64(r.Min) + float64(r.Max-r.Min)*p))
}

func (r IntRange) String() string { return fmt.Sprintf("[%d,%d]", r.Min, r.Max) }

// FloatRange is an inclusive real range.
type FloatRange struct {
	Min float64
	Max float64
}

// NewFloatRange validates and builds a FloatRange.
func NewFloatRange(lo, hi float64) (FloatRange, error) {
	if lo > hi || math.IsNaN(lo) || math.IsNaN(hi) {
		return FloatRange{}, fmt.Errorf("%w: [%g,%g]", ErrInvalidRange, lo, hi)
	}
	return FloatRange{Min: lo, Max: hi}, nil
}

// Percentile interpolates linearly between Min and Max.
func (r FloatRange) Percentile(p float64) float64 {
	return r.Min + (r.Max-r.Min)*p
}

// Span aggregates several ranges into the range covering all of them:
// the smallest minimum and the largest maximum. An empty input yields [0,0].
func Span(ranges ...IntRange) IntRange {
	if len(ranges) == 0 {
		return IntRange{}
	}
	out := ranges[0]
	for _, r := range ranges[1:] {
		out.Min = min(out.Min, r.Min)
		out.Max = max(out.Max, r.Max)
	}
	return out
}
