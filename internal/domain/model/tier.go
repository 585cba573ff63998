package model

import (
	"fmt"
	"strings"
)

// Tier is the discrete investment level a slot holds in a skill.
type Tier int

// Tiers in ascending order.
const (
	TierNone Tier = iota
	TierMinor
	TierMajor
)

// Investment costs, in affinity-budget units.
const (
	costMinor = 1.0
	costMajor = 1.5
)

// Cost returns the budget units needed to hold the tier.
func (t Tier) Cost() float64 {
	switch t {
	case TierMinor:
		return costMinor
	case TierMajor:
		return costMajor
	default:
		return 0
	}
}

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierMinor:
		return "minor"
	case TierMajor:
		return "major"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier accepts none, minor and major (case-insensitive). Empty means none.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TierNone, nil
	case "minor":
		return TierMinor, nil
	case "major":
		return TierMajor, nil
	default:
		return TierNone, fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}
