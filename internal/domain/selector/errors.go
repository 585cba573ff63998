package selector

import "errors"

// Sentinel kinds for selection errors.
var (
	ErrNoFeasibleBackground = errors.New("no feasible background")
)
