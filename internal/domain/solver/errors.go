package solver

import "errors"

// Sentinel kinds for solver errors. Per-slot selection failures are not
// errors of Solve; they are reported in TeamResult.Failures.
var (
	ErrEmptyCatalog   = errors.New("empty catalog")
	ErrEmptyTeam      = errors.New("empty team")
	ErrInvalidRequest = errors.New("invalid request")
)
