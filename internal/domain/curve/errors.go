package curve

import "errors"

// Sentinel kinds for curve errors.
var (
	ErrMalformedCurve = errors.New("malformed curve")
	ErrEmptyRange     = errors.New("empty sub-range")
)
