package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrInvalidRange = errors.New("invalid range")
	ErrUnknownTier  = errors.New("unknown proficiency tier")
)
