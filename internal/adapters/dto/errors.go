package dto

import "errors"

// Sentinel kinds for payload conversion errors.
var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrUnknownRef     = errors.New("unknown catalog reference")
)
