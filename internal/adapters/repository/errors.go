package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound      = errors.New("solve result not found")
	ErrInvalidRecord = errors.New("invalid solve record")
)
