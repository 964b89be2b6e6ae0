package core

import "errors"

// Configuration errors. They are reported when an Environment or Problem
// is built, never retried.
var (
	ErrUndefinedDistance = errors.New("undefined distance")
	ErrInvalidDistance   = errors.New("invalid distance")
	ErrUnknownLocation   = errors.New("unknown location")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrInvalidState      = errors.New("invalid state")
)
