package errors

import "errors"

// Domain errors
var (
	// Input errors
	ErrMissingTarget = errors.New("no target specified")
	ErrNoTargets     = errors.New("target file contains no targets")

	// Probe errors
	ErrProbeAbandoned = errors.New("probe abandoned at run deadline")

	// Configuration errors
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme")
)
