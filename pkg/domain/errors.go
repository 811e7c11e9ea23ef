package domain

import "errors"

// ErrInvalidIterations is returned when a negative iteration count is requested.
var ErrInvalidIterations = errors.New("iterations must not be negative")

// ErrIterationLimit is returned when the requested iteration count exceeds the configured cap.
var ErrIterationLimit = errors.New("iteration limit exceeded")

// ErrSignatureNotFound is returned when a signature cache has no entry for a key.
var ErrSignatureNotFound = errors.New("signature not found")

// ErrInvalidConfig is returned when a configuration or preset fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrUnknownPreset is returned when a named preset does not exist.
var ErrUnknownPreset = errors.New("unknown preset")

// ErrNilSurface is returned when Draw is called without a drawing surface.
var ErrNilSurface = errors.New("nil drawing surface")
