package neat

import "errors"

var (
	// ErrDimensionMismatch is returned by Evaluate when the input vector length differs from the sensor count.
	ErrDimensionMismatch = errors.New("input dimension mismatch")
	// ErrCrossLineage is returned when breeding or comparing genomes that do not share a Config.
	ErrCrossLineage = errors.New("genomes belong to different lineages")
	// ErrMalformedRecord is returned when a serialized genome or config cannot be reconstructed.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrInvalidConfig is returned when configuration values are out of range.
	ErrInvalidConfig = errors.New("invalid config")
)
