package grid

import "errors"

var (
	// ErrOutOfBounds reports a coordinate outside a tensor's extents.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrDimensionMismatch reports an operation across points of
	// different dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidShape reports a shape with a non-positive extent or no
	// dimensions at all.
	ErrInvalidShape = errors.New("invalid shape")
)
