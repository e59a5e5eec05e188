package core

import "errors"

var (
	// ErrEmptyScene is returned when an acceleration structure is requested
	// for zero primitives.
	ErrEmptyScene = errors.New("core: cannot build acceleration structure over zero primitives")

	// ErrDegenerateRay is returned for rays whose direction has zero length.
	ErrDegenerateRay = errors.New("core: ray direction must be non-zero and finite")

	// ErrUnboundedShape is returned when a shape without a finite bounding box
	// is handed to a bounded-volume hierarchy.
	ErrUnboundedShape = errors.New("core: shape has no finite bounding box")
)
