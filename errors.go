package grain

import "errors"

// Validation errors. Every public operation validates its arguments before
// touching pixel or drawing state and wraps one of these sentinels with the
// operation and parameter that failed, so callers can match with errors.Is:
//
//	if errors.Is(err, grain.ErrInvalidValue) { ... }
var (
	// ErrInvalidValue reports a degenerate argument value: non-positive
	// tile dimensions, a non-positive animation cadence or amount, or a
	// NaN/Inf noise amount.
	ErrInvalidValue = errors.New("grain: invalid argument value")

	// ErrInvalidType reports an argument of the wrong shape: a nil
	// surface, texture, or callback, or an overlay target that cannot
	// draw.
	ErrInvalidType = errors.New("grain: invalid argument type")

	// ErrUnsupportedElement reports a tile-shift target that implements
	// neither Styler nor Positioner.
	ErrUnsupportedElement = errors.New("grain: unsupported element kind")
)
