package merge

import "errors"

// Sentinel kinds for rejected proposals. Callers use errors.Is to translate
// them at the boundary.
var (
	// ErrUnknownItem means a proposal referenced an item id that is not in
	// the current receipt. Such proposals are rejected wholesale.
	ErrUnknownItem = errors.New("unknown item id")

	// ErrInvalidNumber means a numeric field was negative, NaN or infinite.
	ErrInvalidNumber = errors.New("invalid numeric field")

	// ErrNoReceipt means a proposal arrived before any receipt exists.
	ErrNoReceipt = errors.New("no current receipt")
)
