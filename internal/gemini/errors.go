package gemini

import "errors"

// Sentinel kinds for assistant failures. Both are recoverable by retrying
// the originating user action; neither ever leaves partial state behind.
var (
	// ErrUnavailable means the model call failed or returned no usable
	// content. Surfaced to the user as a generic retry prompt.
	ErrUnavailable = errors.New("assistant unavailable")

	// ErrMalformedOutput means the response could not be parsed into the
	// expected shape. Logged for diagnostics, never partially applied.
	ErrMalformedOutput = errors.New("malformed assistant output")
)
