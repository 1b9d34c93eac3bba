package filter

import "errors"

// Sentinel errors for filter operations.
// These errors enable reliable error classification using errors.Is().

// Graph lifecycle errors.
var (
	// ErrSetup indicates the filter graph could not be built from the
	// current description and stream signature. It disables the filter.
	ErrSetup = errors.New("filter graph setup failed")

	// ErrClosed indicates use of a filter after Close.
	ErrClosed = errors.New("filter is closed")
)

// Frame transfer errors.
var (
	// ErrSubmission indicates the graph source rejected a frame. The filter
	// stays active and the next frame gets a fresh attempt.
	ErrSubmission = errors.New("frame submission failed")

	// ErrRetrieval indicates the graph sink failed while producing a frame.
	ErrRetrieval = errors.New("frame retrieval failed")

	// ErrNoFrame indicates the graph has no output ready this cycle. It is
	// an expected outcome, not a failure.
	ErrNoFrame = errors.New("no filtered frame available")
)
