package filtergraph

import "errors"

// Sentinel errors for filtergraph operations.
// These errors enable reliable error classification using errors.Is().

// Frame flow errors.
var (
	// ErrAgain indicates the sink has no frame ready yet; feed more input.
	ErrAgain = errors.New("resource temporarily unavailable")

	// ErrEOF indicates the sink has delivered every frame after end of stream.
	ErrEOF = errors.New("end of file")

	// ErrInvalidData indicates a frame that does not match the link it is
	// submitted on.
	ErrInvalidData = errors.New("invalid data found when processing input")
)

// Graph construction errors.
var (
	// ErrFilterNotFound indicates an unknown filter name.
	ErrFilterNotFound = errors.New("filter not found")

	// ErrInvalidArgument indicates bad filter arguments or a call on the
	// wrong kind of filter context.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSyntax indicates a malformed graph description.
	ErrSyntax = errors.New("invalid filter graph syntax")

	// ErrNotConnected indicates a pad left unlinked at configuration time.
	ErrNotConnected = errors.New("pad not connected")

	// ErrUnsupportedFormat indicates a filter cannot process the pixel
	// format negotiated on its input link.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
)

// Lifecycle errors.
var (
	// ErrGraphFreed indicates use of a graph after Free.
	ErrGraphFreed = errors.New("filter graph has been freed")

	// ErrNotConfigured indicates frame submission before Config succeeded.
	ErrNotConfigured = errors.New("filter graph is not configured")
)
