// Package limits provides centralized frame geometry limits and validation
// functions. Every component that accepts a frame size (the buffer source
// endpoint, the scale and crop filters, the CLI and its configuration)
// validates against the same bounds.
//
// # Limits
//
//   - MaxFrameWidth and MaxFrameHeight (16384): the largest edge accepted,
//     matching the default maximum image size of common video engines.
//
//   - MaxFramePixels (8192*8192): an upper bound on the luma area, which
//     caps the memory a single frame may pin in a graph's buffer pool.
//
// # Validation Functions
//
//	err := limits.ValidateFrameSize(width, height)
//	if errors.Is(err, limits.ErrFrameTooLarge) {
//	    // reject the stream
//	}
//
// # Error Types
//
//   - ErrFrameEmpty: Returned when a dimension is zero or negative
//   - ErrFrameTooLarge: Returned when a dimension or the area exceeds its limit
package limits
