package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxFrameWidth is the widest frame accepted anywhere in the pipeline.
	MaxFrameWidth = 16384

	// MaxFrameHeight is the tallest frame accepted anywhere in the pipeline.
	MaxFrameHeight = 16384

	// MaxFramePixels bounds the luma area of a single frame.
	MaxFramePixels = 8192 * 8192

	// MinFrameDimension is the smallest accepted edge.
	MinFrameDimension = 1
)

var (
	// ErrFrameEmpty indicates a zero or negative dimension
	ErrFrameEmpty = errors.New("empty frame")

	// ErrFrameTooLarge indicates a frame exceeds the maximum size
	ErrFrameTooLarge = errors.New("frame too large")
)

// ValidateFrameSize validates frame dimensions against the package limits.
// Returns an error with context including the actual and maximum sizes.
func ValidateFrameSize(width, height int) error {
	if width < MinFrameDimension || height < MinFrameDimension {
		return fmt.Errorf("%w: %dx%d", ErrFrameEmpty, width, height)
	}
	if width > MaxFrameWidth {
		return fmt.Errorf("%w: width %d exceeds limit %d", ErrFrameTooLarge, width, MaxFrameWidth)
	}
	if height > MaxFrameHeight {
		return fmt.Errorf("%w: height %d exceeds limit %d", ErrFrameTooLarge, height, MaxFrameHeight)
	}
	if width*height > MaxFramePixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrFrameTooLarge, width, height, MaxFramePixels)
	}
	return nil
}

// ParseFrameSize parses a "WxH" size string and validates it.
func ParseFrameSize(s string) (width, height int, err error) {
	if _, err = fmt.Sscanf(s, "%dx%d", &width, &height); err != nil {
		return 0, 0, fmt.Errorf("invalid frame size %q: expected WxH", s)
	}
	if err = ValidateFrameSize(width, height); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}
