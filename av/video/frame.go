package video

import (
	"fmt"
)

// VideoFrame represents a planar video frame.
//
// Each plane i holds Data[i] with rows Linesize[i] bytes apart. A frame
// built with NewVideoFrame owns tightly packed planes; a frame assembled by
// hand may alias memory owned by someone else, in which case Clone must be
// used before the frame outlives that owner.
type VideoFrame struct {
	Width    int
	Height   int
	Format   PixelFormat
	Data     [MaxPlanes][]byte
	Linesize [MaxPlanes]int
}

// NewVideoFrame allocates a zeroed frame with packed planes.
func NewVideoFrame(width, height int, format PixelFormat) (*VideoFrame, error) {
	d, ok := format.Descriptor()
	if !ok {
		return nil, fmt.Errorf("unsupported pixel format: %v", format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions: %dx%d", width, height)
	}

	frame := &VideoFrame{
		Width:  width,
		Height: height,
		Format: format,
	}
	for i := 0; i < d.Planes; i++ {
		w, h := format.PlaneSize(i, width, height)
		frame.Data[i] = make([]byte, w*h)
		frame.Linesize[i] = w
	}
	return frame, nil
}

// PlaneCount returns the number of planes defined by the frame format.
func (f *VideoFrame) PlaneCount() int {
	d, ok := f.Format.Descriptor()
	if !ok {
		return 0
	}
	return d.Planes
}

// Bits returns the backing memory of plane i.
func (f *VideoFrame) Bits(plane int) []byte {
	if plane < 0 || plane >= MaxPlanes {
		return nil
	}
	return f.Data[plane]
}

// BytesPerLine returns the stride of plane i.
func (f *VideoFrame) BytesPerLine(plane int) int {
	if plane < 0 || plane >= MaxPlanes {
		return 0
	}
	return f.Linesize[plane]
}

// Plane returns a borrowed view over plane i.
func (f *VideoFrame) Plane(plane int) PlaneView {
	w, h := f.Format.PlaneSize(plane, f.Width, f.Height)
	return PlaneView{
		Data:   f.Bits(plane),
		Stride: f.BytesPerLine(plane),
		Width:  w,
		Height: h,
	}
}

// Validate checks that every plane is large enough for the frame geometry.
func (f *VideoFrame) Validate() error {
	if f == nil {
		return fmt.Errorf("video frame cannot be nil")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid frame dimensions: %dx%d", f.Width, f.Height)
	}
	d, ok := f.Format.Descriptor()
	if !ok {
		return fmt.Errorf("unsupported pixel format: %v", f.Format)
	}
	for i := 0; i < d.Planes; i++ {
		if err := f.Plane(i).Validate(); err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns a deep copy with packed planes. The copy shares no memory
// with f.
func (f *VideoFrame) Clone() *VideoFrame {
	out := &VideoFrame{
		Width:  f.Width,
		Height: f.Height,
		Format: f.Format,
	}
	for i := 0; i < f.PlaneCount(); i++ {
		src := f.Plane(i)
		out.Data[i] = make([]byte, src.Width*src.Height)
		out.Linesize[i] = src.Width
		out.Plane(i).CopyFrom(src)
	}
	return out
}

// Equal reports whether both frames have the same geometry, format and
// visible pixel content. Padding bytes beyond each row are ignored.
func (f *VideoFrame) Equal(other *VideoFrame) bool {
	if f == nil || other == nil {
		return f == other
	}
	if f.Width != other.Width || f.Height != other.Height || f.Format != other.Format {
		return false
	}
	for i := 0; i < f.PlaneCount(); i++ {
		a, b := f.Plane(i), other.Plane(i)
		for y := 0; y < a.Height; y++ {
			if string(a.Row(y)) != string(b.Row(y)) {
				return false
			}
		}
	}
	return true
}
