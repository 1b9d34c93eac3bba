package video

import (
	"fmt"
)

// PlaneView is a non-owning view over one plane of pixel memory.
//
// A view borrowed from a caller's frame is valid only for the duration of
// the call it was handed to. Keep a copy, not the view.
type PlaneView struct {
	Data   []byte
	Stride int
	Width  int // bytes per visible row
	Height int
}

// Row returns the visible bytes of row y.
func (p PlaneView) Row(y int) []byte {
	off := y * p.Stride
	return p.Data[off : off+p.Width]
}

// Validate checks that the backing slice covers every visible row.
func (p PlaneView) Validate() error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("invalid plane dimensions: %dx%d", p.Width, p.Height)
	}
	if p.Height == 0 || p.Width == 0 {
		return nil
	}
	if p.Stride < p.Width {
		return fmt.Errorf("stride %d smaller than row width %d", p.Stride, p.Width)
	}
	need := (p.Height-1)*p.Stride + p.Width
	if len(p.Data) < need {
		return fmt.Errorf("plane buffer too small: %d < %d", len(p.Data), need)
	}
	return nil
}

// CopyFrom copies the visible rows of src into p. Both views must have the
// same visible size.
func (p PlaneView) CopyFrom(src PlaneView) {
	w := min(p.Width, src.Width)
	h := min(p.Height, src.Height)
	for y := 0; y < h; y++ {
		copy(p.Row(y)[:w], src.Row(y)[:w])
	}
}

// Fill sets every visible byte to v.
func (p PlaneView) Fill(v byte) {
	for y := 0; y < p.Height; y++ {
		row := p.Row(y)
		for x := range row {
			row[x] = v
		}
	}
}
