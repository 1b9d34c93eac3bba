package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/opd-ai/vfgraph/av/video"
)

// frameBytes returns the size of one packed frame.
func frameBytes(width, height int, format video.PixelFormat) int {
	d, ok := format.Descriptor()
	if !ok {
		return 0
	}
	total := 0
	for i := 0; i < d.Planes; i++ {
		w, h := format.PlaneSize(i, width, height)
		total += w * h
	}
	return total
}

// readFrame fills the visible rows of frame from r. It returns io.EOF when
// r ends exactly on a frame boundary and io.ErrUnexpectedEOF on a short
// frame.
func readFrame(r io.Reader, frame *video.VideoFrame) error {
	first := true
	for i := 0; i < frame.PlaneCount(); i++ {
		p := frame.Plane(i)
		for y := 0; y < p.Height; y++ {
			n, err := io.ReadFull(r, p.Row(y))
			if err == nil {
				first = false
				continue
			}
			if first && n == 0 && errors.Is(err, io.EOF) {
				return io.EOF
			}
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return fmt.Errorf("plane %d row %d: %w", i, y, err)
		}
	}
	return nil
}

// writeFrame writes the visible rows of every plane of frame to w.
func writeFrame(w io.Writer, frame *video.VideoFrame) error {
	for i := 0; i < frame.PlaneCount(); i++ {
		p := frame.Plane(i)
		for y := 0; y < p.Height; y++ {
			if _, err := w.Write(p.Row(y)); err != nil {
				return fmt.Errorf("plane %d row %d: %w", i, y, err)
			}
		}
	}
	return nil
}
