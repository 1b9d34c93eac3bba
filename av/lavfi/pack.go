package lavfi

import (
	"fmt"

	"github.com/opd-ai/vfgraph/av/video"
)

// packPlanes concatenates the visible rows of every plane with no padding,
// the layout FFmpeg uses for an image buffer aligned to 1.
func packPlanes(frame *video.VideoFrame) []byte {
	size := 0
	for i := 0; i < frame.PlaneCount(); i++ {
		w, h := frame.Format.PlaneSize(i, frame.Width, frame.Height)
		size += w * h
	}
	out := make([]byte, 0, size)
	for i := 0; i < frame.PlaneCount(); i++ {
		p := frame.Plane(i)
		for y := 0; y < p.Height; y++ {
			out = append(out, p.Row(y)...)
		}
	}
	return out
}

// unpackPlanes splits a packed image buffer into a new frame.
func unpackPlanes(data []byte, width, height int, format video.PixelFormat) (*video.VideoFrame, error) {
	frame, err := video.NewVideoFrame(width, height, format)
	if err != nil {
		return nil, err
	}
	off := 0
	for i := 0; i < frame.PlaneCount(); i++ {
		n := len(frame.Data[i])
		if off+n > len(data) {
			return nil, fmt.Errorf("packed image too short: %d bytes for %dx%d %v", len(data), width, height, format)
		}
		copy(frame.Data[i], data[off:off+n])
		off += n
	}
	return frame, nil
}
