package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vfgraph/av/video"
)

// testFrame returns a frame with a distinct value in every sample of every
// plane. seed varies the content between frames.
func testFrame(t testing.TB, w, h int, pf video.PixelFormat, seed int) *video.VideoFrame {
	t.Helper()
	frame, err := video.NewVideoFrame(w, h, pf)
	require.NoError(t, err)
	for p := 0; p < frame.PlaneCount(); p++ {
		for i := range frame.Data[p] {
			frame.Data[p][i] = byte((i*7 + p*31 + seed) % 256)
		}
	}
	return frame
}

// paddedFrame returns a copy of frame whose rows are followed by pad
// garbage bytes.
func paddedFrame(t testing.TB, frame *video.VideoFrame, pad int) *video.VideoFrame {
	t.Helper()
	out := &video.VideoFrame{Width: frame.Width, Height: frame.Height, Format: frame.Format}
	for p := 0; p < frame.PlaneCount(); p++ {
		src := frame.Plane(p)
		stride := src.Width + pad
		out.Data[p] = make([]byte, stride*src.Height)
		for i := range out.Data[p] {
			out.Data[p][i] = 0xEE
		}
		out.Linesize[p] = stride
		out.Plane(p).CopyFrom(src)
	}
	require.NoError(t, out.Validate())
	return out
}
