//go:build ffmpeg

package lavfi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vfgraph/av/filter"
	"github.com/opd-ai/vfgraph/av/video"
)

func lavfiFrame(t *testing.T, w, h int, seed int) *video.VideoFrame {
	t.Helper()
	frame, err := video.NewVideoFrame(w, h, video.PixelFormatYUV420P)
	require.NoError(t, err)
	for p := 0; p < frame.PlaneCount(); p++ {
		for i := range frame.Data[p] {
			frame.Data[p][i] = byte(i*3 + seed)
		}
	}
	return frame
}

func TestGraphFilter_ScaleScenario(t *testing.T) {
	f := NewGraphFilter(WithDescription("scale=iw/2:ih/2"))
	defer f.Close()

	for i := 0; i < 100; i++ {
		frame := lavfiFrame(t, 640, 480, i)
		f.Process(nil, frame)
		require.Equal(t, 320, frame.Width)
		require.Equal(t, 240, frame.Height)
		require.Equal(t, video.PixelFormatYUV420P, frame.Format)
	}
	assert.Equal(t, 1, f.Builds())
}

func TestGraphFilter_NullRoundTrip(t *testing.T) {
	f := NewGraphFilter(WithDescription("null"))
	defer f.Close()

	frame := lavfiFrame(t, 64, 48, 1)
	want := frame.Clone()
	f.Process(nil, frame)
	assert.True(t, want.Equal(frame))
}

func TestGraphFilter_BadDescriptionDisables(t *testing.T) {
	f := NewGraphFilter(WithDescription("nosuchfilter"))
	defer f.Close()

	frame := lavfiFrame(t, 64, 48, 1)
	want := frame.Clone()
	f.Process(nil, frame)
	assert.Equal(t, filter.StatusDisabled, f.Status())
	assert.True(t, want.Equal(frame))

	f.SetOptions("hflip")
	assert.Equal(t, filter.StatusActive, f.Status())
	f.Process(nil, frame)
	assert.Equal(t, 1, f.Builds())
}
