package filtergraph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vfgraph/av/video"
)

// buildGraph wires buffer -> desc -> buffersink the way a caller of the
// package does and returns the first error encountered.
func buildGraph(w, h int, pf video.PixelFormat, desc string) (*Graph, *FilterContext, *FilterContext, error) {
	g := AllocGraph()
	args := fmt.Sprintf("video_size=%dx%d:pix_fmt=%d:time_base=1/1000000:pixel_aspect=1/1", w, h, int(pf))
	src, err := g.CreateFilter(FindFilterByName("buffer"), "in", args)
	if err != nil {
		return g, nil, nil, err
	}
	sink, err := g.CreateFilter(FindFilterByName("buffersink"), "out", "")
	if err != nil {
		return g, nil, nil, err
	}

	outputs := AllocInOut()
	outputs.Name = "in"
	outputs.FilterContext = src
	inputs := AllocInOut()
	inputs.Name = "out"
	inputs.FilterContext = sink
	defer outputs.Free()
	defer inputs.Free()

	if err := g.Parse(desc, inputs, outputs); err != nil {
		return g, src, sink, err
	}
	return g, src, sink, g.Config()
}

func newTestGraph(t *testing.T, w, h int, pf video.PixelFormat, desc string) (*Graph, *FilterContext, *FilterContext) {
	t.Helper()
	g, src, sink, err := buildGraph(w, h, pf, desc)
	t.Cleanup(g.Free)
	require.NoError(t, err)
	return g, src, sink
}

// rampFrame returns a frame whose luma counts up and whose chroma is
// neutral.
func rampFrame(t *testing.T, w, h int, pf video.PixelFormat) *video.VideoFrame {
	t.Helper()
	v, err := video.NewVideoFrame(w, h, pf)
	require.NoError(t, err)
	for i := range v.Data[0] {
		v.Data[0][i] = byte(i % 251)
	}
	for i := 1; i < v.PlaneCount(); i++ {
		v.Plane(i).Fill(128)
	}
	return v
}

func uniformFrame(t *testing.T, w, h int, pf video.PixelFormat, luma byte) *video.VideoFrame {
	t.Helper()
	v, err := video.NewVideoFrame(w, h, pf)
	require.NoError(t, err)
	v.Plane(0).Fill(luma)
	for i := 1; i < v.PlaneCount(); i++ {
		v.Plane(i).Fill(128)
	}
	return v
}

// wrap describes caller-owned memory without taking a reference.
func wrap(v *video.VideoFrame) *Frame {
	return &Frame{
		Width:    v.Width,
		Height:   v.Height,
		Format:   v.Format,
		Data:     v.Data,
		Linesize: v.Linesize,
	}
}

// filterOne pushes one frame and returns a private copy of the single
// output.
func filterOne(t *testing.T, src, sink *FilterContext, in *video.VideoFrame) *video.VideoFrame {
	t.Helper()
	require.NoError(t, src.AddFrame(wrap(in), FlagKeepRef))
	out := AllocFrame()
	require.NoError(t, sink.GetFrame(out))
	defer out.Unref()
	return out.Video().Clone()
}
