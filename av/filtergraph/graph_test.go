package filtergraph

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vfgraph/av/video"
)

func TestGraph_ConfigNegotiatesLinks(t *testing.T) {
	_, src, sink := newTestGraph(t, 640, 480, video.PixelFormatYUV420P, "null")

	out := src.Output(0)
	require.NotNil(t, out)
	assert.Equal(t, 640, out.Width)
	assert.Equal(t, 480, out.Height)
	assert.Equal(t, video.PixelFormatYUV420P, out.Format)
	assert.Equal(t, NewRational(1, 1000000), out.TimeBase)
	assert.Equal(t, NewRational(1, 1), out.SAR)

	in := sink.Input(0)
	assert.Equal(t, out.Width, in.Width)
	assert.Equal(t, out.TimeBase, in.TimeBase)
	assert.Equal(t, "buffer", src.Filter().Name)
	assert.Nil(t, src.Input(0))
	assert.Nil(t, sink.Output(0))
}

func TestGraph_ConfigRequiresLinkedPads(t *testing.T) {
	g := AllocGraph()
	defer g.Free()

	_, err := g.CreateFilter(FindFilterByName("buffer"), "in", "video_size=16x16:pix_fmt=gray")
	require.NoError(t, err)
	_, err = g.CreateFilter(FindFilterByName("buffersink"), "out", "")
	require.NoError(t, err)

	assert.ErrorIs(t, g.Config(), ErrNotConnected)
}

func TestGraph_ConfigRejectsUnsupportedFormat(t *testing.T) {
	g, _, _, err := buildGraph(32, 32, video.PixelFormatYUV422P, "transpose")
	defer g.Free()
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestGraph_ConfigDetectsCycle(t *testing.T) {
	g := AllocGraph()
	defer g.Free()

	a, err := g.CreateFilter(FindFilterByName("null"), "a", "")
	require.NoError(t, err)
	b, err := g.CreateFilter(FindFilterByName("null"), "b", "")
	require.NoError(t, err)
	require.NoError(t, LinkFilters(a, 0, b, 0))
	require.NoError(t, LinkFilters(b, 0, a, 0))

	assert.ErrorIs(t, g.Config(), ErrInvalidArgument)
}

func TestLinkFilters_Errors(t *testing.T) {
	g := AllocGraph()
	defer g.Free()

	src, err := g.CreateFilter(FindFilterByName("buffer"), "in", "video_size=16x16:pix_fmt=gray")
	require.NoError(t, err)
	sink, err := g.CreateFilter(FindFilterByName("buffersink"), "out", "")
	require.NoError(t, err)

	assert.ErrorIs(t, LinkFilters(nil, 0, sink, 0), ErrInvalidArgument)
	assert.ErrorIs(t, LinkFilters(src, 1, sink, 0), ErrInvalidArgument)
	assert.ErrorIs(t, LinkFilters(src, 0, sink, 1), ErrInvalidArgument)
	require.NoError(t, LinkFilters(src, 0, sink, 0))
	assert.ErrorIs(t, LinkFilters(src, 0, sink, 0), ErrInvalidArgument)
}

func TestGraph_CreateFilterErrors(t *testing.T) {
	g := AllocGraph()
	defer g.Free()

	_, err := g.CreateFilter(nil, "x", "")
	assert.ErrorIs(t, err, ErrFilterNotFound)

	_, err = g.CreateFilter(FindFilterByName("buffer"), "in", "video_size=0x16:pix_fmt=gray")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = g.CreateFilter(FindFilterByName("buffer"), "in", "video_size=16x16:pix_fmt=rgb48")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = g.CreateFilter(FindFilterByName("buffer"), "in", "video_size=16x16:pix_fmt=gray:time_base=0/1")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = g.CreateFilter(FindFilterByName("scale"), "s", "flags=lanczos9")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGraph_Free(t *testing.T) {
	g, src, sink := newTestGraph(t, 16, 16, video.PixelFormatGray8, "null")

	for i := 0; i < 3; i++ {
		require.NoError(t, src.AddFrame(wrap(rampFrame(t, 16, 16, video.PixelFormatGray8)), FlagKeepRef))
	}
	assert.Equal(t, 3, sink.QueuedFrames())
	assert.Equal(t, 3, g.PoolStats().InUse)

	g.Free()
	assert.Equal(t, 0, g.PoolStats().InUse)
	assert.Empty(t, g.Filters())

	assert.NotPanics(t, g.Free)
	var nilGraph *Graph
	assert.NotPanics(t, nilGraph.Free)

	_, err := g.CreateFilter(FindFilterByName("null"), "late", "")
	assert.ErrorIs(t, err, ErrGraphFreed)
	assert.ErrorIs(t, g.Parse("null", nil, nil), ErrGraphFreed)
	assert.ErrorIs(t, g.Config(), ErrGraphFreed)
	assert.ErrorIs(t, src.AddFrame(nil, 0), ErrGraphFreed)
	assert.ErrorIs(t, sink.GetFrame(AllocFrame()), ErrGraphFreed)
}

func TestGraph_SetLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	g := AllocGraph()
	defer g.Free()
	g.SetLogger(logrus.NewEntry(logger).WithField("graph", "under-test"))
	g.SetLogger(nil)

	_, err := g.CreateFilter(FindFilterByName("null"), "n", "")
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Created filter context", entry.Message)
	assert.Equal(t, "under-test", entry.Data["graph"])
	assert.Equal(t, "Graph.CreateFilter", entry.Data["function"])
}
