package filtergraph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vfgraph/av/video"
)

func TestNullAndCopy_Identity(t *testing.T) {
	for _, desc := range []string{"null", "copy", "null,copy,null"} {
		t.Run(desc, func(t *testing.T) {
			for _, pf := range video.SupportedPixelFormats() {
				_, src, sink := newTestGraph(t, 33, 17, pf, desc)
				in := rampFrame(t, 33, 17, pf)
				out := filterOne(t, src, sink, in)
				assert.True(t, in.Equal(out), "format %v", pf)
			}
		})
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		desc         string
		w, h         int
		wantW, wantH int
		wantSAR      Rational
	}{
		{desc: "scale=iw/2:ih/2", w: 640, h: 480, wantW: 320, wantH: 240, wantSAR: NewRational(1, 1)},
		{desc: "scale=320:-1", w: 640, h: 480, wantW: 320, wantH: 240, wantSAR: NewRational(1, 1)},
		{desc: "scale=-2:100", w: 640, h: 480, wantW: 134, wantH: 100, wantSAR: NewRational(200, 201)},
		{desc: "scale=w=oh*2:h=60", w: 640, h: 480, wantW: 120, wantH: 60, wantSAR: NewRational(2, 3)},
		{desc: "scale=0:0", w: 64, h: 48, wantW: 64, wantH: 48, wantSAR: NewRational(1, 1)},
		{desc: "scale", w: 64, h: 48, wantW: 64, wantH: 48, wantSAR: NewRational(1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, src, sink := newTestGraph(t, tt.w, tt.h, video.PixelFormatYUV420P, tt.desc)
			link := sink.Input(0)
			assert.Equal(t, tt.wantW, link.Width)
			assert.Equal(t, tt.wantH, link.Height)
			assert.Equal(t, tt.wantSAR, link.SAR)

			out := filterOne(t, src, sink, rampFrame(t, tt.w, tt.h, video.PixelFormatYUV420P))
			assert.Equal(t, tt.wantW, out.Width)
			assert.Equal(t, tt.wantH, out.Height)
			require.NoError(t, out.Validate())
		})
	}
}

func TestScale_UniformStaysUniform(t *testing.T) {
	for _, flags := range []string{"bilinear", "neighbor", "bicubic", "area"} {
		t.Run(flags, func(t *testing.T) {
			_, src, sink := newTestGraph(t, 64, 64, video.PixelFormatYUV420P, "scale=48:40:flags="+flags)
			out := filterOne(t, src, sink, uniformFrame(t, 64, 64, video.PixelFormatYUV420P, 90))
			for y := 0; y < out.Height; y++ {
				for _, v := range out.Plane(0).Row(y) {
					assert.InDelta(t, 90, int(v), 1)
				}
			}
		})
	}
}

func TestScale_InvalidSize(t *testing.T) {
	for _, desc := range []string{"scale=iw*100:ih*100", "scale=-1:-1:flags=nope", "scale=w=ow:h=oh"} {
		g, _, _, err := buildGraph(640, 480, video.PixelFormatYUV420P, desc)
		g.Free()
		assert.ErrorIs(t, err, ErrInvalidArgument, desc)
	}
}

func TestCrop(t *testing.T) {
	in := rampFrame(t, 8, 8, video.PixelFormatGray8)

	t.Run("explicit offsets", func(t *testing.T) {
		_, src, sink := newTestGraph(t, 8, 8, video.PixelFormatGray8, "crop=4:3:1:2")
		out := filterOne(t, src, sink, in)
		require.Equal(t, 4, out.Width)
		require.Equal(t, 3, out.Height)
		for y := 0; y < 3; y++ {
			assert.Equal(t, in.Plane(0).Row(y+2)[1:5], out.Plane(0).Row(y))
		}
	})

	t.Run("centered by default", func(t *testing.T) {
		_, src, sink := newTestGraph(t, 8, 8, video.PixelFormatGray8, "crop=w=4:h=4")
		out := filterOne(t, src, sink, in)
		assert.Equal(t, in.Plane(0).Row(2)[2:6], out.Plane(0).Row(0))
	})

	t.Run("offsets snap to chroma grid", func(t *testing.T) {
		yuv := rampFrame(t, 8, 8, video.PixelFormatYUV420P)
		_, src, sink := newTestGraph(t, 8, 8, video.PixelFormatYUV420P, "crop=4:4:1:1")
		out := filterOne(t, src, sink, yuv)
		assert.Equal(t, yuv.Plane(0).Row(0)[0:4], out.Plane(0).Row(0))
		require.NoError(t, out.Validate())
	})

	t.Run("expressions", func(t *testing.T) {
		_, _, sink := newTestGraph(t, 640, 480, video.PixelFormatYUV420P, "crop=in_w/2:in_h/2:0:0")
		assert.Equal(t, 320, sink.Input(0).Width)
		assert.Equal(t, 240, sink.Input(0).Height)
	})

	t.Run("too large", func(t *testing.T) {
		g, _, _, err := buildGraph(8, 8, video.PixelFormatGray8, "crop=9:4")
		g.Free()
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestFlip(t *testing.T) {
	in := rampFrame(t, 5, 3, video.PixelFormatGray8)

	_, src, sink := newTestGraph(t, 5, 3, video.PixelFormatGray8, "hflip")
	out := filterOne(t, src, sink, in)
	assert.Equal(t, []byte{4, 3, 2, 1, 0}, out.Plane(0).Row(0))

	_, src, sink = newTestGraph(t, 5, 3, video.PixelFormatGray8, "vflip")
	out = filterOne(t, src, sink, in)
	assert.Equal(t, in.Plane(0).Row(2), out.Plane(0).Row(0))

	_, src, sink = newTestGraph(t, 5, 3, video.PixelFormatGray8, "hflip,hflip,vflip,vflip")
	out = filterOne(t, src, sink, in)
	assert.True(t, in.Equal(out))
}

func TestTranspose(t *testing.T) {
	in, err := video.NewVideoFrame(3, 2, video.PixelFormatGray8)
	require.NoError(t, err)
	copy(in.Data[0], []byte{1, 2, 3, 4, 5, 6})

	tests := []struct {
		dir  string
		want [][]byte
	}{
		{dir: "cclock_flip", want: [][]byte{{1, 4}, {2, 5}, {3, 6}}},
		{dir: "0", want: [][]byte{{1, 4}, {2, 5}, {3, 6}}},
		{dir: "clock", want: [][]byte{{4, 1}, {5, 2}, {6, 3}}},
		{dir: "cclock", want: [][]byte{{3, 6}, {2, 5}, {1, 4}}},
		{dir: "clock_flip", want: [][]byte{{6, 3}, {5, 2}, {4, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			_, src, sink := newTestGraph(t, 3, 2, video.PixelFormatGray8, "transpose="+tt.dir)
			out := filterOne(t, src, sink, in)
			require.Equal(t, 2, out.Width)
			require.Equal(t, 3, out.Height)
			for y, row := range tt.want {
				assert.Equal(t, row, out.Plane(0).Row(y))
			}
		})
	}

	g, _, _, err := buildGraph(3, 2, video.PixelFormatGray8, "transpose=7")
	g.Free()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTranspose_SwapsSAR(t *testing.T) {
	g := AllocGraph()
	defer g.Free()
	src, err := g.CreateFilter(FindFilterByName("buffer"), "in", "video_size=8x4:pix_fmt=yuv420p:sar=4/3")
	require.NoError(t, err)
	sink, err := g.CreateFilter(FindFilterByName("buffersink"), "out", "")
	require.NoError(t, err)
	require.NoError(t, g.Parse("transpose=clock", &InOut{Name: "out", FilterContext: sink}, &InOut{Name: "in", FilterContext: src}))
	require.NoError(t, g.Config())
	assert.Equal(t, NewRational(3, 4), sink.Input(0).SAR)
	assert.Equal(t, 4, sink.Input(0).Width)
}

func TestNegate(t *testing.T) {
	in := rampFrame(t, 16, 16, video.PixelFormatYUV420P)

	_, src, sink := newTestGraph(t, 16, 16, video.PixelFormatYUV420P, "negate")
	out := filterOne(t, src, sink, in)
	assert.Equal(t, byte(255), out.Data[0][0])
	assert.Equal(t, byte(127), out.Data[1][0])

	_, src, sink = newTestGraph(t, 16, 16, video.PixelFormatYUV420P, "negate,negate")
	out = filterOne(t, src, sink, in)
	assert.True(t, in.Equal(out))
}

func TestEq(t *testing.T) {
	in := uniformFrame(t, 16, 16, video.PixelFormatYUV444P, 100)
	in.Plane(1).Fill(138)

	_, src, sink := newTestGraph(t, 16, 16, video.PixelFormatYUV444P, "eq")
	out := filterOne(t, src, sink, in)
	assert.True(t, in.Equal(out))

	_, src, sink = newTestGraph(t, 16, 16, video.PixelFormatYUV444P, "eq=brightness=0.1:saturation=2")
	out = filterOne(t, src, sink, in)
	assert.Equal(t, byte(126), out.Data[0][0])
	assert.Equal(t, byte(148), out.Data[1][0])
	assert.Equal(t, byte(128), out.Data[2][0])

	_, src, sink = newTestGraph(t, 16, 16, video.PixelFormatGray8, "eq=contrast=0")
	out = filterOne(t, src, sink, rampFrame(t, 16, 16, video.PixelFormatGray8))
	assert.Equal(t, byte(128), out.Data[0][200])

	for _, desc := range []string{"eq=brightness=2", "eq=saturation=-1", "eq=contrast=2000"} {
		g, _, _, err := buildGraph(16, 16, video.PixelFormatGray8, desc)
		g.Free()
		assert.ErrorIs(t, err, ErrInvalidArgument, desc)
	}
}

func TestBoxBlur(t *testing.T) {
	_, src, sink := newTestGraph(t, 32, 32, video.PixelFormatYUV420P, "boxblur")
	in := uniformFrame(t, 32, 32, video.PixelFormatYUV420P, 60)
	out := filterOne(t, src, sink, in)
	assert.True(t, in.Equal(out))

	_, src, sink = newTestGraph(t, 32, 32, video.PixelFormatGray8, "boxblur=lr=1:lp=1")
	ramp := rampFrame(t, 32, 32, video.PixelFormatGray8)
	out = filterOne(t, src, sink, ramp)
	assert.False(t, ramp.Equal(out))

	_, src, sink = newTestGraph(t, 32, 32, video.PixelFormatYUV420P, "boxblur=0:0:0:0")
	out = filterOne(t, src, sink, rampFrame(t, 32, 32, video.PixelFormatYUV420P))
	assert.True(t, rampFrame(t, 32, 32, video.PixelFormatYUV420P).Equal(out))

	for _, desc := range []string{"boxblur=lr=20", "boxblur=lr=-2", "boxblur=lp=x"} {
		g, _, _, err := buildGraph(32, 32, video.PixelFormatYUV420P, desc)
		g.Free()
		assert.ErrorIs(t, err, ErrInvalidArgument, desc)
	}
}

func TestUnsharp(t *testing.T) {
	in := uniformFrame(t, 16, 16, video.PixelFormatYUV420P, 77)

	_, src, sink := newTestGraph(t, 16, 16, video.PixelFormatYUV420P, "unsharp")
	assert.True(t, in.Equal(filterOne(t, src, sink, in)))

	_, src, sink = newTestGraph(t, 16, 16, video.PixelFormatYUV420P, "unsharp=la=0:ca=0")
	ramp := rampFrame(t, 16, 16, video.PixelFormatYUV420P)
	assert.True(t, ramp.Equal(filterOne(t, src, sink, ramp)))

	g, _, _, err := buildGraph(16, 16, video.PixelFormatYUV420P, "unsharp=la=9")
	g.Free()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFormat(t *testing.T) {
	t.Run("gray to yuv420p", func(t *testing.T) {
		in := rampFrame(t, 16, 8, video.PixelFormatGray8)
		_, src, sink := newTestGraph(t, 16, 8, video.PixelFormatGray8, "format=yuv420p")
		assert.Equal(t, video.PixelFormatYUV420P, sink.Input(0).Format)

		out := filterOne(t, src, sink, in)
		assert.Equal(t, video.PixelFormatYUV420P, out.Format)
		assert.Equal(t, in.Plane(0).Row(3), out.Plane(0).Row(3))
		assert.Equal(t, byte(128), out.Data[1][0])
		assert.Equal(t, byte(128), out.Data[2][31])
	})

	t.Run("yuv420p to yuv444p", func(t *testing.T) {
		in := uniformFrame(t, 16, 8, video.PixelFormatYUV420P, 50)
		in.Plane(1).Fill(90)
		_, src, sink := newTestGraph(t, 16, 8, video.PixelFormatYUV420P, "format=pix_fmts=yuv444p")
		out := filterOne(t, src, sink, in)
		assert.Len(t, out.Data[1], 16*8)
		assert.Equal(t, byte(90), out.Data[1][100])
	})

	t.Run("accepted format passes through", func(t *testing.T) {
		in := rampFrame(t, 16, 8, video.PixelFormatGray8)
		_, src, sink := newTestGraph(t, 16, 8, video.PixelFormatGray8, "format=yuv420p|gray")
		assert.Equal(t, video.PixelFormatGray8, sink.Input(0).Format)
		assert.True(t, in.Equal(filterOne(t, src, sink, in)))
	})

	t.Run("errors", func(t *testing.T) {
		g, _, _, err := buildGraph(16, 8, video.PixelFormatGray8, "format")
		g.Free()
		assert.ErrorIs(t, err, ErrInvalidArgument)

		g, _, _, err = buildGraph(16, 8, video.PixelFormatGray8, "format=rgb24")
		g.Free()
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestFrameStep(t *testing.T) {
	_, src, sink := newTestGraph(t, 8, 8, video.PixelFormatGray8, "framestep=3")

	in := rampFrame(t, 8, 8, video.PixelFormatGray8)
	for i := 0; i < 7; i++ {
		f := wrap(in)
		f.PTS = int64(i)
		require.NoError(t, src.AddFrame(f, FlagKeepRef))
	}

	var pts []int64
	out := AllocFrame()
	for sink.GetFrame(out) == nil {
		pts = append(pts, out.PTS)
		out.Unref()
	}
	assert.Equal(t, []int64{0, 3, 6}, pts)

	g, _, _, err := buildGraph(8, 8, video.PixelFormatGray8, "framestep=0")
	g.Free()
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestComplexGraph(t *testing.T) {
	desc := "[in]scale=iw/2:ih/2[a];[a]crop=100:80,hflip,format=gray[b];[b]negate[out]"
	g, src, sink := newTestGraph(t, 640, 480, video.PixelFormatYUV420P, desc)
	assert.Len(t, g.Filters(), 7)

	for i := 0; i < 5; i++ {
		out := filterOne(t, src, sink, rampFrame(t, 640, 480, video.PixelFormatYUV420P))
		assert.Equal(t, 100, out.Width, fmt.Sprintf("frame %d", i))
		assert.Equal(t, 80, out.Height)
		assert.Equal(t, video.PixelFormatGray8, out.Format)
	}
	assert.Equal(t, 0, g.PoolStats().InUse)
}
