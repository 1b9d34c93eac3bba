package filtergraph

import (
	"fmt"

	"github.com/opd-ai/vfgraph/av/video"
)

// Transpose directions.
const (
	transposeCClockFlip = iota
	transposeClock
	transposeCClock
	transposeClockFlip
)

var transposeDirNames = map[string]int{
	"cclock_flip": transposeCClockFlip,
	"clock":       transposeClock,
	"cclock":      transposeCClock,
	"clock_flip":  transposeClockFlip,
}

func init() {
	registerFilter(&Filter{
		Name:        "transpose",
		Description: "Transpose input video.",
		NbInputs:    1,
		NbOutputs:   1,
		Options: []Option{
			{Name: "dir", Default: "cclock_flip"},
		},
		// Chroma subsampling must be symmetric for the planes to swap axes.
		PixelFormats: []video.PixelFormat{
			video.PixelFormatYUV420P,
			video.PixelFormatYUV444P,
			video.PixelFormatYUV410P,
			video.PixelFormatGray8,
		},
		init: newTransposeFilter,
	})
}

type transposeFilter struct {
	dir int
}

func newTransposeFilter(ctx *FilterContext, opts *Options) (filterImpl, error) {
	raw := opts.String("dir")
	if dir, ok := transposeDirNames[raw]; ok {
		return &transposeFilter{dir: dir}, nil
	}
	dir, err := opts.Int("dir")
	if err != nil || dir < 0 || dir > 3 {
		return nil, fmt.Errorf("%w: transpose dir %q", ErrInvalidArgument, raw)
	}
	return &transposeFilter{dir: dir}, nil
}

func (t *transposeFilter) configure(ctx *FilterContext) error {
	in, out := ctx.inputs[0], ctx.outputs[0]
	out.Width = in.Height
	out.Height = in.Width
	out.Format = in.Format
	out.TimeBase = in.TimeBase
	if in.SAR.Num != 0 {
		out.SAR = Rational{Num: in.SAR.Den, Den: in.SAR.Num}
	}
	return nil
}

func (t *transposeFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	out, err := ctx.graph.allocFrame(in.Height, in.Width, in.Format)
	if err != nil {
		in.Unref()
		return err
	}
	out.copyProps(in)
	out.SAR = ctx.outputs[0].SAR

	src, dst := in.Video(), out.Video()
	for i := 0; i < src.PlaneCount(); i++ {
		sp, dp := src.Plane(i), dst.Plane(i)
		for y := 0; y < dp.Height; y++ {
			row := dp.Row(y)
			for x := range row {
				sx, sy := y, x
				if t.dir == transposeClock || t.dir == transposeClockFlip {
					sy = sp.Height - 1 - x
				}
				if t.dir == transposeCClock || t.dir == transposeClockFlip {
					sx = sp.Width - 1 - y
				}
				row[x] = sp.Data[sy*sp.Stride+sx]
			}
		}
	}

	in.Unref()
	return ctx.sendFrame(out)
}
