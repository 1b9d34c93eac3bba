package filtergraph

import (
	"github.com/opd-ai/vfgraph/av/video"
)

func init() {
	registerFilter(&Filter{
		Name:        "unsharp",
		Description: "Sharpen or blur the input video.",
		NbInputs:    1,
		NbOutputs:   1,
		Options: []Option{
			{Name: "luma_amount", Aliases: []string{"la"}, Default: "1.0"},
			{Name: "chroma_amount", Aliases: []string{"ca"}, Default: "0"},
		},
		init: newUnsharpFilter,
	})
}

type unsharpFilter struct {
	amounts [2]float64
}

func newUnsharpFilter(ctx *FilterContext, opts *Options) (filterImpl, error) {
	luma, err := opts.FloatRange("luma_amount", -2, 5)
	if err != nil {
		return nil, err
	}
	chroma, err := opts.FloatRange("chroma_amount", -2, 5)
	if err != nil {
		return nil, err
	}
	return &unsharpFilter{amounts: [2]float64{luma, chroma}}, nil
}

func (u *unsharpFilter) configure(ctx *FilterContext) error {
	copyLinkProps(ctx)
	return nil
}

func (u *unsharpFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	if u.amounts[0] == 0 && u.amounts[1] == 0 {
		return ctx.sendFrame(in)
	}

	out, err := ctx.graph.allocFrame(in.Width, in.Height, in.Format)
	if err != nil {
		in.Unref()
		return err
	}
	out.copyProps(in)

	src, dst := in.Video(), out.Video()
	for i := 0; i < src.PlaneCount(); i++ {
		amount := u.amounts[min(i, 1)]
		if err := video.SharpenPlane(dst.Plane(i), src.Plane(i), amount); err != nil {
			in.Unref()
			out.Unref()
			return err
		}
	}

	in.Unref()
	return ctx.sendFrame(out)
}
