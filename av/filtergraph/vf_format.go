package filtergraph

import (
	"fmt"
	"strings"

	"github.com/opd-ai/vfgraph/av/video"
)

func init() {
	registerFilter(&Filter{
		Name:        "format",
		Description: "Convert the input video to one of the specified pixel formats.",
		NbInputs:    1,
		NbOutputs:   1,
		Options: []Option{
			{Name: "pix_fmts", Help: "'|'-separated list of accepted formats"},
		},
		init: newFormatFilter,
	})
}

type formatFilter struct {
	formats []video.PixelFormat
	scaler  *video.Scaler
}

func newFormatFilter(ctx *FilterContext, opts *Options) (filterImpl, error) {
	raw := opts.String("pix_fmts")
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: format: empty pix_fmts", ErrInvalidArgument)
	}
	f := &formatFilter{scaler: video.NewScaler(video.ScaleBilinear)}
	for _, name := range strings.Split(raw, "|") {
		pf, err := video.ParsePixelFormat(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		f.formats = append(f.formats, pf)
	}
	return f, nil
}

func (f *formatFilter) configure(ctx *FilterContext) error {
	copyLinkProps(ctx)
	in, out := ctx.inputs[0], ctx.outputs[0]
	if !supportsFormat(f.formats, in.Format) {
		out.Format = f.formats[0]
	}
	return nil
}

func (f *formatFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	target := ctx.outputs[0].Format
	if in.Format == target {
		return ctx.sendFrame(in)
	}

	out, err := ctx.graph.allocFrame(in.Width, in.Height, target)
	if err != nil {
		in.Unref()
		return err
	}
	out.copyProps(in)

	src, dst := in.Video(), out.Video()
	dst.Plane(0).CopyFrom(src.Plane(0))
	for i := 1; i < dst.PlaneCount(); i++ {
		if i >= src.PlaneCount() {
			dst.Plane(i).Fill(128)
			continue
		}
		if err := f.scaler.ScalePlane(dst.Plane(i), src.Plane(i)); err != nil {
			in.Unref()
			out.Unref()
			return err
		}
	}

	in.Unref()
	return ctx.sendFrame(out)
}
