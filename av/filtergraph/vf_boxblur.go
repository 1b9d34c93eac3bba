package filtergraph

import (
	"fmt"

	"github.com/opd-ai/vfgraph/av/video"
)

func init() {
	registerFilter(&Filter{
		Name:        "boxblur",
		Description: "Blur the input.",
		NbInputs:    1,
		NbOutputs:   1,
		Options: []Option{
			{Name: "luma_radius", Aliases: []string{"lr"}, Default: "2"},
			{Name: "luma_power", Aliases: []string{"lp"}, Default: "2"},
			{Name: "chroma_radius", Aliases: []string{"cr"}, Default: "-1"},
			{Name: "chroma_power", Aliases: []string{"cp"}, Default: "-1"},
		},
		init: newBoxBlurFilter,
	})
}

type boxBlurFilter struct {
	lumaRadius, lumaPower     int
	chromaRadius, chromaPower int
	scratch                   *video.VideoFrame
}

func newBoxBlurFilter(ctx *FilterContext, opts *Options) (filterImpl, error) {
	b := &boxBlurFilter{}
	for _, o := range []struct {
		name string
		dst  *int
	}{
		{"luma_radius", &b.lumaRadius},
		{"luma_power", &b.lumaPower},
		{"chroma_radius", &b.chromaRadius},
		{"chroma_power", &b.chromaPower},
	} {
		v, err := opts.Int(o.name)
		if err != nil {
			return nil, err
		}
		*o.dst = v
	}

	if b.lumaRadius < 0 || b.lumaPower < 0 {
		return nil, fmt.Errorf("%w: boxblur luma radius and power must not be negative", ErrInvalidArgument)
	}
	if b.chromaRadius < 0 {
		b.chromaRadius = b.lumaRadius
	}
	if b.chromaPower < 0 {
		b.chromaPower = b.lumaPower
	}
	return b, nil
}

func (b *boxBlurFilter) configure(ctx *FilterContext) error {
	in := ctx.inputs[0]
	for i := 0; i < video.MaxPlanes; i++ {
		w, h := in.Format.PlaneSize(i, in.Width, in.Height)
		if w == 0 {
			break
		}
		radius := b.lumaRadius
		if i > 0 {
			radius = b.chromaRadius
		}
		if radius > min(w, h)/2 {
			return fmt.Errorf("%w: blur radius %d too big for plane %d of size %dx%d", ErrInvalidArgument, radius, i, w, h)
		}
	}

	copyLinkProps(ctx)
	scratch, err := video.NewVideoFrame(in.Width, in.Height, in.Format)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	b.scratch = scratch
	return nil
}

func (b *boxBlurFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	out, err := ctx.graph.makeWritable(in)
	if err != nil {
		return err
	}
	v := out.Video()
	for i := 0; i < v.PlaneCount(); i++ {
		radius, power := b.lumaRadius, b.lumaPower
		if i > 0 {
			radius, power = b.chromaRadius, b.chromaPower
		}
		if radius == 0 || power == 0 {
			continue
		}
		src := b.scratch.Plane(i)
		src.CopyFrom(v.Plane(i))
		if err := video.BoxBlurPlane(v.Plane(i), src, radius, power); err != nil {
			out.Unref()
			return err
		}
	}
	return ctx.sendFrame(out)
}
