package filtergraph

import (
	"github.com/opd-ai/vfgraph/av/video"
)

func init() {
	registerFilter(&Filter{
		Name:        "negate",
		Description: "Negate input video.",
		NbInputs:    1,
		NbOutputs:   1,
		init: func(ctx *FilterContext, opts *Options) (filterImpl, error) {
			return &lutFilter{luts: [video.MaxPlanes]*video.LUT{
				video.NegateLUT(), video.NegateLUT(), video.NegateLUT(), video.NegateLUT(),
			}}, nil
		},
	})
}

// lutFilter maps each plane through its own table. A nil table leaves the
// plane untouched.
type lutFilter struct {
	luts [video.MaxPlanes]*video.LUT
}

func (l *lutFilter) configure(ctx *FilterContext) error {
	copyLinkProps(ctx)
	return nil
}

func (l *lutFilter) identity() bool {
	for _, lut := range l.luts {
		if lut != nil && !lut.IsIdentity() {
			return false
		}
	}
	return true
}

func (l *lutFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	if l.identity() {
		return ctx.sendFrame(in)
	}
	out, err := ctx.graph.makeWritable(in)
	if err != nil {
		return err
	}
	v := out.Video()
	for i := 0; i < v.PlaneCount(); i++ {
		if lut := l.luts[i]; lut != nil {
			lut.Apply(v.Plane(i), v.Plane(i))
		}
	}
	return ctx.sendFrame(out)
}
