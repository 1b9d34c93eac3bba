package filtergraph

func init() {
	registerFilter(&Filter{
		Name:        "hflip",
		Description: "Horizontally flip the input video.",
		NbInputs:    1,
		NbOutputs:   1,
		init: func(ctx *FilterContext, opts *Options) (filterImpl, error) {
			return &flipFilter{horizontal: true}, nil
		},
	})
	registerFilter(&Filter{
		Name:        "vflip",
		Description: "Flip the input video vertically.",
		NbInputs:    1,
		NbOutputs:   1,
		init: func(ctx *FilterContext, opts *Options) (filterImpl, error) {
			return &flipFilter{}, nil
		},
	})
}

type flipFilter struct {
	horizontal bool
}

func (f *flipFilter) configure(ctx *FilterContext) error {
	copyLinkProps(ctx)
	return nil
}

func (f *flipFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	out, err := ctx.graph.allocFrame(in.Width, in.Height, in.Format)
	if err != nil {
		in.Unref()
		return err
	}
	out.copyProps(in)

	src, dst := in.Video(), out.Video()
	for i := 0; i < src.PlaneCount(); i++ {
		sp, dp := src.Plane(i), dst.Plane(i)
		for y := 0; y < sp.Height; y++ {
			if !f.horizontal {
				copy(dp.Row(sp.Height-1-y), sp.Row(y))
				continue
			}
			srow, drow := sp.Row(y), dp.Row(y)
			for x, last := 0, sp.Width-1; x <= last; x++ {
				drow[last-x] = srow[x]
			}
		}
	}

	in.Unref()
	return ctx.sendFrame(out)
}
