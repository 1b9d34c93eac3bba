package filtergraph

func init() {
	registerFilter(&Filter{
		Name:        "null",
		Description: "Pass the source unchanged to the output.",
		NbInputs:    1,
		NbOutputs:   1,
		init: func(ctx *FilterContext, opts *Options) (filterImpl, error) {
			return passthrough{}, nil
		},
	})
	registerFilter(&Filter{
		Name:        "copy",
		Description: "Copy the input video unchanged to the output.",
		NbInputs:    1,
		NbOutputs:   1,
		init: func(ctx *FilterContext, opts *Options) (filterImpl, error) {
			return copyFilter{}, nil
		},
	})
}

// copyLinkProps makes the output link of a 1-in/1-out filter mirror its input.
func copyLinkProps(ctx *FilterContext) {
	in, out := ctx.inputs[0], ctx.outputs[0]
	out.Width = in.Width
	out.Height = in.Height
	out.Format = in.Format
	out.SAR = in.SAR
	out.TimeBase = in.TimeBase
}

type passthrough struct{}

func (passthrough) configure(ctx *FilterContext) error {
	copyLinkProps(ctx)
	return nil
}

func (passthrough) filterFrame(ctx *FilterContext, in *Frame) error {
	return ctx.sendFrame(in)
}

type copyFilter struct{}

func (copyFilter) configure(ctx *FilterContext) error {
	copyLinkProps(ctx)
	return nil
}

func (copyFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	out, err := ctx.graph.cloneFrame(in)
	in.Unref()
	if err != nil {
		return err
	}
	return ctx.sendFrame(out)
}
