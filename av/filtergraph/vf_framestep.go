package filtergraph

import (
	"fmt"
)

func init() {
	registerFilter(&Filter{
		Name:        "framestep",
		Description: "Select one frame every N frames.",
		NbInputs:    1,
		NbOutputs:   1,
		Options: []Option{
			{Name: "step", Default: "1"},
		},
		init: func(ctx *FilterContext, opts *Options) (filterImpl, error) {
			step, err := opts.Int("step")
			if err != nil {
				return nil, err
			}
			if step < 1 {
				return nil, fmt.Errorf("%w: framestep step must be at least 1, got %d", ErrInvalidArgument, step)
			}
			return &frameStepFilter{step: step}, nil
		},
	})
}

// frameStepFilter forwards frames 0, step, 2*step and so on.
type frameStepFilter struct {
	step  int
	count int
}

func (s *frameStepFilter) configure(ctx *FilterContext) error {
	copyLinkProps(ctx)
	return nil
}

func (s *frameStepFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	keep := s.count%s.step == 0
	s.count++
	if !keep {
		in.Unref()
		return nil
	}
	return ctx.sendFrame(in)
}
