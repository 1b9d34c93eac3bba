package filtergraph

import (
	"fmt"
	"math"

	"github.com/opd-ai/vfgraph/av/video"
	"github.com/opd-ai/vfgraph/limits"
)

func init() {
	registerFilter(&Filter{
		Name:        "scale",
		Description: "Scale the input video size.",
		NbInputs:    1,
		NbOutputs:   1,
		Options: []Option{
			{Name: "w", Aliases: []string{"width"}, Default: "iw", Help: "output width expression"},
			{Name: "h", Aliases: []string{"height"}, Default: "ih", Help: "output height expression"},
			{Name: "flags", Default: "bilinear", Help: "scaling algorithm"},
		},
		init: newScaleFilter,
	})
}

type scaleFilter struct {
	wExpr  string
	hExpr  string
	scaler *video.Scaler
}

func newScaleFilter(ctx *FilterContext, opts *Options) (filterImpl, error) {
	alg, err := video.ParseScaleAlgorithm(opts.String("flags"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return &scaleFilter{
		wExpr:  opts.String("w"),
		hExpr:  opts.String("h"),
		scaler: video.NewScaler(alg),
	}, nil
}

// linkVars returns the variables shared by size expressions of geometry
// filters.
func linkVars(in *Link) map[string]float64 {
	d, _ := in.Format.Descriptor()
	sar := in.SAR.Float64()
	if sar == 0 {
		sar = 1
	}
	a := float64(in.Width) / float64(in.Height)
	return map[string]float64{
		"iw":   float64(in.Width),
		"in_w": float64(in.Width),
		"ih":   float64(in.Height),
		"in_h": float64(in.Height),
		"a":    a,
		"sar":  sar,
		"dar":  a * sar,
		"hsub": float64(int(1) << d.Log2ChromaW),
		"vsub": float64(int(1) << d.Log2ChromaH),
	}
}

func (s *scaleFilter) configure(ctx *FilterContext) error {
	in, out := ctx.inputs[0], ctx.outputs[0]
	vars := linkVars(in)

	// Width and height may refer to each other; evaluate w, then h, then w
	// again with the final height.
	vars["ow"], vars["out_w"] = math.NaN(), math.NaN()
	vars["oh"], vars["out_h"] = math.NaN(), math.NaN()
	w, _ := evalExpr(s.wExpr, vars)
	vars["ow"], vars["out_w"] = w, w
	h, err := evalDimension(s.hExpr, vars)
	if err != nil {
		return err
	}
	vars["oh"], vars["out_h"] = float64(h), float64(h)
	width, err := evalDimension(s.wExpr, vars)
	if err != nil {
		return err
	}

	width, h = keepAspect(width, h, in.Width, in.Height)
	if err := limits.ValidateFrameSize(width, h); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	out.Width = width
	out.Height = h
	out.Format = in.Format
	out.TimeBase = in.TimeBase
	out.SAR = Rational{
		Num: in.SAR.Num * h * in.Width,
		Den: in.SAR.Den * width * in.Height,
	}.Reduce()
	return nil
}

// keepAspect resolves special sizes: 0 keeps the input size, -1 keeps the
// input aspect ratio and -n additionally rounds to a multiple of n.
func keepAspect(w, h, iw, ih int) (int, int) {
	if w == 0 {
		w = iw
	}
	if h == 0 {
		h = ih
	}
	if w < 0 && h < 0 {
		return iw, ih
	}
	if w < 0 {
		div := -w
		w = int(math.Round(float64(h)*float64(iw)/float64(ih)/float64(div))) * div
	}
	if h < 0 {
		div := -h
		h = int(math.Round(float64(w)*float64(ih)/float64(iw)/float64(div))) * div
	}
	return w, h
}

func (s *scaleFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	out := ctx.outputs[0]
	if out.Width == in.Width && out.Height == in.Height {
		return ctx.sendFrame(in)
	}

	scaled, err := ctx.graph.allocFrame(out.Width, out.Height, in.Format)
	if err != nil {
		in.Unref()
		return err
	}
	scaled.copyProps(in)
	scaled.SAR = out.SAR

	err = s.scaler.ScaleInto(scaled.Video(), in.Video())
	in.Unref()
	if err != nil {
		scaled.Unref()
		return err
	}
	return ctx.sendFrame(scaled)
}
