package filtergraph

import (
	"fmt"
	"math"
)

func init() {
	registerFilter(&Filter{
		Name:        "crop",
		Description: "Crop the input video.",
		NbInputs:    1,
		NbOutputs:   1,
		Options: []Option{
			{Name: "w", Aliases: []string{"out_w"}, Default: "iw"},
			{Name: "h", Aliases: []string{"out_h"}, Default: "ih"},
			{Name: "x", Default: "(in_w-out_w)/2"},
			{Name: "y", Default: "(in_h-out_h)/2"},
		},
		init: func(ctx *FilterContext, opts *Options) (filterImpl, error) {
			return &cropFilter{
				wExpr: opts.String("w"),
				hExpr: opts.String("h"),
				xExpr: opts.String("x"),
				yExpr: opts.String("y"),
			}, nil
		},
	})
}

// cropFilter crops without copying: output planes are windows into the
// input buffer.
type cropFilter struct {
	wExpr, hExpr, xExpr, yExpr string
	x, y                       int
}

func (c *cropFilter) configure(ctx *FilterContext) error {
	in, out := ctx.inputs[0], ctx.outputs[0]
	vars := linkVars(in)
	vars["ow"], vars["out_w"] = math.NaN(), math.NaN()
	vars["oh"], vars["out_h"] = math.NaN(), math.NaN()

	w, _ := evalExpr(c.wExpr, vars)
	vars["ow"], vars["out_w"] = w, w
	h, err := evalDimension(c.hExpr, vars)
	if err != nil {
		return err
	}
	vars["oh"], vars["out_h"] = float64(h), float64(h)
	width, err := evalDimension(c.wExpr, vars)
	if err != nil {
		return err
	}
	vars["ow"], vars["out_w"] = float64(width), float64(width)

	if width <= 0 || h <= 0 || width > in.Width || h > in.Height {
		return fmt.Errorf("%w: invalid crop size %dx%d for %dx%d input", ErrInvalidArgument, width, h, in.Width, in.Height)
	}

	x, err := evalDimension(c.xExpr, vars)
	if err != nil {
		return err
	}
	y, err := evalDimension(c.yExpr, vars)
	if err != nil {
		return err
	}

	// Offsets must land on a chroma sample and keep the window inside the
	// picture.
	d, _ := in.Format.Descriptor()
	x = clampInt(x, 0, in.Width-width)
	y = clampInt(y, 0, in.Height-h)
	c.x = x &^ (1<<d.Log2ChromaW - 1)
	c.y = y &^ (1<<d.Log2ChromaH - 1)

	out.Width = width
	out.Height = h
	out.Format = in.Format
	out.SAR = in.SAR
	out.TimeBase = in.TimeBase
	return nil
}

func (c *cropFilter) filterFrame(ctx *FilterContext, in *Frame) error {
	out := ctx.outputs[0]
	d, _ := in.Format.Descriptor()

	for i := 0; i < d.Planes; i++ {
		xoff, yoff := c.x, c.y
		if i > 0 {
			xoff >>= d.Log2ChromaW
			yoff >>= d.Log2ChromaH
		}
		in.Data[i] = in.Data[i][yoff*in.Linesize[i]+xoff:]
	}
	in.Width = out.Width
	in.Height = out.Height
	return ctx.sendFrame(in)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
