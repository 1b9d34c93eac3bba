package filtergraph

import (
	"github.com/opd-ai/vfgraph/av/video"
)

func init() {
	registerFilter(&Filter{
		Name:        "eq",
		Description: "Adjust brightness, contrast and saturation.",
		NbInputs:    1,
		NbOutputs:   1,
		Options: []Option{
			{Name: "contrast", Default: "1", Help: "contrast in [-1000, 1000]"},
			{Name: "brightness", Default: "0", Help: "brightness in [-1, 1]"},
			{Name: "saturation", Default: "1", Help: "saturation in [0, 3]"},
		},
		init: newEqFilter,
	})
}

func newEqFilter(ctx *FilterContext, opts *Options) (filterImpl, error) {
	contrast, err := opts.FloatRange("contrast", -1000, 1000)
	if err != nil {
		return nil, err
	}
	brightness, err := opts.FloatRange("brightness", -1, 1)
	if err != nil {
		return nil, err
	}
	saturation, err := opts.FloatRange("saturation", 0, 3)
	if err != nil {
		return nil, err
	}

	chroma := video.SaturationLUT(saturation)
	return &lutFilter{luts: [video.MaxPlanes]*video.LUT{
		video.BrightnessContrastLUT(brightness, contrast), chroma, chroma,
	}}, nil
}
