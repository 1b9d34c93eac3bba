package filtergraph

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/av/video"
	"github.com/opd-ai/vfgraph/limits"
)

// BufferSrcFlags control how AddFrame takes the submitted frame.
type BufferSrcFlags int

const (
	// FlagKeepRef makes the graph take its own reference and leaves the
	// caller's frame untouched. Memory not owned by a graph buffer is copied.
	FlagKeepRef BufferSrcFlags = 1 << iota
)

func init() {
	registerFilter(&Filter{
		Name:        "buffer",
		Description: "Buffer video frames, and make them accessible to the filterchain.",
		NbInputs:    0,
		NbOutputs:   1,
		Options: []Option{
			{Name: "width", Aliases: []string{"w"}, Default: "0"},
			{Name: "height", Aliases: []string{"h"}, Default: "0"},
			{Name: "pix_fmt", Default: "none"},
			{Name: "time_base", Default: "1/1000000"},
			{Name: "sar", Aliases: []string{"pixel_aspect"}, Default: "1"},
			{Name: "video_size", Aliases: []string{"s", "size"}},
		},
		init: newBufferSource,
	})
}

type bufferSource struct {
	width    int
	height   int
	format   video.PixelFormat
	timeBase Rational
	sar      Rational
	eof      bool
	nbFrames int64
}

func newBufferSource(ctx *FilterContext, opts *Options) (filterImpl, error) {
	s := &bufferSource{}
	var err error

	if size := opts.String("video_size"); size != "" {
		if s.width, s.height, err = limits.ParseFrameSize(size); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	} else {
		if s.width, err = opts.Int("width"); err != nil {
			return nil, err
		}
		if s.height, err = opts.Int("height"); err != nil {
			return nil, err
		}
		if err = limits.ValidateFrameSize(s.width, s.height); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}

	if s.format, err = video.ParsePixelFormat(opts.String("pix_fmt")); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if s.timeBase, err = parseRational(opts.String("time_base")); err != nil || s.timeBase.Num <= 0 || s.timeBase.Den <= 0 {
		return nil, fmt.Errorf("%w: invalid time_base %q", ErrInvalidArgument, opts.String("time_base"))
	}
	if s.sar, err = parseRational(opts.String("sar")); err != nil || s.sar.Num < 0 || s.sar.Den <= 0 {
		return nil, fmt.Errorf("%w: invalid sar %q", ErrInvalidArgument, opts.String("sar"))
	}

	return s, nil
}

func parseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	var r Rational
	if strings.Contains(s, "/") {
		if _, err := fmt.Sscanf(s, "%d/%d", &r.Num, &r.Den); err != nil {
			return Rational{}, err
		}
		return r, nil
	}
	if _, err := fmt.Sscanf(s, "%d", &r.Num); err != nil {
		return Rational{}, err
	}
	r.Den = 1
	return r, nil
}

func (s *bufferSource) configure(ctx *FilterContext) error {
	out := ctx.outputs[0]
	out.Width = s.width
	out.Height = s.height
	out.Format = s.format
	out.SAR = s.sar
	out.TimeBase = s.timeBase
	return nil
}

// filterFrame is never called: a source has no input pads.
func (s *bufferSource) filterFrame(ctx *FilterContext, in *Frame) error {
	in.Unref()
	return fmt.Errorf("%w: %s has no inputs", ErrInvalidArgument, ctx.Name)
}

// AddFrame submits f to a buffer source context. A nil frame marks end of
// stream. The submitted frame must match the geometry and pixel format the
// source was created with.
func (ctx *FilterContext) AddFrame(f *Frame, flags BufferSrcFlags) error {
	src, ok := ctx.impl.(*bufferSource)
	if !ok {
		return fmt.Errorf("%w: %s is not a buffer source", ErrInvalidArgument, ctx.Name)
	}
	g := ctx.graph
	if g.freed {
		return ErrGraphFreed
	}
	if !g.configured {
		return ErrNotConfigured
	}
	if src.eof {
		return ErrEOF
	}

	if f == nil {
		src.eof = true
		ctx.sendEOF()
		return nil
	}

	if f.Width != src.width || f.Height != src.height || f.Format != src.format {
		return fmt.Errorf("%w: frame %dx%d %v does not match source %dx%d %v",
			ErrInvalidData, f.Width, f.Height, f.Format, src.width, src.height, src.format)
	}
	if err := f.Video().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	var owned *Frame
	switch {
	case f.IsRefcounted() && flags&FlagKeepRef != 0:
		owned = AllocFrame()
		if err := owned.Ref(f); err != nil {
			return err
		}
	case f.IsRefcounted():
		owned = AllocFrame()
		f.moveRef(owned)
	default:
		var err error
		if owned, err = g.cloneFrame(f); err != nil {
			return err
		}
		if flags&FlagKeepRef == 0 {
			f.Unref()
		}
	}
	if owned.SAR.Den == 0 {
		owned.SAR = src.sar
	}
	src.nbFrames++

	g.log.WithFields(logrus.Fields{
		"function": "FilterContext.AddFrame",
		"name":     ctx.Name,
		"pts":      owned.PTS,
		"frames":   src.nbFrames,
	}).Debug("Frame submitted to buffer source")

	return ctx.sendFrame(owned)
}
