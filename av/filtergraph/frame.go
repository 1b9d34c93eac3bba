package filtergraph

import (
	"fmt"

	"github.com/opd-ai/vfgraph/av/video"
)

// Rational is a fraction such as a time base or a sample aspect ratio.
type Rational struct {
	Num int
	Den int
}

// NewRational builds a fraction.
func NewRational(num, den int) Rational {
	return Rational{Num: num, Den: den}
}

// Float64 returns the value of the fraction, or 0 for a zero denominator.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Reduce returns the fraction in lowest terms.
func (r Rational) Reduce() Rational {
	g := gcd(abs(r.Num), abs(r.Den))
	if g == 0 {
		return r
	}
	return Rational{Num: r.Num / g, Den: r.Den / g}
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Frame is the graph's native frame descriptor.
//
// A Frame either owns a reference to a graph buffer (IsRefcounted) or merely
// describes memory owned elsewhere. Descriptors are reusable: Unref drops the
// reference and resets the header so the same Frame can receive the next
// picture.
type Frame struct {
	Width    int
	Height   int
	Format   video.PixelFormat
	Data     [video.MaxPlanes][]byte
	Linesize [video.MaxPlanes]int
	PTS      int64
	SAR      Rational

	buf *buffer
}

// AllocFrame returns an empty frame descriptor.
func AllocFrame() *Frame {
	return &Frame{Format: video.PixelFormatNone}
}

// IsRefcounted reports whether the frame holds a reference to a graph buffer.
func (f *Frame) IsRefcounted() bool {
	return f.buf != nil
}

// Ref makes f a new reference to the buffer held by src. Any reference held
// by f is dropped first.
func (f *Frame) Ref(src *Frame) error {
	if src == nil || !src.IsRefcounted() {
		return fmt.Errorf("%w: source frame is not refcounted", ErrInvalidArgument)
	}
	src.buf.ref()
	f.Unref()
	*f = *src
	return nil
}

// Unref drops the buffer reference and resets every field.
func (f *Frame) Unref() {
	if f.buf != nil {
		f.buf.unref()
	}
	*f = Frame{Format: video.PixelFormatNone}
}

// Free releases the frame. Kept alongside Unref to mirror the allocation
// call sequence; the descriptor itself is reclaimed by the garbage collector.
func (f *Frame) Free() {
	if f != nil {
		f.Unref()
	}
}

// moveRef transfers everything held by f into dst and resets f.
func (f *Frame) moveRef(dst *Frame) {
	dst.Unref()
	*dst = *f
	*f = Frame{Format: video.PixelFormatNone}
}

// isWritable reports whether f is the only reference to its buffer.
func (f *Frame) isWritable() bool {
	return f.buf != nil && f.buf.refs == 1
}

// Video returns a VideoFrame sharing the memory described by f.
func (f *Frame) Video() *video.VideoFrame {
	return &video.VideoFrame{
		Width:    f.Width,
		Height:   f.Height,
		Format:   f.Format,
		Data:     f.Data,
		Linesize: f.Linesize,
	}
}

func (f *Frame) copyProps(src *Frame) {
	f.PTS = src.PTS
	f.SAR = src.SAR
}

// allocFrame returns a refcounted frame backed by one pooled buffer with
// packed planes.
func (g *Graph) allocFrame(width, height int, format video.PixelFormat) (*Frame, error) {
	d, ok := format.Descriptor()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	total := 0
	for i := 0; i < d.Planes; i++ {
		w, h := format.PlaneSize(i, width, height)
		total += w * h
	}

	f := &Frame{
		Width:  width,
		Height: height,
		Format: format,
		buf:    g.pool.get(total),
	}
	off := 0
	for i := 0; i < d.Planes; i++ {
		w, h := format.PlaneSize(i, width, height)
		f.Data[i] = f.buf.data[off : off+w*h : off+w*h]
		f.Linesize[i] = w
		off += w * h
	}
	return f, nil
}

// cloneFrame deep copies src into a new pooled frame.
func (g *Graph) cloneFrame(src *Frame) (*Frame, error) {
	out, err := g.allocFrame(src.Width, src.Height, src.Format)
	if err != nil {
		return nil, err
	}
	dst := out.Video()
	in := src.Video()
	for i := 0; i < in.PlaneCount(); i++ {
		dst.Plane(i).CopyFrom(in.Plane(i))
	}
	out.copyProps(src)
	return out, nil
}

// makeWritable returns a frame the caller may modify in place: f itself when
// it holds the only reference to its buffer, otherwise a private copy. The
// reference held by f is consumed either way.
func (g *Graph) makeWritable(f *Frame) (*Frame, error) {
	if f.isWritable() {
		return f, nil
	}
	out, err := g.cloneFrame(f)
	f.Unref()
	return out, err
}
