//go:build ffmpeg

package lavfi

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/av/filter"
	"github.com/opd-ai/vfgraph/av/video"
)

// Option configures a GraphFilter.
type Option func(*GraphFilter)

// WithDescription sets the initial filter graph description.
func WithDescription(text string) Option {
	return func(f *GraphFilter) {
		f.desc.Set(text)
	}
}

// WithLogger sets the entry the filter logs through.
func WithLogger(entry *logrus.Entry) Option {
	return func(f *GraphFilter) {
		if entry != nil {
			f.log = entry
		}
	}
}

// GraphFilter is a filter.Filter backed by libavfilter.
type GraphFilter struct {
	id     string
	log    *logrus.Entry
	desc   filter.Description
	status filter.Status
	closed bool
	builds int

	graph *astiav.FilterGraph
	src   *astiav.BuffersrcFilterContext
	sink  *astiav.BuffersinkFilterContext
	sig   filter.Signature
	in    *astiav.Frame
	out   *astiav.Frame
}

var _ filter.Filter = (*GraphFilter)(nil)

// NewGraphFilter creates an active filter. The graph is built on the first
// frame.
func NewGraphFilter(opts ...Option) *GraphFilter {
	f := &GraphFilter{
		id:  uuid.New().String(),
		log: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.WithFields(logrus.Fields{
		"filter":   "lavfi.GraphFilter",
		"instance": f.id,
	})
	return f
}

// SetOptions installs a new description; see filter.GraphFilter.SetOptions.
func (f *GraphFilter) SetOptions(text string) bool {
	if !f.desc.Set(text) {
		return true
	}
	if text == "" {
		f.release()
	}
	if f.status == filter.StatusDisabled {
		f.status = filter.StatusActive
		f.log.WithFields(logrus.Fields{
			"function":    "GraphFilter.SetOptions",
			"description": text,
		}).Info("Filter re-enabled by new description")
	}
	return true
}

// Options returns the stored description.
func (f *GraphFilter) Options() string {
	return f.desc.Text()
}

// Status reports whether frames are being filtered.
func (f *GraphFilter) Status() filter.Status {
	return f.status
}

// Builds returns how many graphs have been built successfully.
func (f *GraphFilter) Builds() int {
	return f.builds
}

// Process replaces frame with the filtered picture, or leaves it untouched
// when filtering is skipped.
func (f *GraphFilter) Process(stats *filter.Statistics, frame *video.VideoFrame) {
	if frame == nil || f.closed || f.status == filter.StatusDisabled || f.desc.Text() == "" {
		return
	}

	if err := f.push(frame); err != nil {
		logger := f.log.WithFields(logrus.Fields{
			"function": "GraphFilter.Process",
			"error":    err.Error(),
		})
		if errors.Is(err, filter.ErrSetup) {
			f.status = filter.StatusDisabled
			logger.Warn("Setup filter graph failed, filter disabled")
			return
		}
		logger.Warn("av_buffersrc_add_frame failed")
		return
	}

	if err := f.pull(frame); err != nil && !errors.Is(err, filter.ErrNoFrame) {
		f.log.WithFields(logrus.Fields{
			"function": "GraphFilter.Process",
			"error":    err.Error(),
		}).Warn("av_buffersink_get_frame failed")
	}
}

// Close frees the graph and both frame descriptors.
func (f *GraphFilter) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.release()
	if f.in != nil {
		f.in.Free()
		f.in = nil
	}
	if f.out != nil {
		f.out.Free()
		f.out = nil
	}
	return nil
}

func (f *GraphFilter) ensureGraph(sig filter.Signature) error {
	if f.graph != nil && sig == f.sig && !f.desc.Dirty() {
		return nil
	}

	f.release()
	f.sig = sig
	text := f.desc.Consume()

	if err := f.build(text); err != nil {
		f.release()
		return errors.Wrap(filter.ErrSetup, err.Error())
	}
	f.builds++

	f.log.WithFields(logrus.Fields{
		"function":    "GraphFilter.ensureGraph",
		"signature":   sig.String(),
		"description": text,
	}).Info("libavfilter graph built")
	return nil
}

func (f *GraphFilter) build(desc string) error {
	pixFmt := astiav.FindPixelFormatByName(f.sig.Format.String())
	if pixFmt == astiav.PixelFormatNone {
		return fmt.Errorf("no FFmpeg pixel format named %q", f.sig.Format.String())
	}

	if f.graph = astiav.AllocFilterGraph(); f.graph == nil {
		return errors.New("avfilter_graph_alloc failed")
	}

	var err error
	if f.src, err = f.graph.NewBuffersrcFilterContext(astiav.FindFilterByName("buffer"), "in"); err != nil {
		return errors.Wrap(err, "cannot create buffer source")
	}
	params := astiav.AllocBuffersrcFilterContextParameters()
	defer params.Free()
	params.SetWidth(f.sig.Width)
	params.SetHeight(f.sig.Height)
	params.SetPixelFormat(pixFmt)
	params.SetTimeBase(astiav.NewRational(1, 1000000))
	params.SetSampleAspectRatio(astiav.NewRational(1, 1))
	if err = f.src.SetParameters(params); err != nil {
		return errors.Wrap(err, "setting buffer source parameters")
	}
	if err = f.src.Initialize(nil); err != nil {
		return errors.Wrap(err, "initializing buffer source")
	}

	if f.sink, err = f.graph.NewBuffersinkFilterContext(astiav.FindFilterByName("buffersink"), "out"); err != nil {
		return errors.Wrap(err, "cannot create buffer sink")
	}

	outputs := astiav.AllocFilterInOut()
	defer outputs.Free()
	outputs.SetName("in")
	outputs.SetFilterContext(f.src.FilterContext())
	outputs.SetPadIdx(0)
	outputs.SetNext(nil)

	inputs := astiav.AllocFilterInOut()
	defer inputs.Free()
	inputs.SetName("out")
	inputs.SetFilterContext(f.sink.FilterContext())
	inputs.SetPadIdx(0)
	inputs.SetNext(nil)

	if err = f.graph.Parse(desc, inputs, outputs); err != nil {
		return errors.Wrapf(err, "avfilter_graph_parse_ptr %q", desc)
	}
	if err = f.graph.Configure(); err != nil {
		return errors.Wrap(err, "avfilter_graph_config")
	}

	if f.in == nil {
		f.in = astiav.AllocFrame()
	}
	if f.out == nil {
		f.out = astiav.AllocFrame()
	}
	return nil
}

func (f *GraphFilter) release() {
	if f.out != nil {
		f.out.Unref()
	}
	if f.graph != nil {
		f.graph.Free()
	}
	f.graph = nil
	f.src = nil
	f.sink = nil
}

// push copies frame into the input descriptor and submits it. The
// descriptor is unreferenced before returning.
func (f *GraphFilter) push(frame *video.VideoFrame) error {
	if err := f.ensureGraph(filter.SignatureOf(frame)); err != nil {
		return err
	}
	if err := frame.Validate(); err != nil {
		return errors.Wrap(filter.ErrSubmission, err.Error())
	}

	f.in.SetWidth(frame.Width)
	f.in.SetHeight(frame.Height)
	f.in.SetPixelFormat(astiav.FindPixelFormatByName(frame.Format.String()))
	defer f.in.Unref()

	if err := f.in.AllocBuffer(1); err != nil {
		return errors.Wrap(filter.ErrSubmission, err.Error())
	}
	if err := f.in.Data().SetBytes(packPlanes(frame), 1); err != nil {
		return errors.Wrap(filter.ErrSubmission, err.Error())
	}
	if err := f.src.AddFrame(f.in, astiav.NewBuffersrcFlags(astiav.BuffersrcFlagKeepRef)); err != nil {
		return errors.Wrap(filter.ErrSubmission, err.Error())
	}
	return nil
}

// pull copies the next sink frame into dst and unreferences the sink
// buffer.
func (f *GraphFilter) pull(dst *video.VideoFrame) error {
	if err := f.sink.GetFrame(f.out, astiav.NewBuffersinkFlags()); err != nil {
		if errors.Is(err, astiav.ErrEagain) || errors.Is(err, astiav.ErrEof) {
			return errors.Wrap(filter.ErrNoFrame, err.Error())
		}
		return errors.Wrap(filter.ErrRetrieval, err.Error())
	}
	defer f.out.Unref()

	format, err := video.ParsePixelFormat(f.out.PixelFormat().String())
	if err != nil {
		return errors.Wrap(filter.ErrRetrieval, err.Error())
	}
	packed, err := f.out.Data().Bytes(1)
	if err != nil {
		return errors.Wrap(filter.ErrRetrieval, err.Error())
	}
	owned, err := unpackPlanes(packed, f.out.Width(), f.out.Height(), format)
	if err != nil {
		return errors.Wrap(filter.ErrRetrieval, err.Error())
	}
	*dst = *owned
	return nil
}
