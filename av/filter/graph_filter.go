package filter

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/av/filtergraph"
	"github.com/opd-ai/vfgraph/av/video"
)

// sourceTimeBase is the time base handed to the graph source, in ticks per
// second.
const sourceTimeBase = 1000000

// Option configures a GraphFilter.
type Option func(*GraphFilter)

// WithDescription sets the initial filter graph description.
func WithDescription(text string) Option {
	return func(f *GraphFilter) {
		f.desc.Set(text)
	}
}

// WithLogger sets the entry the filter logs through. The instance id is
// added to it.
func WithLogger(entry *logrus.Entry) Option {
	return func(f *GraphFilter) {
		if entry != nil {
			f.log = entry
		}
	}
}

// GraphFilter runs every frame through a filter graph built from a textual
// description.
//
// Lifecycle:
//
//	new → (first frame) build → steady ⇄ rebuild (size, format or description changed)
//	                         ↘ disabled (build failed, until a new description is set)
//
// A GraphFilter is not safe for concurrent use.
type GraphFilter struct {
	id     string
	log    *logrus.Entry
	desc   Description
	status Status
	closed bool
	builds int
	state  graphState
}

// graphState holds the graph handles and transient frame descriptors. It is
// owned by exactly one GraphFilter.
type graphState struct {
	graph *filtergraph.Graph
	src   *filtergraph.FilterContext
	sink  *filtergraph.FilterContext
	sig   Signature

	// in describes the caller's frame during one push only.
	in *filtergraph.Frame
	// out receives the sink output during one pull only.
	out *filtergraph.Frame
}

// NewGraphFilter creates an active filter. No graph is built until the
// first frame arrives.
func NewGraphFilter(opts ...Option) *GraphFilter {
	f := &GraphFilter{
		id:  uuid.New().String(),
		log: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.WithFields(logrus.Fields{
		"filter":   "GraphFilter",
		"instance": f.id,
	})

	f.log.WithFields(logrus.Fields{
		"function":    "NewGraphFilter",
		"description": f.desc.Text(),
	}).Debug("Created graph filter")

	return f
}

// ID returns the instance id used in log fields.
func (f *GraphFilter) ID() string {
	return f.id
}

// SetOptions installs a new description. It always succeeds; the text is
// validated when the next frame rebuilds the graph. A changed description
// re-arms a disabled filter.
func (f *GraphFilter) SetOptions(text string) bool {
	if !f.desc.Set(text) {
		return true
	}

	logger := f.log.WithFields(logrus.Fields{
		"function":    "GraphFilter.SetOptions",
		"description": text,
	})
	if text == "" {
		f.state.release()
	}
	if f.status == StatusDisabled {
		f.status = StatusActive
		logger.Info("Filter re-enabled by new description")
		return true
	}
	logger.Debug("Description changed, graph will be rebuilt on next frame")
	return true
}

// Options returns the stored description, even when the filter is disabled.
func (f *GraphFilter) Options() string {
	return f.desc.Text()
}

// Status reports whether frames are being filtered.
func (f *GraphFilter) Status() Status {
	return f.status
}

// Builds returns how many graphs have been built successfully.
func (f *GraphFilter) Builds() int {
	return f.builds
}

// Process replaces frame with the filtered picture. The frame is left
// untouched when the filter is disabled or closed, when the description is
// empty, when submission fails, or when the graph has no output ready.
// stats is not used.
func (f *GraphFilter) Process(stats *Statistics, frame *video.VideoFrame) {
	if frame == nil || f.closed || f.status == StatusDisabled || f.desc.Text() == "" {
		return
	}

	if err := f.push(frame); err != nil {
		logger := f.log.WithFields(logrus.Fields{
			"function":  "GraphFilter.Process",
			"signature": SignatureOf(frame).String(),
			"error":     err.Error(),
		})
		if errors.Is(err, ErrSetup) {
			f.status = StatusDisabled
			logger.Warn("Setup filter graph failed, filter disabled")
			return
		}
		logger.Warn("Frame submission failed")
		return
	}

	if err := f.pull(frame); err != nil && !errors.Is(err, ErrNoFrame) {
		f.log.WithFields(logrus.Fields{
			"function": "GraphFilter.Process",
			"error":    err.Error(),
		}).Warn("Frame retrieval failed")
	}
}

// Close frees the graph. Later calls to Process do nothing.
func (f *GraphFilter) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.state.release()

	f.log.WithFields(logrus.Fields{
		"function": "GraphFilter.Close",
		"builds":   f.builds,
	}).Debug("Graph filter closed")

	return nil
}

// ensureGraph makes sure a graph matching sig and the current description
// exists. It rebuilds only when there is no graph yet, the signature
// changed or the description is dirty.
func (f *GraphFilter) ensureGraph(sig Signature) error {
	if f.closed {
		return ErrClosed
	}
	if f.state.graph != nil && sig == f.state.sig && !f.desc.Dirty() {
		return nil
	}

	f.state.release()
	f.state.sig = sig
	text := f.desc.Consume()

	if err := f.state.build(text, f.log); err != nil {
		f.state.release()
		return fmt.Errorf("%w: %v", ErrSetup, err)
	}
	f.builds++

	f.log.WithFields(logrus.Fields{
		"function":    "GraphFilter.ensureGraph",
		"signature":   sig.String(),
		"description": text,
		"builds":      f.builds,
	}).Info("Filter graph built")

	return nil
}

// push hands frame to the graph source. The input descriptor borrows the
// frame planes for the duration of the call only; the source keeps its own
// copy.
func (f *GraphFilter) push(frame *video.VideoFrame) error {
	if err := f.ensureGraph(SignatureOf(frame)); err != nil {
		return err
	}

	in := f.state.in
	in.Width = frame.Width
	in.Height = frame.Height
	in.Format = frame.Format
	for i := 0; i < video.MaxPlanes; i++ {
		in.Data[i] = frame.Bits(i)
		in.Linesize[i] = frame.BytesPerLine(i)
	}

	err := f.state.src.AddFrame(in, filtergraph.FlagKeepRef)
	in.Unref()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	return nil
}

// pull moves the next processed frame into dst as an independent copy and
// releases the sink buffer straight away.
func (f *GraphFilter) pull(dst *video.VideoFrame) error {
	if f.state.sink == nil {
		return ErrClosed
	}

	out := f.state.out
	if err := f.state.sink.GetFrame(out); err != nil {
		if errors.Is(err, filtergraph.ErrAgain) || errors.Is(err, filtergraph.ErrEOF) {
			return fmt.Errorf("%w: %v", ErrNoFrame, err)
		}
		return fmt.Errorf("%w: %v", ErrRetrieval, err)
	}

	owned := out.Video().Clone()
	out.Unref()
	*dst = *owned
	return nil
}

// build constructs buffer -> description -> buffersink. On error the
// caller must release whatever was built.
func (s *graphState) build(desc string, log *logrus.Entry) error {
	s.graph = filtergraph.AllocGraph()
	s.graph.SetLogger(log)

	args := fmt.Sprintf("video_size=%dx%d:pix_fmt=%d:time_base=%d/%d:sar=1",
		s.sig.Width, s.sig.Height, int(s.sig.Format), 1, sourceTimeBase)
	log.WithFields(logrus.Fields{
		"function": "graphState.build",
		"args":     args,
	}).Debug("Creating buffer source")

	var err error
	if s.src, err = s.graph.CreateFilter(filtergraph.FindFilterByName("buffer"), "in", args); err != nil {
		return fmt.Errorf("cannot create buffer source: %w", err)
	}
	if s.sink, err = s.graph.CreateFilter(filtergraph.FindFilterByName("buffersink"), "out", ""); err != nil {
		return fmt.Errorf("cannot create buffer sink: %w", err)
	}

	outputs := filtergraph.AllocInOut()
	outputs.Name = "in"
	outputs.FilterContext = s.src
	inputs := filtergraph.AllocInOut()
	inputs.Name = "out"
	inputs.FilterContext = s.sink
	defer outputs.Free()
	defer inputs.Free()

	if err := s.graph.Parse(desc, inputs, outputs); err != nil {
		return fmt.Errorf("parse %q: %w", desc, err)
	}
	if err := s.graph.Config(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if s.in == nil {
		s.in = filtergraph.AllocFrame()
	}
	if s.out == nil {
		s.out = filtergraph.AllocFrame()
	}
	return nil
}

// release frees the graph together with its endpoints. The transient
// descriptors are kept for reuse.
func (s *graphState) release() {
	if s.out != nil {
		s.out.Unref()
	}
	s.graph.Free()
	s.graph = nil
	s.src = nil
	s.sink = nil
}
