package filtergraph

import (
	"fmt"
)

func init() {
	registerFilter(&Filter{
		Name:        "buffersink",
		Description: "Buffer video frames, and make them available to the end of the filter graph.",
		NbInputs:    1,
		NbOutputs:   0,
		init: func(ctx *FilterContext, opts *Options) (filterImpl, error) {
			return &bufferSink{}, nil
		},
	})
}

// bufferSink queues frames reaching the end of the graph until GetFrame
// collects them.
type bufferSink struct {
	queue []*Frame
	eof   bool
}

func (s *bufferSink) configure(ctx *FilterContext) error {
	return nil
}

func (s *bufferSink) filterFrame(ctx *FilterContext, in *Frame) error {
	s.queue = append(s.queue, in)
	return nil
}

func (s *bufferSink) endOfStream(ctx *FilterContext) {
	s.eof = true
}

func (s *bufferSink) release() {
	for _, f := range s.queue {
		f.Unref()
	}
	s.queue = nil
}

// GetFrame moves the next processed frame into f. It returns ErrAgain when
// no frame is ready and ErrEOF once end of stream has been drained.
func (ctx *FilterContext) GetFrame(f *Frame) error {
	sink, ok := ctx.impl.(*bufferSink)
	if !ok {
		return fmt.Errorf("%w: %s is not a buffer sink", ErrInvalidArgument, ctx.Name)
	}
	if f == nil {
		return fmt.Errorf("%w: nil destination frame", ErrInvalidArgument)
	}
	if ctx.graph.freed {
		return ErrGraphFreed
	}

	if len(sink.queue) == 0 {
		if sink.eof {
			return ErrEOF
		}
		return ErrAgain
	}

	next := sink.queue[0]
	sink.queue[0] = nil
	sink.queue = sink.queue[1:]
	next.moveRef(f)
	return nil
}

// QueuedFrames reports how many frames wait in a buffer sink.
func (ctx *FilterContext) QueuedFrames() int {
	if sink, ok := ctx.impl.(*bufferSink); ok {
		return len(sink.queue)
	}
	return 0
}
