package filter

import (
	"github.com/opd-ai/vfgraph/av/video"
)

// Status is the processing state of a filter.
type Status int

const (
	// StatusActive means frames are processed.
	StatusActive Status = iota
	// StatusDisabled means frames pass through untouched.
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Filter is one stage of a video processing chain.
type Filter interface {
	// Process filters frame in place. A filter that skips the frame leaves
	// it untouched.
	Process(stats *Statistics, frame *video.VideoFrame)
	// Status reports whether the filter currently processes frames.
	Status() Status
	// Close releases every resource held by the filter.
	Close() error
}

// Statistics counts frames flowing through a chain. It is owned by the
// surrounding pipeline and handed to every filter.
type Statistics struct {
	// FramesIn counts frames entering the chain.
	FramesIn uint64
	// FramesFiltered counts frames handed to at least one active filter.
	FramesFiltered uint64
	// FramesPassedThrough counts frames no active filter saw.
	FramesPassedThrough uint64
	// FiltersSkipped counts disabled filters bypassed, per frame.
	FiltersSkipped uint64
}

// Reset zeroes every counter.
func (s *Statistics) Reset() {
	*s = Statistics{}
}
