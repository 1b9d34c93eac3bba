package filter

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/av/video"
)

// Chain runs a frame through several filters in order and keeps the
// stream Statistics up to date.
type Chain struct {
	filters []Filter
}

// NewChain creates a chain holding filters in order.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: append([]Filter(nil), filters...)}
}

// Add appends a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Len returns the number of filters in the chain.
func (c *Chain) Len() int {
	return len(c.filters)
}

// Filters returns the filters in processing order.
func (c *Chain) Filters() []Filter {
	return c.filters
}

// Process hands frame to every active filter. Disabled filters are skipped.
// stats may be nil.
//
// FramesFiltered counts frames handed to at least one active filter, whether
// or not that filter replaced the picture: a GraphFilter with an empty
// description or a stalled graph still counts.
func (c *Chain) Process(stats *Statistics, frame *video.VideoFrame) {
	if frame == nil {
		return
	}
	if stats != nil {
		stats.FramesIn++
	}

	filtered := false
	for _, f := range c.filters {
		if f.Status() == StatusDisabled {
			if stats != nil {
				stats.FiltersSkipped++
			}
			continue
		}
		f.Process(stats, frame)
		filtered = true
	}

	if stats == nil {
		return
	}
	if filtered {
		stats.FramesFiltered++
	} else {
		stats.FramesPassedThrough++
	}
}

// Close closes every filter and empties the chain. All filters are closed
// even if some fail; the first error is returned.
func (c *Chain) Close() error {
	var first error
	for i, f := range c.filters {
		if err := f.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Chain.Close",
				"index":    i,
				"error":    err.Error(),
			}).Error("Failed to close filter")
			if first == nil {
				first = fmt.Errorf("filter %d: %w", i, err)
			}
		}
	}
	c.filters = c.filters[:0]
	return first
}
