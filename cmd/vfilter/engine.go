package main

import (
	"github.com/opd-ai/vfgraph/av/filter"
)

// graphFilter is the part of a graph filter implementation vfilter drives.
// The native engine and the FFmpeg-backed engine both satisfy it.
type graphFilter interface {
	filter.Filter
	SetOptions(text string) bool
	Options() string
	Builds() int
}
