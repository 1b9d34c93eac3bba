package filter

import (
	"fmt"

	"github.com/opd-ai/vfgraph/av/video"
)

// Description is the filter graph description text together with a dirty
// flag telling whether it changed since the graph was last built.
type Description struct {
	text  string
	dirty bool
}

// Set stores text and reports whether it differs from the stored value.
// The dirty flag is raised only on a change.
func (d *Description) Set(text string) bool {
	if text == d.text {
		return false
	}
	d.text = text
	d.dirty = true
	return true
}

// Text returns the stored description.
func (d *Description) Text() string {
	return d.text
}

// Dirty reports whether the description changed since the last consume.
func (d *Description) Dirty() bool {
	return d.dirty
}

// Consume clears the dirty flag once a rebuild has taken the text.
func (d *Description) Consume() string {
	d.dirty = false
	return d.text
}

// Signature identifies the stream properties a graph was built for.
type Signature struct {
	Width  int
	Height int
	Format video.PixelFormat
}

// SignatureOf returns the signature of frame.
func SignatureOf(frame *video.VideoFrame) Signature {
	return Signature{Width: frame.Width, Height: frame.Height, Format: frame.Format}
}

func (s Signature) String() string {
	return fmt.Sprintf("%dx%d %v", s.Width, s.Height, s.Format)
}
