// Package filter applies video filters to a stream of frames.
//
// The central type is GraphFilter, which feeds each frame into a filter
// graph built from a textual description (FFmpeg filtergraph syntax) and
// replaces the frame with the graph output:
//
//	f := filter.NewGraphFilter(filter.WithDescription("scale=iw/2:ih/2"))
//	defer f.Close()
//
//	for frame := range frames {
//		f.Process(stats, frame) // frame now holds the filtered picture
//	}
//
// The graph is built lazily on the first frame and rebuilt only when the
// frame width, height or pixel format changes, or when SetOptions installs a
// different description. A description that fails to build disables the
// filter: every later frame passes through untouched and no rebuild is
// attempted until a new description is set.
//
// Filters are driven by one goroutine per stream. Nothing here is locked;
// callers sharing a filter between goroutines must serialize access.
package filter
