// Package filtergraph implements an in-process video filter graph.
//
// The API follows the call sequence of FFmpeg's libavfilter so that code
// driving it reads the same way as code driving the C library:
//
//	graph := filtergraph.AllocGraph()
//	defer graph.Free()
//
//	src, _ := graph.CreateFilter(filtergraph.FindFilterByName("buffer"), "in",
//		"video_size=640x480:pix_fmt=0:time_base=1/1000000:pixel_aspect=1/1")
//	sink, _ := graph.CreateFilter(filtergraph.FindFilterByName("buffersink"), "out", "")
//
//	outputs := &filtergraph.InOut{Name: "in", FilterContext: src}
//	inputs := &filtergraph.InOut{Name: "out", FilterContext: sink}
//	if err := graph.Parse("scale=iw/2:ih/2", inputs, outputs); err != nil {
//		return err
//	}
//	if err := graph.Config(); err != nil {
//		return err
//	}
//
//	src.AddFrame(frame, filtergraph.FlagKeepRef)
//	out := filtergraph.AllocFrame()
//	if err := sink.GetFrame(out); err == nil {
//		// use out, then out.Unref()
//	}
//
// Descriptions use the FFmpeg filtergraph syntax: filters separated by ','
// form a chain, chains are separated by ';', and "[label]" names link pads
// across chains. Arguments are "key=value" or positional pairs separated by
// ':'. Size arguments of geometry filters are arithmetic expressions over
// iw, ih, a, sar, dar, hsub, vsub, ow and oh.
//
// Frames are refcounted. Buffers come from a pool owned by the graph and go
// back to it on the last Unref. A frame submitted without a graph buffer
// behind it is copied on entry, so the graph never keeps references into
// caller memory past AddFrame.
//
// Registered filters: null, copy, scale, crop, hflip, vflip, transpose,
// format, negate, eq, boxblur, unsharp and framestep, plus the buffer and
// buffersink endpoints.
package filtergraph
