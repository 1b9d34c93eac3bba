package filtergraph

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/vfgraph/av/video"
)

// Link carries frames from an output pad of one filter to an input pad of
// the next, together with the properties negotiated at configuration time.
type Link struct {
	Src    *FilterContext
	SrcPad int
	Dst    *FilterContext
	DstPad int

	Width    int
	Height   int
	Format   video.PixelFormat
	SAR      Rational
	TimeBase Rational
}

// FilterContext is one filter instance inside a graph.
type FilterContext struct {
	Name    string
	filter  *Filter
	graph   *Graph
	inputs  []*Link
	outputs []*Link
	impl    filterImpl
}

// Filter returns the filter definition the context was created from.
func (ctx *FilterContext) Filter() *Filter {
	return ctx.filter
}

// Input returns the link attached to input pad i, or nil.
func (ctx *FilterContext) Input(i int) *Link {
	if i < 0 || i >= len(ctx.inputs) {
		return nil
	}
	return ctx.inputs[i]
}

// Output returns the link attached to output pad i, or nil.
func (ctx *FilterContext) Output(i int) *Link {
	if i < 0 || i >= len(ctx.outputs) {
		return nil
	}
	return ctx.outputs[i]
}

// sendFrame hands ownership of f to the filter on output pad 0.
func (ctx *FilterContext) sendFrame(f *Frame) error {
	out := ctx.Output(0)
	if out == nil {
		f.Unref()
		return fmt.Errorf("%w: output of %s", ErrNotConnected, ctx.Name)
	}
	return out.Dst.impl.filterFrame(out.Dst, f)
}

// sendEOF propagates end of stream downstream.
func (ctx *FilterContext) sendEOF() {
	out := ctx.Output(0)
	if out == nil {
		return
	}
	if h, ok := out.Dst.impl.(eofHandler); ok {
		h.endOfStream(out.Dst)
		return
	}
	out.Dst.sendEOF()
}

// Graph is a container of linked filter instances.
//
// A Graph, its contexts and the frames it produces are meant to be driven
// from a single goroutine; nothing in this package is locked.
type Graph struct {
	filters    []*FilterContext
	pool       *bufferPool
	configured bool
	freed      bool
	log        *logrus.Entry
}

// AllocGraph creates an empty graph.
func AllocGraph() *Graph {
	return &Graph{
		pool: newBufferPool(),
		log: logrus.WithFields(logrus.Fields{
			"package": "filtergraph",
		}),
	}
}

// SetLogger replaces the entry used for graph diagnostics.
func (g *Graph) SetLogger(entry *logrus.Entry) {
	if entry != nil {
		g.log = entry
	}
}

// Free releases every filter context, queued frame and pooled buffer.
// Free is idempotent and safe on a nil graph.
func (g *Graph) Free() {
	if g == nil || g.freed {
		return
	}
	for _, ctx := range g.filters {
		if r, ok := ctx.impl.(releaser); ok {
			r.release()
		}
	}
	g.filters = nil
	g.pool.close()
	g.freed = true
	g.configured = false
}

// Filters returns the filter contexts in creation order.
func (g *Graph) Filters() []*FilterContext {
	return g.filters
}

// PoolStats reports the state of the graph's buffer pool.
func (g *Graph) PoolStats() PoolStats {
	return g.pool.stats
}

// CreateFilter instantiates filter f inside the graph with the given
// instance name and argument string.
func (g *Graph) CreateFilter(f *Filter, name, args string) (*FilterContext, error) {
	if g.freed {
		return nil, ErrGraphFreed
	}
	if f == nil {
		return nil, fmt.Errorf("%w: nil filter", ErrFilterNotFound)
	}

	opts, err := parseOptions(f, args)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", name, err)
	}

	ctx := &FilterContext{
		Name:    name,
		filter:  f,
		graph:   g,
		inputs:  make([]*Link, f.NbInputs),
		outputs: make([]*Link, f.NbOutputs),
	}
	if ctx.impl, err = f.init(ctx, opts); err != nil {
		return nil, fmt.Errorf("filter %s: %w", name, err)
	}

	g.filters = append(g.filters, ctx)
	g.configured = false

	g.log.WithFields(logrus.Fields{
		"function": "Graph.CreateFilter",
		"filter":   f.Name,
		"name":     name,
		"args":     args,
	}).Debug("Created filter context")

	return ctx, nil
}

// LinkFilters connects output pad srcPad of src to input pad dstPad of dst.
func LinkFilters(src *FilterContext, srcPad int, dst *FilterContext, dstPad int) error {
	if src == nil || dst == nil {
		return fmt.Errorf("%w: nil filter context", ErrInvalidArgument)
	}
	if srcPad < 0 || srcPad >= len(src.outputs) {
		return fmt.Errorf("%w: %s has no output pad %d", ErrInvalidArgument, src.Name, srcPad)
	}
	if dstPad < 0 || dstPad >= len(dst.inputs) {
		return fmt.Errorf("%w: %s has no input pad %d", ErrInvalidArgument, dst.Name, dstPad)
	}
	if src.outputs[srcPad] != nil || dst.inputs[dstPad] != nil {
		return fmt.Errorf("%w: pad already linked between %s and %s", ErrInvalidArgument, src.Name, dst.Name)
	}

	l := &Link{Src: src, SrcPad: srcPad, Dst: dst, DstPad: dstPad, Format: video.PixelFormatNone}
	src.outputs[srcPad] = l
	dst.inputs[dstPad] = l
	return nil
}

// Config checks that every pad is linked and that the graph is acyclic,
// then negotiates link properties from the sources down to the sinks.
func (g *Graph) Config() error {
	if g.freed {
		return ErrGraphFreed
	}

	for _, ctx := range g.filters {
		for i, l := range ctx.inputs {
			if l == nil {
				return fmt.Errorf("%w: input pad %d of %s", ErrNotConnected, i, ctx.Name)
			}
		}
		for i, l := range ctx.outputs {
			if l == nil {
				return fmt.Errorf("%w: output pad %d of %s", ErrNotConnected, i, ctx.Name)
			}
		}
	}

	order, err := g.sortFilters()
	if err != nil {
		return err
	}

	for _, ctx := range order {
		if ctx.filter.PixelFormats != nil {
			for _, in := range ctx.inputs {
				if !supportsFormat(ctx.filter.PixelFormats, in.Format) {
					return fmt.Errorf("%w: %s does not accept %v", ErrUnsupportedFormat, ctx.Name, in.Format)
				}
			}
		}
		if err := ctx.impl.configure(ctx); err != nil {
			return fmt.Errorf("configuring %s: %w", ctx.Name, err)
		}
		for _, out := range ctx.outputs {
			if !out.Format.IsSupported() {
				return fmt.Errorf("%w: %s produced %v", ErrUnsupportedFormat, ctx.Name, out.Format)
			}
		}
	}

	g.configured = true

	g.log.WithFields(logrus.Fields{
		"function": "Graph.Config",
		"filters":  len(g.filters),
	}).Debug("Filter graph configured")

	return nil
}

// sortFilters orders contexts so that every filter comes after all of its
// upstream filters.
func (g *Graph) sortFilters() ([]*FilterContext, error) {
	pending := make(map[*FilterContext]int, len(g.filters))
	var ready []*FilterContext
	for _, ctx := range g.filters {
		pending[ctx] = len(ctx.inputs)
		if len(ctx.inputs) == 0 {
			ready = append(ready, ctx)
		}
	}

	order := make([]*FilterContext, 0, len(g.filters))
	for len(ready) > 0 {
		ctx := ready[0]
		ready = ready[1:]
		order = append(order, ctx)
		for _, out := range ctx.outputs {
			pending[out.Dst]--
			if pending[out.Dst] == 0 {
				ready = append(ready, out.Dst)
			}
		}
	}

	if len(order) != len(g.filters) {
		return nil, fmt.Errorf("%w: filter graph contains a cycle", ErrInvalidArgument)
	}
	return order, nil
}

func supportsFormat(formats []video.PixelFormat, f video.PixelFormat) bool {
	for _, candidate := range formats {
		if candidate == f {
			return true
		}
	}
	return false
}
