package filtergraph

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// InOut is a linked list of named open pads used to attach a parsed
// description to filters that already exist in the graph.
type InOut struct {
	Name          string
	FilterContext *FilterContext
	PadIdx        int
	Next          *InOut
}

// AllocInOut returns an empty list entry.
func AllocInOut() *InOut {
	return &InOut{}
}

// Free drops the list. Entries hold no resources of their own.
func (io *InOut) Free() {
	for io != nil {
		next := io.Next
		io.FilterContext = nil
		io.Next = nil
		io = next
	}
}

// openPad is a pad waiting for its peer while a description is parsed.
type openPad struct {
	label    string
	ctx      *FilterContext
	pad      int
	external bool
}

// Parse adds the filters of desc to the graph and links them.
//
// inputs lists the open input pads of existing filters (typically the sink,
// named "out") and outputs the open output pads (typically the source, named
// "in"). The first unlabeled input of the description binds to outputs and
// the last unlabeled output binds to inputs; labels bind by name.
//
// Syntax follows the FFmpeg filtergraph description: chains separated by
// ';', filters within a chain by ',', each filter written as
// [in]...name[@id][=args][out]...
func (g *Graph) Parse(desc string, inputs, outputs *InOut) error {
	if g.freed {
		return ErrGraphFreed
	}
	if strings.TrimSpace(desc) == "" {
		return fmt.Errorf("%w: empty filter graph description", ErrSyntax)
	}

	p := &graphParser{graph: g, src: desc}
	for io := outputs; io != nil; io = io.Next {
		p.openOutputs = append(p.openOutputs, &openPad{label: io.Name, ctx: io.FilterContext, pad: io.PadIdx, external: true})
	}
	for io := inputs; io != nil; io = io.Next {
		p.openInputs = append(p.openInputs, &openPad{label: io.Name, ctx: io.FilterContext, pad: io.PadIdx, external: true})
	}

	if err := p.parseGraph(); err != nil {
		return err
	}

	g.log.WithFields(logrus.Fields{
		"function":    "Graph.Parse",
		"description": desc,
		"filters":     p.index,
	}).Debug("Parsed filter graph description")

	return nil
}

type graphParser struct {
	graph       *Graph
	src         string
	pos         int
	index       int
	openInputs  []*openPad
	openOutputs []*openPad
}

func (p *graphParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s (at offset %d in %q)", ErrSyntax, fmt.Sprintf(format, args...), p.pos, p.src)
}

func (p *graphParser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *graphParser) parseGraph() error {
	for {
		if err := p.parseChain(); err != nil {
			return err
		}
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil
		}
		if p.src[p.pos] != ';' {
			return p.errorf("expected ';' or end of description")
		}
		p.pos++
	}
}

func (p *graphParser) parseChain() error {
	var prev *FilterContext
	for {
		p.skipSpace()
		inLabels, err := p.parseLabels()
		if err != nil {
			return err
		}
		ctx, err := p.parseFilter()
		if err != nil {
			return err
		}
		if err := p.linkInputs(ctx, prev, inLabels); err != nil {
			return err
		}

		p.skipSpace()
		outLabels, err := p.parseLabels()
		if err != nil {
			return err
		}
		p.skipSpace()
		chained := p.pos < len(p.src) && p.src[p.pos] == ','

		prev, err = p.linkOutputs(ctx, outLabels, chained)
		if err != nil {
			return err
		}
		if !chained {
			return nil
		}
		p.pos++
	}
}

// parseLabels reads zero or more "[label]" tokens.
func (p *graphParser) parseLabels() ([]string, error) {
	var labels []string
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != '[' {
			return labels, nil
		}
		end := strings.IndexByte(p.src[p.pos:], ']')
		if end < 0 {
			return nil, p.errorf("unterminated link label")
		}
		label := p.src[p.pos+1 : p.pos+end]
		if label == "" || strings.ContainsAny(label, "[;,= ") {
			return nil, p.errorf("invalid link label %q", label)
		}
		labels = append(labels, label)
		p.pos += end + 1
	}
}

// parseFilter reads name[@id][=args] and creates the filter context.
func (p *graphParser) parseFilter() (*FilterContext, error) {
	start := p.pos
	for p.pos < len(p.src) && (isIdentStart(p.src[p.pos]) || isDigit(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, p.errorf("missing filter name")
	}

	instance := fmt.Sprintf("Parsed_%s_%d", name, p.index)
	if p.pos < len(p.src) && p.src[p.pos] == '@' {
		idStart := p.pos + 1
		p.pos++
		for p.pos < len(p.src) && strings.IndexByte("=,;[ \t", p.src[p.pos]) < 0 {
			p.pos++
		}
		if p.pos == idStart {
			return nil, p.errorf("missing instance id after %s@", name)
		}
		instance = name + "@" + p.src[idStart:p.pos]
	}

	var args string
	if p.pos < len(p.src) && p.src[p.pos] == '=' {
		p.pos++
		var err error
		if args, err = p.parseArgs(); err != nil {
			return nil, err
		}
	}

	f := FindFilterByName(name)
	if f == nil {
		return nil, fmt.Errorf("%w: no such filter: '%s'", ErrFilterNotFound, name)
	}
	ctx, err := p.graph.CreateFilter(f, instance, args)
	if err != nil {
		return nil, err
	}
	p.index++
	return ctx, nil
}

// parseArgs reads raw arguments up to an unquoted ',', ';' or '['.
func (p *graphParser) parseArgs() (string, error) {
	start := p.pos
	quoted := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\\':
			p.pos++
		case c == '\'':
			quoted = !quoted
		case !quoted && strings.IndexByte(",;[", c) >= 0:
			return strings.TrimSpace(p.src[start:p.pos]), nil
		}
		p.pos++
	}
	if quoted {
		return "", p.errorf("unterminated quote in filter arguments")
	}
	return strings.TrimSpace(p.src[start:min(p.pos, len(p.src))]), nil
}

func (p *graphParser) linkInputs(ctx *FilterContext, prev *FilterContext, labels []string) error {
	nb := len(ctx.inputs)
	if len(labels) > nb {
		return p.errorf("too many input labels for %s", ctx.Name)
	}

	pad := 0
	for _, label := range labels {
		if src := takePad(&p.openOutputs, label); src != nil {
			if err := LinkFilters(src.ctx, src.pad, ctx, pad); err != nil {
				return err
			}
		} else {
			p.openInputs = append(p.openInputs, &openPad{label: label, ctx: ctx, pad: pad})
		}
		pad++
	}

	for ; pad < nb; pad++ {
		if prev != nil {
			if err := LinkFilters(prev, 0, ctx, pad); err != nil {
				return err
			}
			prev = nil
			continue
		}
		if src := takeExternal(&p.openOutputs); src != nil {
			if err := LinkFilters(src.ctx, src.pad, ctx, pad); err != nil {
				return err
			}
		}
	}
	return nil
}

// linkOutputs binds labeled output pads and returns the filter that feeds
// the next filter of the chain, if any.
func (p *graphParser) linkOutputs(ctx *FilterContext, labels []string, chained bool) (*FilterContext, error) {
	nb := len(ctx.outputs)
	if len(labels) > nb {
		return nil, p.errorf("too many output labels for %s", ctx.Name)
	}

	pad := 0
	for _, label := range labels {
		if dst := takePad(&p.openInputs, label); dst != nil {
			if err := LinkFilters(ctx, pad, dst.ctx, dst.pad); err != nil {
				return nil, err
			}
		} else {
			p.openOutputs = append(p.openOutputs, &openPad{label: label, ctx: ctx, pad: pad})
		}
		pad++
	}

	if pad >= nb {
		if chained {
			return nil, p.errorf("%s has no free output to chain from", ctx.Name)
		}
		return nil, nil
	}
	if chained {
		return ctx, nil
	}
	if dst := takeExternal(&p.openInputs); dst != nil {
		if err := LinkFilters(ctx, pad, dst.ctx, dst.pad); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// takePad removes and returns the open pad carrying label.
func takePad(pads *[]*openPad, label string) *openPad {
	for i, op := range *pads {
		if op.label == label {
			*pads = append((*pads)[:i], (*pads)[i+1:]...)
			return op
		}
	}
	return nil
}

// takeExternal removes and returns the first pad supplied by the caller.
func takeExternal(pads *[]*openPad) *openPad {
	for i, op := range *pads {
		if op.external {
			*pads = append((*pads)[:i], (*pads)[i+1:]...)
			return op
		}
	}
	return nil
}
