package filtergraph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/opd-ai/vfgraph/av/video"
)

// Filter describes a filter type that can be instantiated in a graph.
type Filter struct {
	Name        string
	Description string
	NbInputs    int
	NbOutputs   int
	// Options lists accepted arguments; positional arguments map onto them
	// in order.
	Options []Option
	// PixelFormats restricts the accepted input formats; nil accepts every
	// supported format.
	PixelFormats []video.PixelFormat

	init func(ctx *FilterContext, opts *Options) (filterImpl, error)
}

// Option declares one filter argument.
type Option struct {
	Name    string
	Aliases []string
	Default string
	Help    string
}

// filterImpl is the per-instance behaviour of a filter.
type filterImpl interface {
	// configure derives the output link properties from the input links.
	configure(ctx *FilterContext) error
	// filterFrame takes ownership of in and forwards zero or more frames.
	filterFrame(ctx *FilterContext, in *Frame) error
}

// eofHandler is implemented by filters that act on end of stream instead of
// forwarding it.
type eofHandler interface {
	endOfStream(ctx *FilterContext)
}

// releaser is implemented by filters holding frames that must be dropped
// when the graph is freed.
type releaser interface {
	release()
}

var registry = map[string]*Filter{}

// registerFilter makes a filter available to FindFilterByName and Parse.
func registerFilter(f *Filter) {
	if _, exists := registry[f.Name]; exists {
		panic("filtergraph: filter registered twice: " + f.Name)
	}
	registry[f.Name] = f
}

// FindFilterByName returns the registered filter or nil.
func FindFilterByName(name string) *Filter {
	return registry[name]
}

// FilterNames lists every registered filter in alphabetical order.
func FilterNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options holds the parsed arguments of one filter instance.
type Options struct {
	filter string
	values map[string]string
	set    map[string]bool
}

// String returns the raw value of an option.
func (o *Options) String(name string) string {
	return o.values[name]
}

// IsSet reports whether the option was given explicitly.
func (o *Options) IsSet(name string) bool {
	return o.set[name]
}

// Int parses an option as an integer.
func (o *Options) Int(name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(o.values[name]))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: option %s=%q is not an integer", ErrInvalidArgument, o.filter, name, o.values[name])
	}
	return v, nil
}

// Float parses an option as a floating point number.
func (o *Options) Float(name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(o.values[name]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: option %s=%q is not a number", ErrInvalidArgument, o.filter, name, o.values[name])
	}
	return v, nil
}

// FloatRange parses an option and checks it lies within [lo, hi].
func (o *Options) FloatRange(name string, lo, hi float64) (float64, error) {
	v, err := o.Float(name)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%w: %s: option %s=%g out of range [%g, %g]", ErrInvalidArgument, o.filter, name, v, lo, hi)
	}
	return v, nil
}

// parseOptions splits an argument string into option values. Arguments are
// separated by ':'; an argument without '=' is positional and fills the next
// declared option.
func parseOptions(f *Filter, args string) (*Options, error) {
	opts := &Options{
		filter: f.Name,
		values: make(map[string]string, len(f.Options)),
		set:    make(map[string]bool, len(f.Options)),
	}
	for _, o := range f.Options {
		opts.values[o.Name] = o.Default
	}

	if strings.TrimSpace(args) == "" {
		return opts, nil
	}

	parts, err := splitUnquoted(args, ':')
	if err != nil {
		return nil, err
	}

	positional := 0
	keyed := false
	for _, part := range parts {
		key, value, hasKey := cutUnquoted(part, '=')
		if !hasKey {
			if keyed {
				return nil, fmt.Errorf("%w: %s: positional argument %q after named arguments", ErrInvalidArgument, f.Name, part)
			}
			if positional >= len(f.Options) {
				return nil, fmt.Errorf("%w: %s: too many arguments", ErrInvalidArgument, f.Name)
			}
			name := f.Options[positional].Name
			opts.values[name] = unquote(part)
			opts.set[name] = true
			positional++
			continue
		}

		keyed = true
		name, ok := f.lookupOption(strings.TrimSpace(key))
		if !ok {
			return nil, fmt.Errorf("%w: %s: option %q not found", ErrInvalidArgument, f.Name, key)
		}
		opts.values[name] = unquote(value)
		opts.set[name] = true
	}
	return opts, nil
}

func (f *Filter) lookupOption(key string) (string, bool) {
	for _, o := range f.Options {
		if o.Name == key {
			return o.Name, true
		}
		for _, alias := range o.Aliases {
			if alias == key {
				return o.Name, true
			}
		}
	}
	return "", false
}

// splitUnquoted splits s on sep, ignoring separators inside single quotes or
// escaped with a backslash. Quotes and escapes are preserved.
func splitUnquoted(s string, sep byte) ([]string, error) {
	var parts []string
	start := 0
	quoted := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case c == '\'':
			quoted = !quoted
		case c == sep && !quoted:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if quoted {
		return nil, fmt.Errorf("%w: unterminated quote in %q", ErrSyntax, s)
	}
	return append(parts, s[start:]), nil
}

// cutUnquoted splits s around the first unquoted sep.
func cutUnquoted(s string, sep byte) (before, after string, found bool) {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case c == '\'':
			quoted = !quoted
		case c == sep && !quoted:
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

// unquote removes single quotes and backslash escapes.
func unquote(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case c == '\'':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
