package jsonpath

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/jacoelho/jpath/internal/ast"
	"github.com/jacoelho/jpath/internal/document"
	"github.com/jacoelho/jpath/internal/eval"
	"github.com/jacoelho/jpath/internal/parser"
)

type options struct {
	base        bool
	autoIDField string
	format      document.Format
	logger      *slog.Logger
}

type Option func(*options)

// WithBaseGrammar parses without the extensions.
func WithBaseGrammar() Option {
	return func(o *options) {
		o.base = true
	}
}

// WithAutoIDField makes lookups of field on values that lack it yield the
// path of that value.
func WithAutoIDField(field string) Option {
	return func(o *options) {
		o.autoIDField = field
	}
}

// WithFormat sets the input syntax Stream decodes. The default sniffs it.
func WithFormat(format document.Format) Option {
	return func(o *options) {
		o.format = format
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{format: document.FormatAuto, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Path is a compiled expression. It is immutable and safe for concurrent use;
// the documents it runs against are not.
type Path struct {
	node ast.Node
	eval []eval.Option
}

// Parse compiles expr.
func Parse(expr string, opts ...Option) (*Path, error) {
	o := newOptions(opts)

	parserOpts := []parser.Option{parser.WithLogger(o.logger)}
	if o.base {
		parserOpts = append(parserOpts, parser.WithBaseGrammar())
	}

	node, err := parser.Parse(expr, parserOpts...)
	if err != nil {
		return nil, err
	}

	return &Path{
		node: node,
		eval: []eval.Option{eval.WithAutoIDField(o.autoIDField), eval.WithLogger(o.logger)},
	}, nil
}

// MustParse is like Parse but panics if the expression does not compile.
func MustParse(expr string, opts ...Option) *Path {
	p, err := Parse(expr, opts...)
	if err != nil {
		panic(fmt.Sprintf("jsonpath: Parse(%q): %v", expr, err))
	}
	return p
}

// Find returns every match in data, in document order.
func (p *Path) Find(data any) []*eval.Datum {
	return eval.Find(p.node, data, p.eval...)
}

// Values returns the value of every match in data.
func (p *Path) Values(data any) []any {
	return eval.Values(p.Find(data))
}

// UpdateOrCreate stores value at the location the path names, building any
// missing containers, and returns the possibly replaced root.
func (p *Path) UpdateOrCreate(data, value any) (any, error) {
	return eval.UpdateOrCreate(p.node, data, value, p.eval...)
}

// Update stores value at every existing match and returns the possibly
// replaced root.
func (p *Path) Update(data, value any) (any, error) {
	return eval.Update(p.node, data, value, p.eval...)
}

// Node exposes the expression tree.
func (p *Path) Node() ast.Node {
	return p.node
}

// String renders the expression in canonical form; parsing it again yields
// an equal Path.
func (p *Path) String() string {
	return p.node.String()
}

// Equal reports whether both paths have the same expression tree.
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}
	return ast.Equal(p.node, other.node)
}

// Result represents a single match from a streamed query.
type Result struct {
	Document int    // zero-based position of the document in the stream
	Path     string // canonical path of the match
	Value    any
}

// Stream compiles expr and returns a lazy iterator over the matches in every
// document read from r.
//
// The provided context can be used to cancel the streaming operation. A
// decoding error ends the iteration after it is yielded.
func Stream(ctx context.Context, r io.Reader, expr string, opts ...Option) (iter.Seq2[Result, error], error) {
	path, err := Parse(expr, opts...)
	if err != nil {
		return nil, err
	}
	o := newOptions(opts)

	seq := iter.Seq2[Result, error](func(yield func(Result, error) bool) {
		index := 0
		for data, err := range document.Decode(r, o.format) {
			if ctx.Err() != nil {
				yield(Result{}, ctx.Err())
				return
			}
			if err != nil {
				yield(Result{}, err)
				return
			}

			for _, match := range path.Find(data) {
				if ctx.Err() != nil {
					yield(Result{}, ctx.Err())
					return
				}
				result := Result{Document: index, Path: match.FullPath().String(), Value: match.Value}
				if !yield(result, nil) {
					return
				}
			}
			index++
		}
	})

	return seq, nil
}
