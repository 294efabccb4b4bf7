// Package eval runs path-expression trees against decoded documents.
//
// Documents are trees of map[string]any, []any and scalars. Mappings are
// visited in ascending key order so results are deterministic. Find never
// modifies the document; UpdateOrCreate and Update change it in place.
package eval

import (
	"log/slog"
	"slices"

	"github.com/jacoelho/jpath/internal/ast"
	"github.com/jacoelho/jpath/internal/number"
	"github.com/jacoelho/jpath/internal/stack"
)

type config struct {
	autoIDField string
	logger      *slog.Logger
}

type Option func(*config)

// WithAutoIDField enables synthetic ids: looking up field on a value that
// lacks it yields the path of that value instead of nothing.
func WithAutoIDField(field string) Option {
	return func(c *config) {
		c.autoIDField = field
	}
}

// WithLogger receives debug records for operations that were discarded, such
// as arithmetic on mismatched types.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type evaluator struct {
	config
}

func newEvaluator(opts []Option) *evaluator {
	c := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&c)
	}
	return &evaluator{config: c}
}

// Find returns every match of node in data, in document order.
func Find(node ast.Node, data any, opts ...Option) []*Datum {
	return FindDatum(node, NewDatum(data), opts...)
}

// FindDatum evaluates node relative to an existing match.
func FindDatum(node ast.Node, d *Datum, opts ...Option) []*Datum {
	return newEvaluator(opts).find(node, d)
}

func (e *evaluator) find(node ast.Node, d *Datum) []*Datum {
	switch n := node.(type) {
	case ast.Root:
		return []*Datum{{Value: d.top().Value, Path: ast.Root{}}}
	case ast.This:
		return []*Datum{d}
	case ast.Parent:
		if d.Context == nil {
			return nil
		}
		return []*Datum{d.Context}
	case ast.Fields:
		return e.fields(n, d)
	case ast.Index:
		return index(n, d)
	case ast.Slice:
		return slice(n, d)
	case ast.Child:
		var out []*Datum
		for _, left := range e.find(n.Left, d) {
			if left.autoID {
				continue
			}
			out = append(out, e.find(n.Right, left)...)
		}
		return out
	case ast.Where:
		var out []*Datum
		for _, left := range e.find(n.Left, d) {
			if len(e.find(n.Right, left)) > 0 {
				out = append(out, left)
			}
		}
		return out
	case ast.Descendants:
		return e.descendants(n, d)
	case ast.Union:
		return append(e.find(n.Left, d), e.find(n.Right, d)...)
	case ast.Filter:
		return e.filter(n, d)
	case ast.Literal:
		return []*Datum{{Value: n.Value, Path: ast.This{}, computed: true}}
	case ast.Operation:
		return e.operation(n, d)
	case ast.SortFilter:
		return e.sort(n, d)
	case ast.NamedOperator:
		return e.named(n, d)
	case ast.Expression:
		if e.matches(n, d) {
			return []*Datum{d}
		}
		return nil
	default:
		return nil
	}
}

func (e *evaluator) fields(n ast.Fields, d *Datum) []*Datum {
	m, isMap := d.Value.(map[string]any)

	if n.IsWildcard() {
		if !isMap {
			if list, ok := d.Value.([]any); ok {
				return elements(list, d)
			}
			return nil
		}
		out := entries(m, d)
		if e.autoIDField != "" {
			if _, ok := m[e.autoIDField]; !ok {
				out = append(out, e.autoID(d))
			}
		}
		return out
	}

	var out []*Datum
	for _, name := range n.Names {
		if isMap {
			if value, ok := m[name]; ok {
				out = append(out, &Datum{Value: value, Path: ast.NewFields(name), Context: d})
				continue
			}
		}
		if e.autoIDField != "" && name == e.autoIDField {
			out = append(out, e.autoID(d))
		}
	}
	return out
}

func (e *evaluator) autoID(d *Datum) *Datum {
	return &Datum{
		Value:   ast.Render(d.IDPseudoPath(e.autoIDField), false),
		Path:    ast.NewFields(e.autoIDField),
		Context: d,
		autoID:  true,
	}
}

func entries(m map[string]any, d *Datum) []*Datum {
	out := make([]*Datum, 0, len(m))
	for _, key := range sortedKeys(m) {
		out = append(out, &Datum{Value: m[key], Path: ast.NewFields(key), Context: d})
	}
	return out
}

func elements(list []any, d *Datum) []*Datum {
	out := make([]*Datum, len(list))
	for i, value := range list {
		out[i] = &Datum{Value: value, Path: ast.Index{Index: i}, Context: d}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func index(n ast.Index, d *Datum) []*Datum {
	list, ok := d.Value.([]any)
	if !ok {
		return nil
	}
	i := n.Index
	if i < 0 {
		i += len(list)
	}
	if i < 0 || i >= len(list) {
		return nil
	}
	return []*Datum{{Value: list[i], Path: ast.Index{Index: i}, Context: d}}
}

// slice treats a non-empty value that is not a list as a one-element list
// holding itself; such a match keeps the position of the value. Empty
// values (nil, false, zero, "" and empty mappings) yield nothing.
func slice(n ast.Slice, d *Datum) []*Datum {
	list, ok := d.Value.([]any)
	if !ok {
		if isEmpty(d.Value) || len(sliceIndices(1, n)) == 0 {
			return nil
		}
		return []*Datum{{Value: d.Value, Path: ast.This{}, Context: d}}
	}

	indices := sliceIndices(len(list), n)
	out := make([]*Datum, len(indices))
	for i, at := range indices {
		out[i] = &Datum{Value: list[at], Path: ast.Index{Index: at}, Context: d}
	}
	return out
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	if f, ok := number.ToFloat64(value); ok {
		return f == 0
	}
	return false
}

// sliceIndices resolves slice bounds against a sequence of length n.
// Bounds are clamped and a negative step walks backwards.
func sliceIndices(n int, s ast.Slice) []int {
	step := 1
	if s.Step != nil {
		step = *s.Step
	}
	if step == 0 {
		return nil
	}

	var out []int
	if step > 0 {
		start := bound(s.Start, n, 0, 0, n)
		end := bound(s.End, n, n, 0, n)
		for i := start; i < end; i += step {
			out = append(out, i)
		}
		return out
	}

	start := bound(s.Start, n, n-1, -1, n-1)
	end := bound(s.End, n, -1, -1, n-1)
	for i := start; i > end; i += step {
		out = append(out, i)
	}
	return out
}

func bound(v *int, n, fallback, lo, hi int) int {
	if v == nil {
		return fallback
	}
	i := *v
	if i < 0 {
		i += n
	}
	return min(max(i, lo), hi)
}

func (e *evaluator) descendants(n ast.Descendants, d *Datum) []*Datum {
	var out []*Datum
	for _, left := range e.find(n.Left, d) {
		pending := stack.New[*Datum]()
		pending.Push(left)
		for !pending.IsEmpty() {
			current, _ := pending.Pop()
			out = append(out, e.find(n.Right, current)...)
			pending.PushReversed(children(current)...)
		}
	}
	return out
}

func children(d *Datum) []*Datum {
	switch v := d.Value.(type) {
	case map[string]any:
		return entries(v, d)
	case []any:
		return elements(v, d)
	default:
		return nil
	}
}
