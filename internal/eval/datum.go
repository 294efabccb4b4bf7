package eval

import (
	"github.com/jacoelho/jpath/internal/ast"
)

// Datum is one match: a value, the path step that selected it and the datum
// it was selected from. Context is a lookup link towards the root; following
// it never changes the chain.
type Datum struct {
	Value   any
	Path    ast.Node
	Context *Datum

	autoID   bool
	computed bool
}

// NewDatum wraps a top-level value.
func NewDatum(value any) *Datum {
	return &Datum{Value: value, Path: ast.This{}}
}

// FullPath composes the path steps from the root down to d.
func (d *Datum) FullPath() ast.Node {
	if d.Context == nil {
		return d.Path
	}
	return ast.Compose(d.Context.FullPath(), d.Path)
}

// IDPseudoPath is FullPath with every step whose value is a mapping holding
// field replaced by that id.
func (d *Datum) IDPseudoPath(field string) ast.Node {
	path := d.Path
	if m, ok := d.Value.(map[string]any); ok && field != "" {
		if id, ok := m[field]; ok {
			path = ast.NewFields(stringify(id))
		}
	}
	if d.Context == nil {
		return path
	}
	return ast.Compose(d.Context.IDPseudoPath(field), path)
}

// IsAutoID reports whether the value is a synthetic id.
func (d *Datum) IsAutoID() bool {
	return d.autoID
}

// IsComputed reports whether the value was produced by an operator rather
// than found in the document.
func (d *Datum) IsComputed() bool {
	return d.computed
}

// Values returns the value of every datum.
func Values(datums []*Datum) []any {
	values := make([]any, len(datums))
	for i, d := range datums {
		values[i] = d.Value
	}
	return values
}

func (d *Datum) top() *Datum {
	for d.Context != nil {
		d = d.Context
	}
	return d
}
