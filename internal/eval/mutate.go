package eval

import (
	"errors"
	"fmt"

	"github.com/jacoelho/jpath/internal/ast"
)

var (
	// ErrNotCreatable reports a path step with no single location to build.
	ErrNotCreatable = errors.New("path cannot be created")

	// ErrNotUpdatable reports a match that was computed rather than found.
	ErrNotUpdatable = errors.New("match cannot be updated")
)

// CreateError names the step UpdateOrCreate could not materialize.
type CreateError struct {
	Node ast.Node
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Node, e.Err)
}

func (e *CreateError) Unwrap() error {
	return e.Err
}

// UpdateOrCreate builds whatever containers node needs in data and stores
// value at the location it names. Existing mappings and lists on the way are
// changed in place; anything else in the way is replaced by a new mapping or
// list. The returned value is the new root, which differs from data only when
// data itself had to be replaced.
//
// Root, This, plain field names, indices and their composition can be
// created. Every other step fails with a *CreateError.
func UpdateOrCreate(node ast.Node, data, value any, opts ...Option) (any, error) {
	e := newEvaluator(opts)
	return e.create(node, data, func(any) (any, error) {
		return value, nil
	})
}

// setter computes the value to store from the one currently there.
type setter func(existing any) (any, error)

func (e *evaluator) create(node ast.Node, current any, set setter) (any, error) {
	switch n := node.(type) {
	case ast.Root, ast.This:
		return set(current)

	case ast.Fields:
		if n.IsWildcard() {
			return nil, &CreateError{Node: n, Err: ErrNotCreatable}
		}
		m, ok := current.(map[string]any)
		if !ok {
			m = make(map[string]any)
		}
		for _, name := range n.Names {
			updated, err := set(m[name])
			if err != nil {
				return nil, err
			}
			m[name] = updated
		}
		return m, nil

	case ast.Index:
		list, ok := current.([]any)
		if !ok {
			list = []any{}
		}
		i := n.Index
		if i < 0 {
			i += len(list)
		}
		if i < 0 {
			return nil, &CreateError{Node: n, Err: fmt.Errorf("%w: index %d before start of list", ErrNotCreatable, n.Index)}
		}
		for len(list) <= i {
			list = append(list, map[string]any{})
		}
		updated, err := set(list[i])
		if err != nil {
			return nil, err
		}
		list[i] = updated
		return list, nil

	case ast.Child:
		return e.create(n.Left, current, func(existing any) (any, error) {
			return e.create(n.Right, existing, set)
		})

	default:
		return nil, &CreateError{Node: node, Err: ErrNotCreatable}
	}
}

// Update stores value at every existing match of node and returns the root,
// which is replaced when the root itself matched. Nothing is created: a path
// without matches leaves data unchanged. Computed matches, such as sorted
// lists or arithmetic results, fail with ErrNotUpdatable; synthetic ids are
// skipped.
func Update(node ast.Node, data, value any, opts ...Option) (any, error) {
	e := newEvaluator(opts)
	root := NewDatum(data)

	matches := e.find(node, root)
	for _, match := range matches {
		if match.autoID {
			continue
		}
		if err := assign(match, root, value); err != nil {
			return root.Value, err
		}
	}
	return root.Value, nil
}

func assign(d, root *Datum, value any) error {
	if d.computed {
		return fmt.Errorf("%w: %s", ErrNotUpdatable, d.Path)
	}

	switch p := d.Path.(type) {
	case ast.Root:
		root.Value = value
	case ast.This:
		if d.Context == nil {
			root.Value = value
			break
		}
		return assign(d.Context, root, value)
	case ast.Fields:
		m, ok := d.Context.Value.(map[string]any)
		if !ok || len(p.Names) != 1 {
			return fmt.Errorf("%w: %s", ErrNotUpdatable, d.FullPath())
		}
		m[p.Names[0]] = value
	case ast.Index:
		list, ok := d.Context.Value.([]any)
		if !ok || p.Index >= len(list) {
			return fmt.Errorf("%w: %s", ErrNotUpdatable, d.FullPath())
		}
		list[p.Index] = value
	default:
		return fmt.Errorf("%w: %s", ErrNotUpdatable, d.FullPath())
	}

	d.Value = value
	return nil
}
