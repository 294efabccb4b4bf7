// Package ast defines the closed set of path-expression nodes.
//
// Nodes are immutable values. The set is sealed: only types in this package
// implement Node, so evaluators can switch over every variant.
package ast

import (
	"reflect"
	"slices"
)

// Node is a parsed path expression.
type Node interface {
	String() string
	node()
}

// Base grammar.
type (
	// Root matches the top-level datum.
	Root struct{}

	// This matches the current datum.
	This struct{}

	// Parent matches the datum one level up the context chain.
	Parent struct{}

	// Fields selects children of a mapping by name. A single "*" is the wildcard.
	Fields struct {
		Names []string
	}

	// Index selects one element of a sequence.
	Index struct {
		Index int
	}

	// Slice selects elements of a sequence by start, stop and step; negative
	// bounds count from the end.
	// Nil bounds are open.
	Slice struct {
		Start *int
		End   *int
		Step  *int
	}

	Child struct {
		Left  Node
		Right Node
	}

	// Where keeps the results of Left for which Right matches.
	Where struct {
		Left  Node
		Right Node
	}

	// Descendants evaluates Right at every node below each result of Left.
	Descendants struct {
		Left  Node
		Right Node
	}

	// Union yields the results of Left followed by the results of Right.
	Union struct {
		Left  Node
		Right Node
	}
)

// Extension grammar.
type (
	// Filter keeps the elements of a sequence (or values of a mapping) for
	// which every expression matches.
	Filter struct {
		Expressions []Expression
	}

	// Expression tests Target for existence when Op is empty, otherwise
	// compares every value Target resolves to against Value.
	Expression struct {
		Target Node
		Op     string
		Value  any
	}

	// Literal is a constant operand of an arithmetic operation.
	Literal struct {
		Value any
	}

	Operation struct {
		Left  Node
		Op    string
		Right Node
	}

	SortKey struct {
		Path       Node
		Descending bool
	}

	// SortFilter reorders a sequence by one or more keys, left to right.
	SortFilter struct {
		Keys []SortKey
	}

	// NamedOperator is a back-quoted function applied as a path step.
	NamedOperator struct {
		Name string
		Args []string
	}
)

// Named operator names.
const (
	OpSorted = "sorted"
	OpLen    = "len"
	OpStr    = "str"
	OpSub    = "sub"
	OpSplit  = "split"
)

// Wildcard is the field name that selects every child.
const Wildcard = "*"

func (Root) node()          {}
func (This) node()          {}
func (Parent) node()        {}
func (Fields) node()        {}
func (Index) node()         {}
func (Slice) node()         {}
func (Child) node()         {}
func (Where) node()         {}
func (Descendants) node()   {}
func (Union) node()         {}
func (Filter) node()        {}
func (Expression) node()    {}
func (Literal) node()       {}
func (Operation) node()     {}
func (SortFilter) node()    {}
func (NamedOperator) node() {}

func NewFields(names ...string) Fields {
	return Fields{Names: names}
}

// IsWildcard reports whether f selects every child.
func (f Fields) IsWildcard() bool {
	return slices.Contains(f.Names, Wildcard)
}

// IsAll reports whether the slice has no bounds, as written by [*] or [:].
func (s Slice) IsAll() bool {
	return s.Start == nil && s.End == nil && s.Step == nil
}

// Int returns a pointer to v, for building slice bounds.
func Int(v int) *int {
	return &v
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(a, b)
}

// Key returns a canonical string for n, suitable as a map key. Structurally
// equal nodes have the same key.
func Key(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}

// Compose joins two path segments: $ and `this` on the left, and `this` on
// the right, are absorbed.
func Compose(left, right Node) Node {
	switch left.(type) {
	case Root, This:
		return right
	}
	if _, ok := right.(This); ok {
		return left
	}
	return Child{Left: left, Right: right}
}
