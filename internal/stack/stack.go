// Package stack implements the LIFO used by the lexer mode stack and by
// iterative tree walks in the evaluator.
package stack

import "slices"

type Stack[T any] struct {
	items []T
}

func New[T any]() *Stack[T] {
	return &Stack[T]{}
}

// NewWithCapacity reduces allocations when the walk depth is roughly known.
func NewWithCapacity[T any](capacity int) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, capacity)}
}

// Push adds items in order, leaving the last one on top.
func (s *Stack[T]) Push(items ...T) {
	s.items = append(s.items, items...)
}

// PushReversed adds items so that the first one ends up on top. Pre-order
// walks use it to visit children in their natural order.
func (s *Stack[T]) PushReversed(items ...T) {
	for i := len(items) - 1; i >= 0; i-- {
		s.items = append(s.items, items[i])
	}
}

func (s *Stack[T]) Pop() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}

	last := len(s.items) - 1
	item := s.items[last]
	s.items = s.items[:last]
	return item, true
}

func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Stack[T]) Size() int {
	return len(s.items)
}

// ToSlice orders from bottom to top.
func (s *Stack[T]) ToSlice() []T {
	return slices.Clone(s.items)
}
