// Package orderedset provides a generic set with stable insertion-order
// iteration and O(1) add, remove and membership.
package orderedset

import (
	"container/list"
	"iter"
)

// Set is an insertion-ordered set of comparable values. The zero value is
// not usable; call New.
type Set[T comparable] struct {
	index map[T]*list.Element
	order *list.List // values in insertion order
}

// New creates an empty set, optionally seeded with values.
func New[T comparable](values ...T) *Set[T] {
	s := &Set[T]{
		index: make(map[T]*list.Element, len(values)),
		order: list.New(),
	}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v at the end of the iteration order. Returns false if v was
// already present; its position is then unchanged.
func (s *Set[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = s.order.PushBack(v)
	return true
}

// Remove deletes v. Returns false if v was not present.
func (s *Set[T]) Remove(v T) bool {
	e, ok := s.index[v]
	if !ok {
		return false
	}
	s.order.Remove(e)
	delete(s.index, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of values.
func (s *Set[T]) Len() int {
	return len(s.index)
}

// Clear removes every value.
func (s *Set[T]) Clear() {
	clear(s.index)
	s.order.Init()
}

// First returns the earliest inserted value still present.
func (s *Set[T]) First() (T, bool) {
	if e := s.order.Front(); e != nil {
		return e.Value.(T), true
	}
	var zero T
	return zero, false
}

// All iterates values in insertion order. The set must not be modified
// during iteration.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := s.order.Front(); e != nil; e = e.Next() {
			if !yield(e.Value.(T)) {
				return
			}
		}
	}
}

// Values returns a copy of the values in insertion order.
func (s *Set[T]) Values() []T {
	out := make([]T, 0, s.Len())
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}

// AppendTo appends the values to dst in insertion order.
func (s *Set[T]) AppendTo(dst []T) []T {
	for v := range s.All() {
		dst = append(dst, v)
	}
	return dst
}
