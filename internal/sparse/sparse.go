// Package sparse provides a sparse set of small integer IDs.
//
// A sparse set supports O(1) insertion, membership testing and clearing while
// keeping a dense list of its members in insertion order. The determinizer
// uses it to accumulate epsilon closures of NFA states.
package sparse

import (
	"encoding/binary"
	"slices"
)

// Set is a set of IDs drawn from [0, capacity).
// It maintains both a sparse array (for membership testing) and a dense array
// (for iteration). The sparse array maps values to indices in the dense array.
type Set[T ~uint32] struct {
	sparse []uint32 // Maps value -> index in dense
	dense  []T      // Contains the actual values
}

// New creates a new sparse set holding values below capacity.
func New[T ~uint32](capacity int) *Set[T] {
	return &Set[T]{
		sparse: make([]uint32, capacity),
		dense:  make([]T, 0, capacity),
	}
}

// Insert adds a value to the set and reports whether it was absent.
// Panics if value >= capacity.
func (s *Set[T]) Insert(value T) bool {
	if s.Contains(value) {
		return false
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains returns true if the value is in the set
func (s *Set[T]) Contains(value T) bool {
	if uint64(value) >= uint64(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Clear removes all elements from the set in O(1) time
func (s *Set[T]) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of elements in the set
func (s *Set[T]) Len() int {
	return len(s.dense)
}

// IsEmpty returns true if the set contains no elements
func (s *Set[T]) IsEmpty() bool {
	return len(s.dense) == 0
}

// Values returns the members in insertion order.
// The returned slice is valid until the next mutation.
func (s *Set[T]) Values() []T {
	return s.dense
}

// Sorted returns a sorted copy of the members.
func (s *Set[T]) Sorted() []T {
	out := slices.Clone(s.dense)
	slices.Sort(out)
	return out
}

// Key encodes the sorted members as a string usable as a map key.
// Two sets have equal keys iff they have equal members.
func (s *Set[T]) Key() string {
	return KeyOf(s.Sorted())
}

// KeyOf encodes an already sorted slice the way Key does.
func KeyOf[T ~uint32](sorted []T) string {
	buf := make([]byte, 4*len(sorted))
	for i, v := range sorted {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	return string(buf)
}
