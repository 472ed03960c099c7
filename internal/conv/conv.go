// Package conv narrows integers into the 32-bit state identifiers used by
// the automata.
//
// State arenas are bounded by configuration long before these limits, so an
// out-of-range value is a programming error and panics.
package conv

import "math"

// IntToUint32 converts an arena length or index to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// uint comparison avoids overflow where int is 32 bits
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// Uint32ToInt widens a stored identifier back to an index.
// Panics if the value does not fit in int.
//
//go:inline
func Uint32ToInt(n uint32) int {
	if uint64(n) > uint64(math.MaxInt) {
		panic("integer overflow: uint32 value out of int range")
	}
	return int(n)
}
