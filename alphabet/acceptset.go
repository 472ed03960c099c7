package alphabet

import (
	"math/bits"
	"strings"
)

const words = (Size + 63) / 64

// AcceptSet is a set of symbols of the extended alphabet.
//
// AcceptSet is a value type: the zero value is the empty set, sets compare
// with == and every operation returns a new set.
type AcceptSet struct {
	w [words]uint64
}

// Of returns the set holding exactly the given symbols.
func Of(syms ...Symbol) AcceptSet {
	var s AcceptSet
	for _, sym := range syms {
		s = s.Add(sym)
	}
	return s
}

// Range returns the set of real characters lo..hi inclusive.
// An inverted range yields the empty set.
func Range(lo, hi byte) AcceptSet {
	return AcceptSet{}.AddRange(lo, hi)
}

// Printable returns the meaningful character range.
func Printable() AcceptSet {
	return Range(PrintableLo, PrintableHi)
}

// All returns the set of every symbol in the alphabet.
func All() AcceptSet {
	var s AcceptSet
	for i := range s.w {
		s.w[i] = ^uint64(0)
	}
	if rem := Size % 64; rem != 0 {
		s.w[words-1] = (uint64(1) << rem) - 1
	}
	return s
}

// Add returns s with sym added.
func (s AcceptSet) Add(sym Symbol) AcceptSet {
	if int(sym) >= Size {
		return s
	}
	s.w[sym/64] |= 1 << (sym % 64)
	return s
}

// AddRange returns s with the real characters lo..hi added.
func (s AcceptSet) AddRange(lo, hi byte) AcceptSet {
	for c := int(lo); c <= int(hi); c++ {
		s.w[c/64] |= 1 << (uint(c) % 64)
	}
	return s
}

// Contains reports whether sym is a member of s.
func (s AcceptSet) Contains(sym Symbol) bool {
	if int(sym) >= Size {
		return false
	}
	return s.w[sym/64]&(1<<(sym%64)) != 0
}

// Union returns s ∪ o.
func (s AcceptSet) Union(o AcceptSet) AcceptSet {
	for i := range s.w {
		s.w[i] |= o.w[i]
	}
	return s
}

// Intersect returns s ∩ o.
func (s AcceptSet) Intersect(o AcceptSet) AcceptSet {
	for i := range s.w {
		s.w[i] &= o.w[i]
	}
	return s
}

// Difference returns s \ o.
func (s AcceptSet) Difference(o AcceptSet) AcceptSet {
	for i := range s.w {
		s.w[i] &^= o.w[i]
	}
	return s
}

// Negate complements the real characters of s within the meaningful range.
// Characters outside the range and pseudo-symbols never appear in the result.
func (s AcceptSet) Negate() AcceptSet {
	return Printable().Difference(s)
}

// Complement returns every symbol of the alphabet that is not in s.
func (s AcceptSet) Complement() AcceptSet {
	return All().Difference(s)
}

// IsEmpty reports whether s has no members.
func (s AcceptSet) IsEmpty() bool {
	for _, w := range s.w {
		if w != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of members of s.
func (s AcceptSet) Len() int {
	n := 0
	for _, w := range s.w {
		n += bits.OnesCount64(w)
	}
	return n
}

// Overlaps reports whether s and o share a member.
func (s AcceptSet) Overlaps(o AcceptSet) bool {
	for i := range s.w {
		if s.w[i]&o.w[i] != 0 {
			return true
		}
	}
	return false
}

// HasPseudo reports whether s contains any pseudo-symbol.
func (s AcceptSet) HasPseudo() bool {
	return s.Overlaps(All().Difference(Range(0, 255)))
}

// Single returns the only member of s. The second result is false unless
// s has exactly one member.
func (s AcceptSet) Single() (Symbol, bool) {
	if s.Len() != 1 {
		return 0, false
	}
	for i, w := range s.w {
		if w != 0 {
			return Symbol(i*64 + bits.TrailingZeros64(w)), true
		}
	}
	return 0, false
}

// Symbols returns the members of s in ascending order.
func (s AcceptSet) Symbols() []Symbol {
	out := make([]Symbol, 0, s.Len())
	for i, w := range s.w {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, Symbol(i*64+b))
			w &= w - 1
		}
	}
	return out
}

// Words exposes the raw bitset, least significant symbol first.
// Used by table snapshots.
func (s AcceptSet) Words() []uint64 {
	out := make([]uint64, words)
	copy(out, s.w[:])
	return out
}

// FromWords rebuilds a set from the output of Words.
func FromWords(ws []uint64) AcceptSet {
	var s AcceptSet
	copy(s.w[:], ws)
	return s.Intersect(All())
}

// String renders s as a compact list of characters, ranges and pseudo-symbols.
func (s AcceptSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	syms := s.Symbols()
	for i := 0; i < len(syms); {
		j := i
		for j+1 < len(syms) && syms[j+1] == syms[j]+1 && !syms[j+1].IsPseudo() {
			j++
		}
		if sb.Len() > 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(syms[i].String())
		if j > i+1 {
			sb.WriteString("..")
			sb.WriteString(syms[j].String())
		} else if j == i+1 {
			sb.WriteByte(' ')
			sb.WriteString(syms[j].String())
		}
		i = j + 1
	}
	sb.WriteByte(']')
	return sb.String()
}
