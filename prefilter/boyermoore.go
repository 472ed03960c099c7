package prefilter

import (
	"fmt"

	"github.com/sarpdag/boyermoore"
)

// BoyerMoore searches for a single literal.
type BoyerMoore struct {
	needle   []byte
	complete bool
}

func newBoyerMoore(needle []byte, complete bool) *BoyerMoore {
	return &BoyerMoore{needle: needle, complete: complete}
}

// Find implements Prefilter.
func (p *BoyerMoore) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) || len(haystack)-start < len(p.needle) {
		return -1
	}
	i := boyermoore.Index(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

// IsComplete implements Prefilter.
func (p *BoyerMoore) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.
func (p *BoyerMoore) LiteralLen() int {
	if !p.complete {
		return 0
	}
	return len(p.needle)
}

func (p *BoyerMoore) String() string {
	return fmt.Sprintf("BoyerMoore(%q)", p.needle)
}
