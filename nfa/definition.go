package nfa

// Definition is the canonical text of a compiled pattern: the characters
// consumed while parsing, with dereferenced values inlined and the pattern
// delimiter and blanks removed.
//
// Two definitions describe the same pattern iff they are equal in length
// and content. This is the only cache key; no structural comparison of the
// graph is ever made.
type Definition struct {
	text string
}

// NewDefinition wraps canonical pattern text.
func NewDefinition(text string) Definition {
	return Definition{text: text}
}

// Text returns the canonical text.
func (d Definition) Text() string {
	return d.text
}

// Len returns the length of the canonical text.
func (d Definition) Len() int {
	return len(d.text)
}

// Equal reports whether d and o describe the same pattern.
func (d Definition) Equal(o Definition) bool {
	return len(d.text) == len(o.text) && d.text == o.text
}

// IsZero reports whether d is the definition of no pattern at all.
func (d Definition) IsZero() bool {
	return d.text == ""
}

func (d Definition) String() string {
	return d.text
}

// Dereference markers.
const (
	SpanMarker = '$'
	TextMarker = '&'
)

// Resolver fetches the value behind a dereference: a span ($name$) or a
// text value (&name&). It must return synchronously.
type Resolver interface {
	Resolve(marker byte, name string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(marker byte, name string) (string, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(marker byte, name string) (string, error) {
	return f(marker, name)
}
