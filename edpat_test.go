package edpat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/edpat/deref"
	"github.com/coregx/edpat/meta"
	"github.com/coregx/edpat/nfa"
)

func TestFindString(t *testing.T) {
	tests := []struct {
		src   string
		input string
		want  string
		index []int
	}{
		{`/"abc"/`, "xxabcxx", "abc", []int{2, 5}},
		{`/'abc'/`, "xAbCx", "AbC", []int{1, 4}},
		{`/"a"*/`, "bbb", "", []int{0, 0}},
		{`/"a"[2,3]/`, "aaaa", "aaa", []int{0, 3}},
		{`/"abc","def","ghi"/`, "xxabcdefghixx", "def", []int{5, 8}},
		{`/"abc","def","ghi"/`, "xxabcdefxx", "", nil},
		{`/"(", n+, ")"/`, "call(42)", "42", []int{5, 7}},
		{`/'error' s* ":"/`, "Error : disk full", "Error :", []int{0, 7}},
		{`/"b">/`, "ab\nab", "b", []int{1, 2}},
		{`/<"c"/`, "ab\ncd", "c", []int{3, 4}},
		{`/"x"s/`, "ax", "x", []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.src+" "+tt.input, func(t *testing.T) {
			p := MustCompile(tt.src)
			assert.Equal(t, tt.index, p.FindStringIndex(tt.input))
			assert.Equal(t, tt.want, p.FindString(tt.input))
			assert.Equal(t, tt.index != nil, p.MatchString(tt.input))
		})
	}
}

func TestFindAllString(t *testing.T) {
	p := MustCompile(`/n+/`)
	assert.Equal(t, []string{"12", "3", "456"}, p.FindAllString("a12 b3\n456", -1))
	assert.Equal(t, []string{"12", "3"}, p.FindAllString("a12 b3\n456", 2))
	assert.Nil(t, p.FindAllString("a12", 0))
	assert.Nil(t, p.FindAllString("none", -1))
	assert.Equal(t, [][]int{{1, 3}, {5, 6}, {7, 10}}, p.FindAllStringIndex("a12 b3\n456", -1))

	// Offsets stay in terms of the input when lines end in CRLF.
	assert.Equal(t, [][]int{{0, 1}, {3, 4}}, p.FindAllStringIndex("1\r\n2\r\n", -1))
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(`/"abc"`)
	assert.True(t, errors.Is(err, nfa.ErrUnmatchedDelimiter))

	_, err = Compile(`//`)
	assert.True(t, errors.Is(err, nfa.ErrNullPattern))

	_, err = CompileWithConfig(`/"a"/`, meta.Config{}, nil)
	var ce *meta.ConfigError
	assert.ErrorAs(t, err, &ce)

	assert.Panics(t, func() { MustCompile(`/@0/`) })
}

func TestCompileBody(t *testing.T) {
	p, err := CompileBody(`"ab"|"cd"`)
	require.NoError(t, err)
	assert.Equal(t, `"ab"|"cd"`, p.String())
	assert.Equal(t, "cd", p.FindString("xcdab"))
	assert.NotNil(t, p.Engine().Recognizer().Prefilter())
	assert.Equal(t, uint64(1), p.Stats().Searches)
}

func TestCompileWithConfig_Resolver(t *testing.T) {
	spans := deref.NewSpans()
	require.NoError(t, spans.Define("word", "a+"))

	p, err := CompileWithConfig(`/$word$ s $word$/`, meta.DefaultConfig(), spans)
	require.NoError(t, err)
	assert.Equal(t, "hello world", p.FindString("  hello world  "))
	assert.NotContains(t, p.Definition(), "$")
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, `"say ""hi"""`, QuoteLiteral(`say "hi"`))

	p, err := CompileBody(QuoteLiteral(`"q"`))
	require.NoError(t, err)
	assert.Equal(t, `"q"`, p.FindString(`x "q" y`))
}
