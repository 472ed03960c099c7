package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runArgs(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	code, err = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String(), err
}

func TestRun_Text(t *testing.T) {
	code, out, _, err := runArgs(t, "one 12\ntwo\n345 six\n", `/n+/`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "-:1:5-7:12\n-:3:1-4:345\n", out)
}

func TestRun_NoMatch(t *testing.T) {
	code, out, _, err := runArgs(t, "abc\n", `/"x"/`)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
}

func TestRun_CSV(t *testing.T) {
	code, out, _, err := runArgs(t, "say \"hi\" there\n", "--format=csv", "--body", `'HI'|'there'`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	var recs []record
	require.NoError(t, csvutil.Unmarshal([]byte(out), &recs))
	assert.Equal(t, []record{
		{File: "-", Line: 1, Start: 6, Finish: 8, Text: "hi"},
		{File: "-", Line: 1, Start: 10, Finish: 15, Text: "there"},
	}, recs)
}

func TestRun_Count(t *testing.T) {
	code, out, _, err := runArgs(t, "a a\na\n", "-n", "2", `/"a"/`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "-:1:1-2:a\n-:1:3-4:a\n", out)
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.txt")
	require.NoError(t, os.WriteFile(first, []byte("alpha\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("beta\n\x1b[31malpha\x1b[0m\n"), 0o644))

	code, out, _, err := runArgs(t, "", "--strip-ansi", `/<"alpha">/`, first, second)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, first+":1:1-6:alpha\n"+second+":2:1-6:alpha\n", out)
}

func TestRun_SpansAndConfig(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "edpat.toml")
	require.NoError(t, os.WriteFile(conf, []byte("enable-prefilter = false\n"), 0o644))

	code, out, stderr, err := runArgs(t, "id 42-7\n", "-c", conf, "-s", "num=n+", "-v", `/$num$"-"$num$/`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "-:1:4-8:42-7\n", out)
	assert.Contains(t, stderr, "searches=")
	assert.Contains(t, stderr, "prefilter-hits=0")
}

func TestRun_LongOptionsTakeEqualsValue(t *testing.T) {
	code, out, _, err := runArgs(t, "ab\n", "--format=csv", "--count=1", `/"a"/`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "file,line,start,finish,text\n-,1,1,2,a\n", out)
}

func TestRun_Margins(t *testing.T) {
	code, out, _, err := runArgs(t, "abcdef\n", "--margins=2,4", `/{c*}/`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "-:1:2-4:bc\n", out)
}

func TestRun_Dump(t *testing.T) {
	code, out, _, err := runArgs(t, "", "--dump", `/"ab"/`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `DFA "\"ab\""`)
	assert.Contains(t, out, "START")
}

func TestRun_Gen(t *testing.T) {
	code, out, _, err := runArgs(t, "", "--gen=patterns.Word", `/a+/`)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "package patterns")
	assert.Contains(t, out, "var Word = dfa.Snapshot{")

	code, _, _, err = runArgs(t, "", "--gen=nodot", `/a+/`)
	assert.Error(t, err)
	assert.Equal(t, 2, code)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no pattern", nil},
		{"bad pattern", []string{`/"abc`}},
		{"bad format", []string{"--format=xml", `/"a"/`}},
		{"bad span", []string{"--span=novalue", `/"a"/`}},
		{"bad margins", []string{"--margins=wide", `/"a"/`}},
		{"bad profile", []string{"--profile=gpu", `/"a"/`}},
		{"missing config", []string{"--config=/nonexistent/edpat.toml", `/"a"/`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _, err := runArgs(t, "a\n", tt.args...)
			assert.Error(t, err)
			assert.Equal(t, 2, code)
		})
	}
}

func TestRun_VerboseReportsCompileError(t *testing.T) {
	_, _, stderr, err := runArgs(t, "", "-v", `/@0/`)
	assert.Error(t, err)
	assert.Contains(t, stderr, "illegal mark number")
}
