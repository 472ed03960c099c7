package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

// record is one match as written to the output.
type record struct {
	File   string `csv:"file"`
	Line   int    `csv:"line"`
	Start  int    `csv:"start"`
	Finish int    `csv:"finish"`
	Text   string `csv:"text"`
}

type writer interface {
	Write(rec record) error
	Flush() error
}

func newWriter(format string, w io.Writer) writer {
	if format == "csv" {
		cw := csv.NewWriter(w)
		return &csvWriter{w: cw, enc: csvutil.NewEncoder(cw)}
	}
	return &textWriter{w: bufio.NewWriter(w)}
}

// textWriter prints file:line:start-finish:text, grep style.
type textWriter struct {
	w *bufio.Writer
}

func (t *textWriter) Write(rec record) error {
	_, err := fmt.Fprintf(t.w, "%s:%d:%d-%d:%s\n", rec.File, rec.Line, rec.Start, rec.Finish, rec.Text)
	return err
}

func (t *textWriter) Flush() error {
	return t.w.Flush()
}

type csvWriter struct {
	w   *csv.Writer
	enc *csvutil.Encoder
}

func (c *csvWriter) Write(rec record) error {
	return c.enc.Encode(rec)
}

func (c *csvWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}
