package io

import (
	"io"
	"strconv"
)

// Tape writes each value as decimal text to an io.Writer, followed by
// Separator ("\n" if empty).
type Tape struct {
	Output    io.Writer
	Separator string

	Written int // Values written.
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value int32) (err error) {
	if tc.Output == nil {
		err = ErrTapeMissing
		return
	}

	sep := tc.Separator
	if len(sep) == 0 {
		sep = "\n"
	}

	_, err = io.WriteString(tc.Output, strconv.Itoa(int(value))+sep)
	if err != nil {
		return
	}

	tc.Written++

	return
}
