package io

import (
	"errors"

	"github.com/ezrec/assembunny/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull = errors.New(f("channel full"))
	ErrTapeMissing = errors.New(f("tape output missing"))
)

// ErrMismatch is the first emitted value that differs from the expected sequence.
type ErrMismatch struct {
	Index int
	Want  int32
	Got   int32
}

func (err *ErrMismatch) Error() string {
	return f("output %d is %d, expected %d", err.Index, err.Got, err.Want)
}
