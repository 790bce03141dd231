package emulator

import (
	"errors"

	"github.com/ezrec/assembunny/translate"
)

var f = translate.From

var (
	ErrTickLimit       = errors.New(f("tick limit exceeded"))
	ErrSearchExhausted = errors.New(f("no seed produced the expected output"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
