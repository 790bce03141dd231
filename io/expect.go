package io

// Expect compares sent values against the Want sequence. Values sent after
// the whole sequence matched are refused with ErrChannelFull.
type Expect struct {
	Want []int32

	index int
}

var _ Channel = (*Expect)(nil)

// Alternating returns the clock signal 0, 1, 0, 1, ... of length count.
func Alternating(count int) (want []int32) {
	want = make([]int32, count)
	for n := range want {
		want[n] = int32(n & 1)
	}
	return
}

// Rewind restarts the comparison from the first expected value.
func (ec *Expect) Rewind() {
	ec.index = 0
}

// Send compares the value against the next expected value.
func (ec *Expect) Send(value int32) (err error) {
	if ec.Done() {
		err = ErrChannelFull
		return
	}

	want := ec.Want[ec.index]
	if value != want {
		err = &ErrMismatch{Index: ec.index, Want: want, Got: value}
		return
	}

	ec.index++

	return
}

// Matched returns the number of values matched so far.
func (ec *Expect) Matched() int {
	return ec.index
}

// Done returns true once the whole sequence has been matched.
func (ec *Expect) Done() bool {
	return ec.index >= len(ec.Want)
}
