// Package io provides output channel implementations for the assembunny
// CPU. The out instruction sends each emitted value to a Channel: Tape
// writes values to a byte stream, and Expect compares them against a
// target sequence.
package io

// Channel defines the interface for all output channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send writes a single value to the channel.
	Send(value int32) error
}
