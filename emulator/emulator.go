// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"log"

	"github.com/ccoveille/go-safecast"

	"github.com/ezrec/assembunny/cpu"
	"github.com/ezrec/assembunny/io"
)

// Emulator state. CPU + pristine program + run limits.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the loaded program, never modified.

	Seed       cpu.Registers // Register values at the start of each run.
	RepeatHalt bool          // Halt when out emits the same value twice in a row.
	MaxTicks   int           // Maximum ticks per run, 0 for unlimited.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(&cpu.Program{}),
		Program: &cpu.Program{},
	}

	return
}

// Reset the emulator: the CPU gets a fresh copy of the program, and the
// registers are set to the seed values.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil {
		err = cpu.ErrProgramNil
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.RepeatHalt = emu.RepeatHalt
	emu.Cpu.Load(emu.Program)
	emu.Cpu.Register = emu.Seed

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return emu.Cpu.Ip
}

// Code returns the current instruction.
func (emu *Emulator) Code() cpu.Instruction {
	ins, _ := emu.Cpu.Program.Fetch(emu.Cpu.Ip)
	return ins
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	return emu.Code().LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	if emu.Cpu.Halted == cpu.HALT_NONE && emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
		err = ErrTickLimit
		return
	}

	halt, err := emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = halt != cpu.HALT_NONE

	return
}

// Run ticks the emulator until the program halts.
func (emu *Emulator) Run() (halt cpu.Halt, err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	halt = emu.Cpu.Halted

	if emu.Verbose {
		log.Printf("emulator: halted (%v) after %d ticks", halt, emu.Cpu.Ticks)
	}

	return
}

// Search runs the program once per seed value of register a, starting at
// start, for at most count seeds (0 for no limit). Each run starts from a
// fresh copy of the program. Returns the first seed whose output begins
// with want.
func (emu *Emulator) Search(start int32, count int, want []int32) (seed int32, err error) {
	expect := &io.Expect{Want: want}

	channel := emu.Cpu.Channel
	initial := emu.Seed[cpu.REG_A]
	defer func() {
		emu.Cpu.Channel = channel
		emu.Seed[cpu.REG_A] = initial
	}()
	emu.Cpu.Channel = expect

	for n := 0; count == 0 || n < count; n++ {
		var value int32
		value, err = safecast.Convert[int32](int64(start) + int64(n))
		if err != nil {
			err = errors.Join(ErrSearchExhausted, err)
			return
		}

		emu.Seed[cpu.REG_A] = value
		err = emu.Reset()
		if err != nil {
			return
		}

		var ok bool
		ok, err = emu.attempt(expect)
		if err != nil {
			return
		}

		if emu.Verbose {
			log.Printf("emulator: seed %d matched %d of %d", value, expect.Matched(), len(want))
		}

		if ok {
			seed = value
			return
		}
	}

	err = ErrSearchExhausted
	return
}

// attempt runs the current seed until the expected output is complete,
// or the run is rejected.
func (emu *Emulator) attempt(expect *io.Expect) (ok bool, err error) {
	for !expect.Done() {
		var done bool
		done, err = emu.Tick()
		if err != nil {
			var mismatch *io.ErrMismatch
			if errors.As(err, &mismatch) || errors.Is(err, ErrTickLimit) {
				err = nil
			}
			return
		}
		if done {
			return
		}
	}

	ok = true
	return
}
