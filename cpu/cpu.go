package cpu

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/assembunny/io"
)

// Channel is an output channel interface.
type Channel io.Channel

// Halt is the reason the CPU stopped executing.
type Halt int

const (
	HALT_NONE   = Halt(0) // running
	HALT_RANGE  = Halt(1) // ip out of range
	HALT_REPEAT = Halt(2) // output repeated
)

var haltName = map[Halt]string{
	HALT_NONE:   "running",
	HALT_RANGE:  "ip out of range",
	HALT_REPEAT: "output repeated",
}

func (halt Halt) String() string {
	name, ok := haltName[halt]
	if !ok {
		return fmt.Sprintf("Halt(%d)", int(halt))
	}
	return name
}

// Mutation records a tgl rewriting an instruction.
type Mutation struct {
	Tick   int // Tick of the tgl.
	Ip     int // Address of the tgl.
	Target int // Address of the rewritten instruction.
	From   Op  // Operation before the rewrite.
	To     Op  // Operation after the rewrite.
}

// Cpu is the simulation context for the register machine.
type Cpu struct {
	Verbose    bool // Set to enable verbose logging.
	RepeatHalt bool // Set to halt when out emits the same value twice in a row.

	Program  *Program  // Live program, modified in place by tgl.
	Ip       int       // Current instruction pointer.
	Register Registers // Register bank.
	Channel  Channel   // Receives values emitted by out, may be nil.

	Output  []int32    // Values emitted by out, in order.
	History []Mutation // Instructions rewritten by tgl, in order.
	Halted  Halt       // Reason for halting, HALT_NONE while running.
	Ticks   int        // Executed instruction counter.

	source *Program // Program as loaded.
}

// NewCpu creates a new CPU running a copy of the program.
func NewCpu(prog *Program) (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Load(prog)

	return
}

// Load a program and reset the CPU state. The CPU keeps its own copy of
// the program, so tgl never modifies prog.
func (cpu *Cpu) Load(prog *Program) {
	cpu.source = prog
	cpu.Reset()
}

// Reset the CPU state.
// - Reloads a fresh copy of the program, discarding any tgl rewrites.
// - Clears the registers, output, and mutation history.
// - Zeros statistics counters.
// - Rewinds the output channel.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	if cpu.source != nil {
		cpu.Program = cpu.source.Clone()
	} else {
		cpu.Program = &Program{}
	}

	clear(cpu.Register[:])
	cpu.Ip = 0
	cpu.Output = nil
	cpu.History = nil
	cpu.Halted = HALT_NONE
	cpu.Ticks = 0

	if cpu.Channel != nil {
		cpu.Channel.Rewind()
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %d\n", "ip", cpu.Ip)
	for n, value := range cpu.Register {
		text += fmt.Sprintf("% 5s: %d\n", Register(n).String(), value)
	}
	text += fmt.Sprintf("% 5s: %v\n", "halt", cpu.Halted)

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (halt Halt, err error) {
	if cpu.Halted != HALT_NONE {
		halt = cpu.Halted
		return
	}

	if cpu.Program == nil {
		err = ErrProgramNil
		return
	}

	ins, ok := cpu.Program.Fetch(cpu.Ip)
	if !ok {
		if cpu.Verbose {
			log.Printf("cpu: ip %d outside program of %d", cpu.Ip, cpu.Program.Len())
		}
		cpu.Halted = HALT_RANGE
		halt = cpu.Halted
		return
	}

	err = cpu.Execute(ins)
	halt = cpu.Halted

	return
}

// Run ticks the CPU until it halts or fails.
func (cpu *Cpu) Run() (halt Halt, err error) {
	for halt == HALT_NONE {
		halt, err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction at the current ip.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(ins), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%03d: %v", cpu.Ip, ins)
	}

	next_ip := cpu.Ip + 1

	src, dst := ins.Arg[0], ins.Arg[1]

	switch ins.Op {
	case OP_NOP:
		// pass
	case OP_CPY:
		// Copying to an immediate does nothing.
		if dst.Writable() {
			cpu.Register[dst.Register] = cpu.getValue(src)
		}
	case OP_INC:
		if src.Writable() {
			cpu.Register[src.Register]++
		}
	case OP_DEC:
		if src.Writable() {
			cpu.Register[src.Register]--
		}
	case OP_JNZ:
		if cpu.getValue(src) != 0 {
			next_ip = cpu.Ip + int(cpu.getValue(dst))
		}
	case OP_TGL:
		if src.Writable() {
			cpu.toggle(cpu.Ip + int(cpu.Register[src.Register]))
		}
	case OP_ADD:
		if dst.Writable() {
			cpu.Register[dst.Register] += cpu.getValue(src)
		}
	case OP_OUT:
		value := cpu.getValue(src)
		if cpu.RepeatHalt && len(cpu.Output) > 0 && cpu.Output[len(cpu.Output)-1] == value {
			if cpu.Verbose {
				log.Printf("cpu: output %d repeated", value)
			}
			cpu.Halted = HALT_REPEAT
			return
		}
		if cpu.Channel != nil {
			err = cpu.Channel.Send(value)
			if err != nil {
				err = errors.Join(ErrChannel, err)
				return
			}
		}
		cpu.Output = append(cpu.Output, value)
	default:
		err = ErrOpcodeDecode
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks += 1

	return
}

// toggle rewrites the instruction at target using the flip table.
// A target outside the program is ignored.
func (cpu *Cpu) toggle(target int) {
	ins, ok := cpu.Program.Fetch(target)
	if !ok {
		if cpu.Verbose {
			log.Printf("cpu: tgl %d outside program", target)
		}
		return
	}

	flipped := ins.Toggle()
	cpu.Program.Replace(target, flipped)
	cpu.History = append(cpu.History, Mutation{
		Tick:   cpu.Ticks,
		Ip:     cpu.Ip,
		Target: target,
		From:   ins.Op,
		To:     flipped.Op,
	})
}

// getValue gets the value of an operand, based on CPU state.
func (cpu *Cpu) getValue(op Operand) int32 {
	if op.Immediate {
		return op.Value
	}

	return cpu.Register[op.Register]
}
