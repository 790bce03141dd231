package cpu

import (
	"fmt"
	"strings"
)

// Register is one of the four register slots.
type Register int

const (
	REG_A = Register(0) // a
	REG_B = Register(1) // b
	REG_C = Register(2) // c
	REG_D = Register(3) // d

	REG_COUNT = 4 // Number of registers.
)

var registerName = [REG_COUNT]string{"a", "b", "c", "d"}

func (reg Register) String() string {
	if reg < 0 || int(reg) >= len(registerName) {
		return fmt.Sprintf("Register(%d)", int(reg))
	}
	return registerName[reg]
}

// Registers is the register bank, indexed by Register.
type Registers [REG_COUNT]int32

// Operand is either an immediate value or a register reference.
type Operand struct {
	Immediate bool     // Set if Value holds the operand.
	Value     int32    // Immediate value.
	Register  Register // Register reference if not Immediate.
}

// Imm returns an immediate operand.
func Imm(value int32) Operand {
	return Operand{Immediate: true, Value: value}
}

// Reg returns a register reference operand.
func Reg(reg Register) Operand {
	return Operand{Register: reg}
}

// Writable returns true if the operand can be a destination.
func (op Operand) Writable() bool {
	return !op.Immediate
}

func (op Operand) String() string {
	if op.Immediate {
		return fmt.Sprintf("%d", op.Value)
	}
	return op.Register.String()
}

// Op is an instruction operation.
type Op int

const (
	OP_NOP = Op(0) // nop
	OP_CPY = Op(1) // cpy
	OP_INC = Op(2) // inc
	OP_DEC = Op(3) // dec
	OP_JNZ = Op(4) // jnz
	OP_TGL = Op(5) // tgl
	OP_ADD = Op(6) // add
	OP_OUT = Op(7) // out
)

var opName = map[Op]string{
	OP_NOP: "nop",
	OP_CPY: "cpy",
	OP_INC: "inc",
	OP_DEC: "dec",
	OP_JNZ: "jnz",
	OP_TGL: "tgl",
	OP_ADD: "add",
	OP_OUT: "out",
}

func (op Op) String() string {
	name, ok := opName[op]
	if !ok {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return name
}

// Args returns the number of operands taken by the operation.
func (op Op) Args() int {
	switch op {
	case OP_CPY, OP_JNZ, OP_ADD:
		return 2
	case OP_INC, OP_DEC, OP_TGL, OP_OUT:
		return 1
	}
	return 0
}

// toggleMap is the opcode flip table applied by tgl.
var toggleMap = map[Op]Op{
	OP_CPY: OP_JNZ,
	OP_INC: OP_DEC,
	OP_DEC: OP_INC,
	OP_JNZ: OP_CPY,
	OP_TGL: OP_INC,
}

// Toggled returns the operation that tgl turns op into.
// Operations outside the flip table are unchanged.
func (op Op) Toggled() Op {
	flip, ok := toggleMap[op]
	if !ok {
		return op
	}
	return flip
}

// Instruction is a single decoded line of a program.
type Instruction struct {
	LineNo int        // Source line number, 0 if built directly.
	Op     Op         // Operation.
	Arg    [2]Operand // Operands; only the first Op.Args() are used.
}

// MakeInstruction creates an instruction from an operation and its operands.
func MakeInstruction(op Op, args ...Operand) (ins Instruction) {
	ins.Op = op
	copy(ins.Arg[:], args)
	return
}

// Toggle returns the instruction with its operation flipped, and operands untouched.
func (ins Instruction) Toggle() Instruction {
	ins.Op = ins.Op.Toggled()
	return ins
}

// String returns the assembly language representation of this instruction.
func (ins Instruction) String() string {
	words := []string{ins.Op.String()}
	for n := range ins.Op.Args() {
		words = append(words, ins.Arg[n].String())
	}
	return strings.Join(words, " ")
}
