package cpu

import (
	"iter"
	"slices"
	"strings"
)

// Program is an ordered list of instructions. Instruction index is the
// address used by jumps and toggles.
type Program struct {
	Instructions []Instruction
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	return len(prog.Instructions)
}

// Clone returns a copy of the program that can be modified without
// altering the original.
func (prog *Program) Clone() *Program {
	return &Program{
		Instructions: slices.Clone(prog.Instructions),
	}
}

// Fetch returns the instruction at ip, if there is one.
func (prog *Program) Fetch(ip int) (ins Instruction, ok bool) {
	if ip < 0 || ip >= len(prog.Instructions) {
		return
	}

	return prog.Instructions[ip], true
}

// Replace the instruction at ip. Returns false if ip is not in the program.
func (prog *Program) Replace(ip int, ins Instruction) (ok bool) {
	if ip < 0 || ip >= len(prog.Instructions) {
		return
	}

	prog.Instructions[ip] = ins
	return true
}

// Codes returns an iterator over each ip and its instruction.
func (prog *Program) Codes() iter.Seq2[int, Instruction] {
	return slices.All(prog.Instructions)
}

// String returns the assembly listing, one instruction per line.
func (prog *Program) String() string {
	lines := make([]string, 0, len(prog.Instructions))
	for _, ins := range prog.Codes() {
		lines = append(lines, ins.String())
	}
	return strings.Join(lines, "\n")
}
