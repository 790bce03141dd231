// Package cpu implements the register machine and assembler for assembunny
// programs.
//
// The machine has four signed 32-bit registers (a-d) and an instruction
// pointer (IP) indexing a program of decoded instructions. Each tick fetches
// the instruction at IP, applies it, and moves IP to the next instruction or
// to a relative jump target. Running IP off either end of the program is the
// normal way a program halts.
//
// The toggle instruction (tgl) rewrites another instruction in place, so the
// CPU works on its own copy of the program. The output instruction (out)
// emits values, and may optionally halt the machine when a value repeats.
//
// The assembler parses one instruction per line, with operands that are
// registers, integer literals, or compile-time $(...) expressions.
package cpu
