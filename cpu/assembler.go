// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Dialect selects the instruction set accepted by the assembler.
type Dialect int

const (
	DIALECT_ALL    = Dialect(0) // all
	DIALECT_BASE   = Dialect(1) // base
	DIALECT_TOGGLE = Dialect(2) // toggle
	DIALECT_CLOCK  = Dialect(3) // clock
)

var dialectName = map[string]Dialect{
	"all":    DIALECT_ALL,
	"base":   DIALECT_BASE,
	"toggle": DIALECT_TOGGLE,
	"clock":  DIALECT_CLOCK,
}

// dialectOps lists the operations of each restricted dialect.
var dialectOps = map[Dialect][]Op{
	DIALECT_BASE:   {OP_CPY, OP_INC, OP_DEC, OP_JNZ},
	DIALECT_TOGGLE: {OP_CPY, OP_INC, OP_DEC, OP_JNZ, OP_TGL},
	DIALECT_CLOCK:  {OP_NOP, OP_CPY, OP_INC, OP_DEC, OP_JNZ, OP_ADD, OP_OUT},
}

// ParseDialect returns the dialect with the given name.
func ParseDialect(name string) (dialect Dialect, err error) {
	dialect, ok := dialectName[name]
	if !ok {
		err = errors.Join(ErrDialectInvalid, ErrParseValue(name))
	}
	return
}

var dialectString = [...]string{"all", "base", "toggle", "clock"}

func (dialect Dialect) String() string {
	if dialect < 0 || int(dialect) >= len(dialectString) {
		return fmt.Sprintf("Dialect(%d)", int(dialect))
	}
	return dialectString[dialect]
}

// Has returns true if the dialect includes the operation.
func (dialect Dialect) Has(op Op) bool {
	if dialect == DIALECT_ALL {
		_, ok := opName[op]
		return ok
	}
	return slices.Contains(dialectOps[dialect], op)
}

// Assembler parses assembunny source into a Program.
type Assembler struct {
	Verbose      bool          // If set, verbosely logs the assembler actions.
	Dialect      Dialect       // Instruction set to accept.
	Instructions []Instruction // List of generated instructions.
}

// opMap maps mnemonics to operations.
var opMap = map[string]Op{
	"nop": OP_NOP,
	"cpy": OP_CPY,
	"inc": OP_INC,
	"dec": OP_DEC,
	"jnz": OP_JNZ,
	"tgl": OP_TGL,
	"add": OP_ADD,
	"out": OP_OUT,
}

// registerMap maps register names to registers.
var registerMap = map[string]Register{
	"a": REG_A,
	"b": REG_B,
	"c": REG_C,
	"d": REG_D,
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// valueOf returns the value of a signed decimal integer literal.
func (asm *Assembler) valueOf(word string) (value int32, err error) {
	v64, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value, err = safecast.Convert[int32](v64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// isNumeric returns true if the word should be parsed as a literal.
func isNumeric(word string) bool {
	c := word[0]
	return c == '-' || c == '+' || (c >= '0' && c <= '9')
}

// operand parses a register name or an immediate value.
func (asm *Assembler) operand(word string) (op Operand, err error) {
	reg, ok := registerMap[word]
	if ok {
		op = Reg(reg)
		return
	}

	if !isNumeric(word) {
		err = errors.Join(ErrRegisterInvalid, ErrParseValue(word))
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	op = Imm(value)
	return
}

// register parses an operand that must be a register.
func (asm *Assembler) register(word string) (op Operand, err error) {
	op, err = asm.operand(word)
	if err != nil {
		return
	}

	if !op.Writable() {
		err = ErrTargetInvalid
		return
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string, lineno int) (value int32, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"LINENO": starlark.MakeInt(lineno),
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, err = safecast.Convert[int32](st_int64)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	return
}

// expand replaces each $(...) in the line with its evaluated value.
func (asm *Assembler) expand(line string, lineno int) (out string, err error) {
	out = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2:len(str)-1], lineno)
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return strconv.Itoa(int(value))
	})
	return
}

// parseLine parses a single line as an instruction.
func (asm *Assembler) parseLine(line string, lineno int) (ins Instruction, err error) {
	line, err = asm.expand(line, lineno)
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		err = ErrOpcodeMissing
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	if !asm.Dialect.Has(op) {
		err = ErrOpcodeDialect
		return
	}

	args := words[1:]
	switch {
	case len(args) < op.Args():
		err = ErrOpcodeValueMissing
		return
	case len(args) > op.Args():
		err = ErrOpcodeExtraArgs
		return
	}

	ins.LineNo = lineno
	ins.Op = op

	// Per-operand parsers for this operation.
	var parse [2](func(word string) (Operand, error))
	switch op {
	case OP_NOP:
	case OP_INC, OP_DEC, OP_TGL:
		parse[0] = asm.register
	case OP_OUT:
		parse[0] = asm.operand
	case OP_CPY:
		parse[0] = asm.operand
		parse[1] = asm.operand
		if asm.Dialect == DIALECT_BASE {
			parse[1] = asm.register
		}
	case OP_JNZ:
		parse[0] = asm.operand
		parse[1] = asm.operand
		if asm.Dialect == DIALECT_BASE {
			parse[1] = asm.offset
		}
	case OP_ADD:
		parse[0] = asm.operand
		parse[1] = asm.register
	}

	argErr := [2]error{ErrOpcodeArg1, ErrOpcodeArg2}
	for n, word := range args {
		ins.Arg[n], err = parse[n](word)
		if err != nil {
			err = errors.Join(argErr[n], err)
			return
		}
	}

	return
}

// offset parses an operand that must be an immediate.
func (asm *Assembler) offset(word string) (op Operand, err error) {
	op, err = asm.operand(word)
	if err != nil {
		return
	}

	if !op.Immediate {
		err = ErrOffsetInvalid
		return
	}

	return
}

// ParseLines parses one instruction per line into a Program.
// No partial program is returned on error.
func (asm *Assembler) ParseLines(lines []string) (prog *Program, err error) {
	asm.Instructions = asm.Instructions[:0]

	for n, text := range lines {
		lineno := n + 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line := strings.TrimSpace(text)

		var ins Instruction
		ins, err = asm.parseLine(line, lineno)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}

		asm.Instructions = append(asm.Instructions, ins)
	}

	prog = &Program{
		Instructions: slices.Clone(asm.Instructions),
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	return asm.ParseLines(lines)
}
