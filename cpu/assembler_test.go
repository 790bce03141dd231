package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, prog.Len())
}

func TestAssemblerOperands(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	program := []string{
		"cpy 41 a",
		"cpy b c",
		"inc a",
		"dec d",
		"jnz a 2",
		"jnz 1 c",
		"tgl c",
		"add -3 b",
		"out a",
		"out 16",
		"nop",
		"  cpy  +5   b  ",
		"cpy 010 a",
		"cpy -007 c",
	}

	prog, err := asm.ParseLines(program)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := []Instruction{
		{1, OP_CPY, [2]Operand{Imm(41), Reg(REG_A)}},
		{2, OP_CPY, [2]Operand{Reg(REG_B), Reg(REG_C)}},
		{3, OP_INC, [2]Operand{Reg(REG_A)}},
		{4, OP_DEC, [2]Operand{Reg(REG_D)}},
		{5, OP_JNZ, [2]Operand{Reg(REG_A), Imm(2)}},
		{6, OP_JNZ, [2]Operand{Imm(1), Reg(REG_C)}},
		{7, OP_TGL, [2]Operand{Reg(REG_C)}},
		{8, OP_ADD, [2]Operand{Imm(-3), Reg(REG_B)}},
		{9, OP_OUT, [2]Operand{Reg(REG_A)}},
		{10, OP_OUT, [2]Operand{Imm(16)}},
		{11, OP_NOP, [2]Operand{}},
		{12, OP_CPY, [2]Operand{Imm(5), Reg(REG_B)}},
		{13, OP_CPY, [2]Operand{Imm(10), Reg(REG_A)}},
		{14, OP_CPY, [2]Operand{Imm(-7), Reg(REG_C)}},
	}

	assert.Equal(len(program), prog.Len())
	assert.Equal(expected, prog.Instructions)
}

func TestAssemblerExpression(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.ParseLines([]string{
		"cpy $(7 * 6) a",
		"jnz a $(-(1 + 1))",
		"cpy $(LINENO) b",
	})
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
		return
	}

	assert.Equal(Imm(42), prog.Instructions[0].Arg[0])
	assert.Equal(Imm(-2), prog.Instructions[1].Arg[1])
	assert.Equal(Imm(3), prog.Instructions[2].Arg[0])

	_, err = asm.ParseLines([]string{"cpy $(1 << 40) a"})
	assert.True(errors.Is(err, ErrParseExpression("1 << 40")), err)

	_, err = asm.ParseLines([]string{"cpy $(\"a\") a"})
	assert.Error(err)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		dialect Dialect
		line    string
		err     error
	}){
		{"empty", DIALECT_ALL, "", ErrOpcodeMissing},
		{"opcode", DIALECT_ALL, "mul a b", ErrOpcodeInvalid},
		{"register", DIALECT_ALL, "inc e", ErrRegisterInvalid},
		{"register_src", DIALECT_ALL, "cpy x a", ErrRegisterInvalid},
		{"missing", DIALECT_ALL, "cpy 1", ErrOpcodeValueMissing},
		{"extra", DIALECT_ALL, "inc a b", ErrOpcodeExtraArgs},
		{"inc_imm", DIALECT_ALL, "inc 1", ErrTargetInvalid},
		{"add_imm", DIALECT_ALL, "add a 1", ErrTargetInvalid},
		{"number", DIALECT_ALL, "cpy 12z a", ErrParseNumber("12z")},
		{"range", DIALECT_ALL, "cpy 4294967296 a", ErrParseNumber("4294967296")},
		{"hex", DIALECT_ALL, "cpy 0x10 a", ErrParseNumber("0x10")},
		{"binary", DIALECT_ALL, "cpy 0b11 a", ErrParseNumber("0b11")},
		{"octal", DIALECT_ALL, "out 0o7", ErrParseNumber("0o7")},
		{"underscore", DIALECT_ALL, "cpy 1_0 a", ErrParseNumber("1_0")},
		{"base_tgl", DIALECT_BASE, "tgl a", ErrOpcodeDialect},
		{"base_out", DIALECT_BASE, "out a", ErrOpcodeDialect},
		{"base_cpy_imm", DIALECT_BASE, "cpy 1 2", ErrTargetInvalid},
		{"base_jnz_reg", DIALECT_BASE, "jnz a b", ErrOffsetInvalid},
		{"toggle_add", DIALECT_TOGGLE, "add 1 a", ErrOpcodeDialect},
		{"clock_tgl", DIALECT_CLOCK, "tgl a", ErrOpcodeDialect},
	}

	for _, entry := range table {
		asm := &Assembler{Dialect: entry.dialect}
		prog, err := asm.ParseLines([]string{"inc a", entry.line})
		assert.Nil(prog, entry.name)
		assert.True(errors.Is(err, entry.err), "%v: %v", entry.name, err)

		var syntax *ErrSyntax
		if assert.True(errors.As(err, &syntax), entry.name) {
			assert.Equal(2, syntax.LineNo, entry.name)
		}
	}
}

func TestAssemblerDialect(t *testing.T) {
	assert := assert.New(t)

	toggle := &Assembler{Dialect: DIALECT_TOGGLE}
	prog, err := toggle.ParseLines([]string{"cpy 1 2", "jnz 1 a", "tgl b"})
	assert.NoError(err)
	assert.Equal(Imm(2), prog.Instructions[0].Arg[1])

	clock := &Assembler{Dialect: DIALECT_CLOCK}
	_, err = clock.ParseLines([]string{"add a b", "out b", "nop"})
	assert.NoError(err)

	for _, name := range []string{"all", "base", "toggle", "clock"} {
		dialect, err := ParseDialect(name)
		assert.NoError(err)
		assert.Equal(name, dialect.String())
	}

	assert.Equal("Dialect(9)", Dialect(9).String())

	_, err = ParseDialect("turbo")
	assert.True(errors.Is(err, ErrDialectInvalid))
}

func TestAssemblerParseReader(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("cpy 41 a\r\ninc a\ninc a\ndec a\njnz a 2\ndec a\n"))
	assert.NoError(err)
	assert.Equal(6, prog.Len())
	assert.Equal(5, prog.Instructions[4].LineNo)
	assert.Equal(6, len(asm.Instructions))
}
