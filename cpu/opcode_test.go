package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpToggled(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op     Op
		toggle Op
	}){
		{OP_CPY, OP_JNZ},
		{OP_INC, OP_DEC},
		{OP_DEC, OP_INC},
		{OP_JNZ, OP_CPY},
		{OP_TGL, OP_INC},
		{OP_NOP, OP_NOP},
		{OP_ADD, OP_ADD},
		{OP_OUT, OP_OUT},
	}

	for _, entry := range table {
		assert.Equal(entry.toggle, entry.op.Toggled(), entry.op.String())
	}
}

func TestOpToggledTwice(t *testing.T) {
	assert := assert.New(t)

	for _, op := range []Op{OP_CPY, OP_INC, OP_DEC, OP_JNZ} {
		assert.Equal(op, op.Toggled().Toggled(), op.String())
	}

	// tgl is not restored by a second toggle.
	assert.Equal(OP_DEC, OP_TGL.Toggled().Toggled())
}

func TestInstructionToggleKeepsOperands(t *testing.T) {
	assert := assert.New(t)

	cpy := MakeInstruction(OP_CPY, Imm(41), Reg(REG_B))
	jnz := cpy.Toggle()
	assert.Equal(OP_JNZ, jnz.Op)
	assert.Equal(cpy.Arg, jnz.Arg)
	assert.Equal(cpy, jnz.Toggle())

	tgl := MakeInstruction(OP_TGL, Reg(REG_C))
	inc := tgl.Toggle()
	assert.Equal(OP_INC, inc.Op)
	assert.Equal(Reg(REG_C), inc.Arg[0])
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("cpy 41 a", MakeInstruction(OP_CPY, Imm(41), Reg(REG_A)).String())
	assert.Equal("jnz c -2", MakeInstruction(OP_JNZ, Reg(REG_C), Imm(-2)).String())
	assert.Equal("inc d", MakeInstruction(OP_INC, Reg(REG_D)).String())
	assert.Equal("out b", MakeInstruction(OP_OUT, Reg(REG_B)).String())
	assert.Equal("nop", MakeInstruction(OP_NOP).String())
	assert.Equal("Op(42)", Op(42).String())
	assert.Equal("Register(9)", Register(9).String())
}

func TestOperand(t *testing.T) {
	assert := assert.New(t)

	assert.True(Reg(REG_A).Writable())
	assert.False(Imm(0).Writable())
	assert.Equal("-7", Imm(-7).String())
	assert.Equal("d", Reg(REG_D).String())
}
