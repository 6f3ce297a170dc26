package codec_test

import (
	"testing"

	"github.com/mna/reflectype/reflect/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsmBasic(t *testing.T) {
	src := `
stack:
	string "abc"
ops:
	literal 0
	widen
`
	p, err := codec.Asm(src)
	require.NoError(t, err)
	assert.Equal(t, []any{"abc"}, p.Stack())

	ops, err := p.Unpack()
	require.NoError(t, err)
	assert.Equal(t, []codec.Instruction{
		{Op: codec.OpLiteral, Args: []uint32{0}},
		{Op: codec.OpWiden},
	}, ops)
}

func TestAsmRejectsUnknownMnemonic(t *testing.T) {
	src := `
stack:
	int 1
ops:
	constant 0
	jump 3
`
	_, err := codec.Asm(src)
	assert.Error(t, err, "constant is not a known mnemonic in this opcode set")
}

func TestAsmRejectsBadArity(t *testing.T) {
	_, err := codec.Asm("ops:\n\tinfer 1\n")
	assert.Error(t, err)
}

func TestAsmAndDisasm(t *testing.T) {
	src := "ops:\n\tvar\n\tunion\n"
	p, err := codec.Asm(src)
	require.NoError(t, err)
	out, err := codec.Disasm(p)
	require.NoError(t, err)
	assert.Contains(t, out, "var")
	assert.Contains(t, out, "union")
}
