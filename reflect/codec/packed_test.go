package codec_test

import (
	"testing"

	"github.com/mna/reflectype/reflect/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackEncodeRoundTrip(t *testing.T) {
	ops := []codec.Instruction{
		{Op: codec.OpPrimitive, Args: []uint32{3}},
		{Op: codec.OpLiteral, Args: []uint32{0}},
		{Op: codec.OpUnion},
		{Op: codec.OpJump, Args: []uint32{7}},
	}
	s, err := codec.EncodeOps(ops)
	require.NoError(t, err)

	got, err := codec.UnpackOps(s)
	require.NoError(t, err)
	assert.Equal(t, ops, got)
}

func TestPackedUnpackMemoized(t *testing.T) {
	p := codec.New(nil, mustEncode(t, []codec.Instruction{{Op: codec.OpVar}}))
	a, err := p.Unpack()
	require.NoError(t, err)
	b, err := p.Unpack()
	require.NoError(t, err)
	// memoized: same underlying decode, not necessarily same slice header,
	// but must be equal and computed only once (exercised via -race in CI).
	assert.Equal(t, a, b)
}

func TestUnpackOpsRejectsTruncatedOperands(t *testing.T) {
	s, err := codec.EncodeOps([]codec.Instruction{{Op: codec.OpInfer, Args: []uint32{1, 2}}})
	require.NoError(t, err)
	// drop the last operand char
	_, err = codec.UnpackOps(s[:len(s)-1])
	assert.Error(t, err)
}

func TestEncodeOpsRejectsWrongArity(t *testing.T) {
	_, err := codec.EncodeOps([]codec.Instruction{{Op: codec.OpInfer, Args: []uint32{1}}})
	assert.Error(t, err)
}

func TestCachedTypeSetOnce(t *testing.T) {
	p := codec.New(nil, "")
	p.SetCachedType("first")
	p.SetCachedType("second")
	v, ok := p.CachedType()
	require.True(t, ok)
	assert.Equal(t, "first", v)
}

func mustEncode(t *testing.T, ops []codec.Instruction) string {
	t.Helper()
	s, err := codec.EncodeOps(ops)
	require.NoError(t, err)
	return s
}
