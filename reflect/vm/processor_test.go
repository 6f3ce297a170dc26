package vm_test

import (
	"testing"

	"github.com/mna/reflectype/reflect/codec"
	"github.com/mna/reflectype/reflect/host"
	"github.com/mna/reflectype/reflect/types"
	"github.com/mna/reflectype/reflect/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubValue is a minimal host.Value for tests.
type stubValue struct {
	name    string
	packed  *codec.Packed
	hasProg bool
}

func newStub(name string, p *codec.Packed) *stubValue {
	return &stubValue{name: name, packed: p, hasProg: p != nil}
}

func (s *stubValue) Program() (*codec.Packed, bool)       { return s.packed, s.hasProg }
func (s *stubValue) Name() string                         { return s.name }
func (s *stubValue) Decorators() []host.DecoratorRecord    { return nil }

func asmType(t *testing.T, src string) (*types.Type, error) {
	t.Helper()
	p, err := codec.Asm(src)
	require.NoError(t, err)
	proc := &vm.Processor{}
	obj := newStub("fixture", p)
	return proc.Reflect(obj, nil)
}

func TestReflectPrimitiveWiden(t *testing.T) {
	// widen replaces the literal with string, but a program's terminal result
	// is narrowed back to the original literal when the program finishes.
	got, err := asmType(t, `
stack:
	string "abc"
ops:
	literal 0
	widen
`)
	require.NoError(t, err)
	assert.Equal(t, types.KindLiteral, got.Kind)
}

func TestReflectPrimitiveDirect(t *testing.T) {
	got, err := asmType(t, `
ops:
	primitive 1
`)
	require.NoError(t, err)
	assert.Equal(t, types.KindString, got.Kind)
}

func TestReflectUnionNormalizes(t *testing.T) {
	got, err := asmType(t, `
ops:
	frame
	primitive 1
	primitive 2
	primitive 1
	union
`)
	require.NoError(t, err)
	require.Equal(t, types.KindUnion, got.Kind)
	assert.Len(t, got.Members, 2)
}

func TestReflectObjectLiteralProperty(t *testing.T) {
	got, err := asmType(t, `
stack:
	name "a"
ops:
	frame
	primitive 2
	property 0
	objectLiteral
`)
	require.NoError(t, err)
	require.Equal(t, types.KindObjectLiteral, got.Kind)
	require.Len(t, got.Members, 1)
	assert.Equal(t, "a", got.Members[0].Name)
	assert.Equal(t, types.KindNumber, got.Members[0].Elem.Kind)
}

func TestReflectExtends(t *testing.T) {
	got, err := asmType(t, `
ops:
	primitive 1
	primitive 1
	extends
`)
	require.NoError(t, err)
	require.Equal(t, types.KindLiteral, got.Kind)
	assert.Equal(t, true, got.Literal)
}

func TestReflectArray(t *testing.T) {
	got, err := asmType(t, `
ops:
	primitive 2
	array
`)
	require.NoError(t, err)
	require.Equal(t, types.KindArray, got.Kind)
	assert.Equal(t, types.KindNumber, got.Elem.Kind)
}

func TestReflectMissingProgram(t *testing.T) {
	proc := &vm.Processor{}
	obj := newStub("nope", nil)
	_, err := proc.Reflect(obj, nil)
	assert.ErrorIs(t, err, vm.ErrMissingProgram)
}

func TestReflectCachesNonGenericResult(t *testing.T) {
	p, err := codec.Asm("ops:\n\tprimitive 1\n")
	require.NoError(t, err)
	proc := &vm.Processor{}
	obj := newStub("fixture", p)

	first, err := proc.Reflect(obj, nil)
	require.NoError(t, err)
	second, err := proc.Reflect(obj, nil)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestReflectConditionalDistribute(t *testing.T) {
	// `T extends string ? "yes" : "no"` distributed over `string | number`.
	// The body (indices 2-10) is skipped over on first fall-through and
	// reached only via distribute's call(2, -1); distribute sits last so
	// its exhausted fall-through coincides with the program's end.
	got, err := asmType(t, `
stack:
	string "yes"
	string "no"
ops:
	var
	jump 11
	loads 1 0
	primitive 1
	extends
	jumpCondition 7 9
	return
	literal 0
	return
	literal 1
	return
	frame
	primitive 1
	primitive 2
	union
	distribute 2
`)
	require.NoError(t, err)
	require.Equal(t, types.KindUnion, got.Kind)
	assert.Len(t, got.Members, 2)
}
