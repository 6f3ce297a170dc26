package vm_test

import (
	"testing"

	"github.com/mna/reflectype/reflect/codec"
	"github.com/mna/reflectype/reflect/infer"
	"github.com/mna/reflectype/reflect/types"
	"github.com/mna/reflectype/reflect/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asmTypeWithInputs is asmType, but threading explicit instantiation inputs
// through to Reflect instead of hardcoding nil (needed for a generic
// program, where asmType alone can't exercise the instantiated path).
func asmTypeWithInputs(t *testing.T, src string, inputs []*types.Type) (*types.Type, error) {
	t.Helper()
	p, err := codec.Asm(src)
	require.NoError(t, err)
	proc := &vm.Processor{}
	obj := newStub("fixture", p)
	return proc.Reflect(obj, inputs)
}

// S1: a union flattens its members rather than nesting unions of unions.
func TestScenarioUnionFlattens(t *testing.T) {
	got, err := asmType(t, `
stack:
	string "abc"
ops:
	frame
	primitive 1
	literal 0
	union
`)
	require.NoError(t, err)
	require.Equal(t, types.KindUnion, got.Kind)
	require.Len(t, got.Members, 2)
	assert.Equal(t, types.KindString, got.Members[0].Kind)
	assert.Equal(t, types.KindLiteral, got.Members[1].Kind)
	assert.Equal(t, "abc", got.Members[1].Literal)
}

// S2: a self-referential alias (`type Node = { next: Node }`) resolves to a
// cyclic graph where the property's element is the very type being built,
// not a copy of it.
func TestScenarioCyclicSelfReference(t *testing.T) {
	got, err := asmType(t, `
stack:
	name "next"
ops:
	frame
	inline 0
	property 0
	objectLiteral
`)
	require.NoError(t, err)
	require.Equal(t, types.KindObjectLiteral, got.Kind)
	require.Len(t, got.Members, 1)
	assert.Same(t, got, got.Members[0].Elem)
}

// S3: a generic `Pick`-shaped mapped type instantiated with a concrete type
// argument rebuilds the argument's own property shape through `keyof` +
// indexed access, proving typeParameter instantiation arguments survive
// into the mapped-type body.
func TestScenarioGenericMappedType(t *testing.T) {
	propA := types.New(types.KindPropertySignature)
	propA.Name = "a"
	propA.Elem = types.New(types.KindNumber)
	propB := types.New(types.KindPropertySignature)
	propB.Name = "b"
	propB.Elem = types.New(types.KindString)
	tType := types.New(types.KindObjectLiteral)
	tType.Members = []*types.Type{propA, propB}
	types.AdoptAll(tType, tType.Members)

	got, err := asmTypeWithInputs(t, `
stack:
	name "T"
ops:
	typeParameter 0
	frame
	var
	jump 8
	loads 2 0
	loads 1 0
	indexAccess
	return
	loads 1 0
	keyof
	mappedType 4 0
	moveFrame
`, []*types.Type{tType})
	require.NoError(t, err)
	require.Equal(t, types.KindObjectLiteral, got.Kind)
	require.Len(t, got.Members, 2)
	byName := map[string]*types.Type{}
	for _, m := range got.Members {
		byName[m.Name] = m
	}
	require.Contains(t, byName, "a")
	require.Contains(t, byName, "b")
	assert.Equal(t, types.KindNumber, byName["a"].Elem.Kind)
	assert.Equal(t, types.KindString, byName["b"].Elem.Kind)
}

// S4: `NonNull<T> = T extends null | undefined ? never : T` distributed
// over `string | null` drops the null branch and collapses the remaining
// single member down to plain `string`.
func TestScenarioDistributiveNonNull(t *testing.T) {
	got, err := asmType(t, `
ops:
	var
	jump 14
	loads 1 0
	frame
	primitive 6
	primitive 7
	union
	extends
	jumpCondition 10 12
	return
	primitive 11
	return
	loads 2 0
	return
	frame
	primitive 1
	primitive 6
	union
	distribute 2
`)
	require.NoError(t, err)
	require.Equal(t, types.KindString, got.Kind)
}

// S5: value inference widens scalars read out of a field or a container to
// their base kind rather than preserving the narrow literal.
type scenarioFielder struct {
	fields []infer.Field
}

func (f scenarioFielder) Fields() []infer.Field { return f.fields }

func TestScenarioValueInferWidensObjectFields(t *testing.T) {
	proc := &vm.Processor{}
	val := scenarioFielder{fields: []infer.Field{
		{Name: "x", Value: float64(1)},
		{Name: "y", Value: "s"},
	}}
	got, err := proc.ResolveRuntimeType(val, nil)
	require.NoError(t, err)
	require.Equal(t, types.KindObjectLiteral, got.Kind)
	require.Len(t, got.Members, 2)
	assert.Equal(t, "x", got.Members[0].Name)
	assert.Equal(t, types.KindNumber, got.Members[0].Elem.Kind)
	assert.Equal(t, "y", got.Members[1].Name)
	assert.Equal(t, types.KindString, got.Members[1].Elem.Kind)
}

func TestScenarioValueInferWidensArrayElements(t *testing.T) {
	proc := &vm.Processor{}
	got, err := proc.ResolveRuntimeType([]any{float64(1), float64(2)}, nil)
	require.NoError(t, err)
	require.Equal(t, types.KindArray, got.Kind)
	assert.Equal(t, types.KindNumber, got.Elem.Kind)
}

// S6: `keyof { a: 1, b: 2 }` is the union of its property names as string
// literals.
func TestScenarioKeyofUnion(t *testing.T) {
	got, err := asmType(t, `
stack:
	name "a"
	name "b"
ops:
	frame
	primitive 2
	property 0
	primitive 2
	property 1
	objectLiteral
	keyof
`)
	require.NoError(t, err)
	require.Equal(t, types.KindUnion, got.Kind)
	require.Len(t, got.Members, 2)
	names := map[string]bool{}
	for _, m := range got.Members {
		require.Equal(t, types.KindLiteral, m.Kind)
		s, _ := m.Literal.(string)
		names[s] = true
	}
	assert.True(t, names["a"])
	assert.True(t, names["b"])
}
