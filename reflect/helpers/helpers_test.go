package helpers_test

import (
	"testing"

	"github.com/mna/reflectype/reflect/helpers"
	"github.com/mna/reflectype/reflect/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strLit(s string) *types.Type {
	t := types.New(types.KindLiteral)
	t.Literal = s
	return t
}

func TestNormalizeUnionFlattensDedupsDropsNever(t *testing.T) {
	a := types.New(types.KindString)
	inner := types.New(types.KindUnion)
	inner.Members = []*types.Type{types.New(types.KindNumber), types.New(types.KindNever)}
	got := helpers.NormalizeUnion([]*types.Type{a, inner, types.New(types.KindString)})

	require.Equal(t, types.KindUnion, got.Kind)
	assert.Len(t, got.Members, 2)
	assert.True(t, helpers.IsTypeIncluded(got.Members, types.New(types.KindString)))
	assert.True(t, helpers.IsTypeIncluded(got.Members, types.New(types.KindNumber)))
}

func TestNormalizeUnionUnboxesSingleton(t *testing.T) {
	got := helpers.NormalizeUnion([]*types.Type{types.New(types.KindNever), types.New(types.KindString)})
	assert.Equal(t, types.KindString, got.Kind)
}

func TestNormalizeUnionAllNeverYieldsNever(t *testing.T) {
	got := helpers.NormalizeUnion([]*types.Type{types.New(types.KindNever), types.New(types.KindNever)})
	assert.Equal(t, types.KindNever, got.Kind)
}

func TestWidenAndNarrowLiteral(t *testing.T) {
	lit := strLit("abc")
	widened := helpers.WidenLiteral(lit)
	assert.Equal(t, types.KindString, widened.Kind)

	back := helpers.NarrowOriginalLiteral(widened)
	assert.Equal(t, types.KindLiteral, back.Kind)
	assert.Equal(t, "abc", back.Literal)
}

func TestWidenNonLiteralIsNoop(t *testing.T) {
	s := types.New(types.KindString)
	assert.Same(t, s, helpers.WidenLiteral(s))
}

func TestIsExtendableLiteralToBase(t *testing.T) {
	assert.True(t, helpers.IsExtendable(strLit("abc"), types.New(types.KindString)))
	assert.False(t, helpers.IsExtendable(strLit("abc"), types.New(types.KindNumber)))
}

func TestIsExtendableNeverExtendsEverything(t *testing.T) {
	assert.True(t, helpers.IsExtendable(types.New(types.KindNever), types.New(types.KindString)))
}

func TestIsExtendableUnionLeftRequiresAll(t *testing.T) {
	u := types.New(types.KindUnion)
	u.Members = []*types.Type{types.New(types.KindString), types.New(types.KindNumber)}
	assert.False(t, helpers.IsExtendable(u, types.New(types.KindString)))
}

func TestIsExtendableUnionRightRequiresAny(t *testing.T) {
	u := types.New(types.KindUnion)
	u.Members = []*types.Type{types.New(types.KindString), types.New(types.KindNumber)}
	assert.True(t, helpers.IsExtendable(types.New(types.KindString), u))
}

func TestIsExtendableObjectLiteralStructural(t *testing.T) {
	mkProp := func(name string, elem types.Kind, optional bool) *types.Type {
		p := types.New(types.KindProperty)
		p.Name = name
		p.Elem = types.New(elem)
		p.Optional = optional
		return p
	}
	left := types.New(types.KindObjectLiteral)
	left.Members = []*types.Type{mkProp("a", types.KindNumber, false), mkProp("b", types.KindString, false)}
	right := types.New(types.KindObjectLiteral)
	right.Members = []*types.Type{mkProp("a", types.KindNumber, false)}

	assert.True(t, helpers.IsExtendable(left, right))
	assert.False(t, helpers.IsExtendable(right, left))
}

func TestMergeOverridesByNameAndConcatsIndexSignatures(t *testing.T) {
	mkProp := func(name string, elem types.Kind) *types.Type {
		p := types.New(types.KindProperty)
		p.Name = name
		p.Elem = types.New(elem)
		return p
	}
	a := types.New(types.KindObjectLiteral)
	a.Members = []*types.Type{mkProp("x", types.KindNumber)}
	b := types.New(types.KindObjectLiteral)
	b.Members = []*types.Type{mkProp("x", types.KindString), mkProp("y", types.KindBoolean)}

	merged := helpers.Merge([]*types.Type{a, b})
	require.Len(t, merged.Members, 2)
	assert.Equal(t, types.KindString, helpers.GetMember(merged, "x").Elem.Kind)
	assert.Equal(t, types.KindBoolean, helpers.GetMember(merged, "y").Elem.Kind)
}

func TestMergeFallsBackToFirstCandidateWhenNothingMergeable(t *testing.T) {
	a := types.New(types.KindNumber)
	b := types.New(types.KindString)
	assert.Same(t, a, helpers.Merge([]*types.Type{a, b}))
}

func TestIndexAccessObjectLiteralByLiteralName(t *testing.T) {
	p := types.New(types.KindProperty)
	p.Name = "a"
	p.Elem = types.New(types.KindNumber)
	obj := types.New(types.KindObjectLiteral)
	obj.Members = []*types.Type{p}

	got, err := helpers.IndexAccess(obj, strLit("a"))
	require.NoError(t, err)
	assert.Equal(t, types.KindNumber, got.Kind)
}

func TestIndexAccessMissingMemberErrors(t *testing.T) {
	obj := types.New(types.KindObjectLiteral)
	_, err := helpers.IndexAccess(obj, strLit("missing"))
	assert.Error(t, err)
}

func TestIndexAccessDistributesOverUnionKey(t *testing.T) {
	pa := types.New(types.KindProperty)
	pa.Name, pa.Elem = "a", types.New(types.KindNumber)
	pb := types.New(types.KindProperty)
	pb.Name, pb.Elem = "b", types.New(types.KindString)
	obj := types.New(types.KindObjectLiteral)
	obj.Members = []*types.Type{pa, pb}

	key := types.New(types.KindUnion)
	key.Members = []*types.Type{strLit("a"), strLit("b")}

	got, err := helpers.IndexAccess(obj, key)
	require.NoError(t, err)
	require.Equal(t, types.KindUnion, got.Kind)
	assert.Len(t, got.Members, 2)
}

func TestTypeDecoratorRegistryClassify(t *testing.T) {
	var reg helpers.TypeDecoratorRegistry
	reg.Register(func(candidate *types.Type) (string, bool) {
		if helpers.GetMember(candidate, "validate") != nil {
			return "validation", true
		}
		return "", false
	})

	marker := types.New(types.KindProperty)
	marker.Name = "validate"
	candidate := types.New(types.KindObjectLiteral)
	candidate.Members = []*types.Type{marker}

	key, ok := reg.Classify(candidate)
	assert.True(t, ok)
	assert.Equal(t, "validation", key)

	_, ok = reg.Classify(types.New(types.KindObjectLiteral))
	assert.False(t, ok)
}
