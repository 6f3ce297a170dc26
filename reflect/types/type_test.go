package types_test

import (
	"strings"
	"testing"

	"github.com/mna/reflectype/reflect/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdoptSetsParent(t *testing.T) {
	parent := types.New(types.KindArray)
	child := types.New(types.KindString)
	types.Adopt(parent, child, nil)
	assert.Same(t, parent, child.Parent)
}

func TestAdoptAll(t *testing.T) {
	parent := types.New(types.KindTuple)
	a := types.New(types.KindString)
	b := types.New(types.KindNumber)
	types.AdoptAll(parent, []*types.Type{a, b})
	assert.Same(t, parent, a.Parent)
	assert.Same(t, parent, b.Parent)
}

func TestAnnotate(t *testing.T) {
	n := types.New(types.KindString)
	n.Annotate("x", 1)
	n.Annotate("x", 2)
	require.Len(t, n.Annotations["x"], 2)
	assert.Equal(t, 1, n.Annotations["x"][0])
	assert.Equal(t, 2, n.Annotations["x"][1])
}

func TestCopyIntoPreservesParentIdentity(t *testing.T) {
	parent := types.New(types.KindArray)
	placeholder := types.New(types.KindInvalid)
	placeholder.Parent = parent

	src := types.New(types.KindString)
	src.Description = "resolved"

	placeholder.CopyInto(src)

	assert.Equal(t, types.KindString, placeholder.Kind)
	assert.Equal(t, "resolved", placeholder.Description)
	assert.Same(t, parent, placeholder.Parent)
}

func TestKindAndVisibilityString(t *testing.T) {
	assert.Equal(t, "string", types.KindString.String())
	assert.Contains(t, types.Kind(250).String(), "kind(250)")

	assert.Equal(t, "public", types.Public.String())
	assert.Equal(t, "protected", types.Protected.String())
	assert.Equal(t, "private", types.Private.String())
}

func TestTypeStringLiteralAndTypedArray(t *testing.T) {
	lit := types.New(types.KindLiteral)
	lit.Literal = "abc"
	assert.Equal(t, `literal(abc)`, lit.String())

	ta := types.New(types.KindTypedArray)
	ta.Variant = "Int8Array"
	assert.Equal(t, "Int8Array", ta.String())
}

func TestPrintIndentsChildren(t *testing.T) {
	arr := types.New(types.KindArray)
	elem := types.New(types.KindString)
	types.Adopt(arr, elem)
	arr.Elem = elem

	var sb strings.Builder
	require.NoError(t, types.Print(&sb, arr))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "array", lines[0])
	assert.Equal(t, ". string", lines[1])
}
