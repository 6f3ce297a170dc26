package helpers

import "github.com/mna/reflectype/reflect/types"

const originalLiteralKey = "_originalLiteral"

// WidenLiteral replaces a literal type with its base primitive kind:
// "abc" -> string, 42 -> number, true -> boolean. Non-literal inputs are
// returned unchanged. The original literal node is preserved as metadata so
// NarrowOriginalLiteral can undo the widening for a program's terminal
// result.
func WidenLiteral(t *types.Type) *types.Type {
	if t == nil || t.Kind != types.KindLiteral {
		return t
	}
	var k types.Kind
	switch t.Literal.(type) {
	case string:
		k = types.KindString
	case bool:
		k = types.KindBoolean
	case float64:
		k = types.KindNumber
	default:
		k = types.KindBigint
	}
	w := types.New(k)
	w.Annotate(originalLiteralKey, t)
	return w
}

// NarrowOriginalLiteral reverses WidenLiteral for a program's terminal
// result: if t carries an original-literal annotation, the literal node is
// returned instead of its widened primitive.
func NarrowOriginalLiteral(t *types.Type) *types.Type {
	if t == nil || t.Annotations == nil {
		return t
	}
	payloads := t.Annotations[originalLiteralKey]
	if len(payloads) == 0 {
		return t
	}
	if orig, ok := payloads[len(payloads)-1].(*types.Type); ok {
		return orig
	}
	return t
}
