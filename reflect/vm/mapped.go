package vm

import (
	"github.com/mna/reflectype/reflect/codec"
	"github.com/mna/reflectype/reflect/types"
)

// execMappedType drives the `{ [K in Keys]: F(K) }` loop, the same
// install-then-replay shape as execDistribute but producing an objectLiteral
// of property/index signatures instead of a normalized union.
func (s *session) execMappedType(cur *program, target int, mods uint32) error {
	fr := cur.frame
	loop := fr.mappedLoop
	if loop == nil {
		keySrc, err := cur.popType()
		if err != nil {
			return err
		}
		var keys []*types.Type
		if keySrc != nil && keySrc.Kind == types.KindUnion {
			keys = keySrc.Members
		} else {
			keys = []*types.Type{keySrc}
		}
		loop = &mappedLoop{keys: keys}
		fr.mappedLoop = loop
	} else if loop.i > 0 {
		val, err := cur.popType()
		if err != nil {
			return err
		}
		prevKey := loop.keys[loop.i-1]
		if m := buildMappedMember(prevKey, val, mods); m != nil {
			loop.members = append(loop.members, m)
		}
	}

	if loop.i < len(loop.keys) {
		cur.writeLoopVar(loop.keys[loop.i])
		loop.i++
		cur.call(target, -1)
		return nil
	}

	fr.mappedLoop = nil
	result := types.New(types.KindObjectLiteral)
	result.Members = loop.members
	types.AdoptAll(result, loop.members)
	cur.pushType(result)
	return nil
}

func buildMappedMember(key, value *types.Type, mods uint32) *types.Type {
	if key == nil || value == nil {
		return nil
	}
	switch key.Kind {
	case types.KindString, types.KindNumber, types.KindSymbol:
		sig := types.New(types.KindIndexSignature)
		sig.Index = key
		sig.Elem = value
		return sig
	}

	if value.Kind == types.KindNever {
		return nil
	}

	var sig *types.Type
	if value.Kind == types.KindPropertySignature {
		sig = value
	} else {
		sig = types.New(types.KindPropertySignature)
		sig.Elem = value
		types.Adopt(sig, value)
	}
	if name, ok := key.Literal.(string); ok {
		sig.Name = name
	}
	if mods&codec.ModOptionalSet != 0 {
		sig.Optional = true
	}
	if mods&codec.ModOptionalClear != 0 {
		sig.Optional = false
	}
	if mods&codec.ModReadonlySet != 0 {
		sig.Readonly = true
	}
	if mods&codec.ModReadonlyClear != 0 {
		sig.Readonly = false
	}
	return sig
}
