// Package helpers implements the pure, pointer-in/pointer-out functions the
// Processor treats as external collaborators: extendability, index-access,
// structural merge, union normalization, widening/narrowing, and decorator
// classification. These sit outside the interpreter proper so the VM can
// be exercised end-to-end against a concrete implementation of them.
package helpers

import "github.com/mna/reflectype/reflect/types"

// FlattenUnionTypes flattens nested unions and drops duplicate members by
// structural equality, but does not drop `never` (callers that need that,
// i.e. the union opcode, do it explicitly so that an all-never union still
// round-trips through flattening in isolation).
func FlattenUnionTypes(ts []*types.Type) []*types.Type {
	var out []*types.Type
	var flatten func([]*types.Type)
	flatten = func(in []*types.Type) {
		for _, t := range in {
			if t == nil {
				continue
			}
			if t.Kind == types.KindUnion {
				flatten(t.Members)
				continue
			}
			if !IsTypeIncluded(out, t) {
				out = append(out, t)
			}
		}
	}
	flatten(ts)
	return out
}

// IsTypeIncluded reports whether t is structurally present in list.
func IsTypeIncluded(list []*types.Type, t *types.Type) bool {
	for _, c := range list {
		if types.Equal(c, t) {
			return true
		}
	}
	return false
}

// UnboxUnion returns u.Members[0] when u is a single-member union, and u
// unchanged otherwise. A zero-member union (everything was `never`) becomes
// `never` itself.
func UnboxUnion(u *types.Type) *types.Type {
	if u == nil || u.Kind != types.KindUnion {
		return u
	}
	switch len(u.Members) {
	case 0:
		return types.New(types.KindNever)
	case 1:
		return u.Members[0]
	default:
		return u
	}
}

// NormalizeUnion flattens, drops `never`, dedups, and unboxes singleton
// unions -- the full normalization the `union` opcode applies.
func NormalizeUnion(members []*types.Type) *types.Type {
	flat := FlattenUnionTypes(members)
	kept := flat[:0:0]
	for _, t := range flat {
		if t.Kind == types.KindNever {
			continue
		}
		kept = append(kept, t)
	}
	u := types.New(types.KindUnion)
	u.Members = kept
	types.AdoptAll(u, kept)
	return UnboxUnion(u)
}
