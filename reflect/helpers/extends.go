package helpers

import "github.com/mna/reflectype/reflect/types"

// IsExtendable implements the `extends` opcode's structural assignability
// check, consumed as T extends U in conditional types. It is a pragmatic
// structural subtype test, not a full bidirectional variance-checked
// assignability relation -- sufficient for conditional types and
// distributive unions to make progress.
func IsExtendable(left, right *types.Type) bool {
	return isExtendable(left, right, map[[2]*types.Type]bool{})
}

func isExtendable(left, right *types.Type, seen map[[2]*types.Type]bool) bool {
	if left == nil || right == nil {
		return false
	}
	if right.Kind == types.KindAny || right.Kind == types.KindUnknown {
		return true
	}
	if left.Kind == types.KindNever {
		return true
	}
	if left.Kind == types.KindAny {
		return true
	}

	key := [2]*types.Type{left, right}
	if seen[key] {
		return true // recursive type: assume compatible to break the cycle
	}
	seen[key] = true

	// distribution over unions, when the caller hasn't already distributed
	// (e.g. a direct call to IsExtendable rather than through the
	// `distribute` opcode loop).
	if left.Kind == types.KindUnion {
		for _, m := range left.Members {
			if !isExtendable(m, right, seen) {
				return false
			}
		}
		return true
	}
	if right.Kind == types.KindUnion {
		for _, m := range right.Members {
			if isExtendable(left, m, seen) {
				return true
			}
		}
		return false
	}

	if left.Kind == types.KindLiteral {
		switch right.Kind {
		case types.KindLiteral:
			return types.Equal(left, right)
		case types.KindString, types.KindNumber, types.KindBoolean, types.KindBigint:
			return literalBaseKind(left) == right.Kind
		}
		return false
	}

	if left.Kind != right.Kind {
		switch right.Kind {
		case types.KindObject:
			return left.Kind == types.KindObjectLiteral || left.Kind == types.KindClass
		default:
			return false
		}
	}

	switch left.Kind {
	case types.KindArray:
		return isExtendable(left.Elem, right.Elem, seen)
	case types.KindTuple:
		if len(left.Members) != len(right.Members) {
			return false
		}
		for i := range left.Members {
			if !isExtendable(left.Members[i].Elem, right.Members[i].Elem, seen) {
				return false
			}
		}
		return true
	case types.KindObjectLiteral:
		for _, want := range right.Members {
			got := GetMember(left, want.Name)
			if got == nil {
				if want.Optional {
					continue
				}
				return false
			}
			if !isExtendable(got.Elem, want.Elem, seen) {
				return false
			}
		}
		return true
	case types.KindClass:
		if left.ClassType != right.ClassType {
			return false
		}
		return true
	case types.KindFunction, types.KindMethod, types.KindMethodSignature:
		if len(left.Parameters) != len(right.Parameters) {
			return false
		}
		for i := range left.Parameters {
			// parameters are contravariant: right's param must extend left's
			if !isExtendable(right.Parameters[i].Elem, left.Parameters[i].Elem, seen) {
				return false
			}
		}
		return isExtendable(left.Return, right.Return, seen)
	case types.KindPromise:
		return isExtendable(left.Elem, right.Elem, seen)
	default:
		return true // identical primitive kinds
	}
}

func literalBaseKind(lit *types.Type) types.Kind {
	switch lit.Literal.(type) {
	case string:
		return types.KindString
	case bool:
		return types.KindBoolean
	case float64:
		return types.KindNumber
	default:
		return types.KindBigint
	}
}
