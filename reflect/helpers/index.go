package helpers

import (
	"fmt"

	"github.com/mna/reflectype/reflect/types"
)

// IndexAccess implements the `T[K]` operator consumed by the `indexAccess`
// opcode. When key is a union, the result is the union of
// indexing by each member (the same distribution rule applies to
// conditional types).
func IndexAccess(container, key *types.Type) (*types.Type, error) {
	if key.Kind == types.KindUnion {
		var results []*types.Type
		for _, m := range key.Members {
			r, err := IndexAccess(container, m)
			if err != nil {
				return nil, err
			}
			results = append(results, r)
		}
		return NormalizeUnion(results), nil
	}

	switch container.Kind {
	case types.KindObjectLiteral, types.KindClass:
		if key.Kind == types.KindLiteral {
			if name, ok := key.Literal.(string); ok {
				m := GetMember(container, name)
				if m == nil {
					return nil, fmt.Errorf("helpers: index access: no member %q on %s", name, container.Kind)
				}
				return memberValueType(m), nil
			}
		}
		// an unconstrained string/number key: union of all member value types
		var results []*types.Type
		for _, m := range container.Members {
			results = append(results, memberValueType(m))
		}
		return NormalizeUnion(results), nil

	case types.KindArray:
		return container.Elem, nil

	case types.KindTuple:
		if key.Kind == types.KindLiteral {
			if n, ok := asTupleIndex(key.Literal); ok && n >= 0 && n < len(container.Members) {
				return container.Members[n].Elem, nil
			}
		}
		var results []*types.Type
		for _, m := range container.Members {
			results = append(results, m.Elem)
		}
		return NormalizeUnion(results), nil

	default:
		return nil, fmt.Errorf("helpers: index access: container kind %s is not indexable", container.Kind)
	}
}

func memberValueType(m *types.Type) *types.Type {
	switch m.Kind {
	case types.KindMethod, types.KindMethodSignature:
		fn := types.New(types.KindFunction)
		fn.Parameters = m.Parameters
		fn.Return = m.Return
		return fn
	default:
		return m.Elem
	}
}

func asTupleIndex(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
