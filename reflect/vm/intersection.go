package vm

import (
	"github.com/mna/reflectype/reflect/helpers"
	"github.com/mna/reflectype/reflect/types"
)

// intersect implements the `intersection` opcode's normalization:
//  1. a `never` anywhere in the intersection makes the whole thing `never`.
//  2. classify each remaining member against the decorator registry;
//     matches are set aside and attached to the final result as Decorators
//     rather than merged structurally.
//  3. structurally merge any objectLiteral/class candidates (helpers.Merge).
//  4. when more than one non-mergeable primitive survives, the first one
//     found wins and the rest are recorded as `default` annotations on it,
//     so information isn't silently dropped even though only one type can
//     be the intersection's primitive "shape".
func (s *session) intersect(members []*types.Type) *types.Type {
	for _, m := range members {
		if m != nil && m.Kind == types.KindNever {
			return types.New(types.KindNever)
		}
	}

	var kept []*types.Type
	var decorators []*types.Type
	for _, m := range members {
		if m == nil {
			continue
		}
		if key, ok := s.decorators.Classify(m); ok {
			m.Annotate("decoratorKey", key)
			decorators = append(decorators, m)
			continue
		}
		kept = append(kept, m)
	}

	if len(kept) == 0 {
		if len(decorators) == 0 {
			return types.New(types.KindNever)
		}
		return decorators[0]
	}

	var primitives, mergeable []*types.Type
	for _, m := range kept {
		if isMergeableCandidate(m) {
			mergeable = append(mergeable, m)
		} else {
			primitives = append(primitives, m)
		}
	}

	var result *types.Type
	switch {
	case len(mergeable) > 0:
		result = helpers.Merge(mergeable)
		if len(primitives) > 0 {
			result.Annotate("intersectionPrimitive", primitives[0])
			for _, p := range primitives[1:] {
				primitives[0].Annotate("default", p)
			}
		}
	case len(primitives) > 0:
		result = primitives[0]
		for _, p := range primitives[1:] {
			result.Annotate("default", p)
		}
	default:
		result = types.New(types.KindNever)
	}

	result.Decorators = append(result.Decorators, decorators...)
	return result
}

func isMergeableCandidate(t *types.Type) bool {
	return t.Kind == types.KindObjectLiteral || t.Kind == types.KindClass
}
