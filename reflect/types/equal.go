package types

import "reflect"

// Equal reports whether a and b are structurally equivalent type graphs.
// Parent back-pointers are ignored (they describe position, not identity),
// and Annotations/Decorators are ignored since they are metadata, not part
// of the structural shape unions/intersections normalize over.
//
// Equal guards against cycles (self-referential types) by tracking the
// pairs of nodes already being compared on the current path.
func Equal(a, b *Type) bool {
	return equal(a, b, map[[2]*Type]bool{})
}

func equal(a, b *Type, seen map[[2]*Type]bool) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	key := [2]*Type{a, b}
	if seen[key] {
		return true // already comparing this pair on the current path; assume equal to break the cycle
	}
	seen[key] = true

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindLiteral:
		return literalEqual(a.Literal, b.Literal)
	case KindTypedArray:
		return a.Variant == b.Variant
	case KindArray, KindRest, KindPromise:
		return equal(a.Elem, b.Elem, seen)
	case KindTupleMember, KindProperty, KindPropertySignature, KindParameter:
		return a.Name == b.Name && a.Optional == b.Optional && a.Readonly == b.Readonly &&
			a.Visibility == b.Visibility && equal(a.Elem, b.Elem, seen)
	case KindIndexSignature:
		return equal(a.Index, b.Index, seen) && equal(a.Elem, b.Elem, seen)
	case KindTuple, KindObjectLiteral, KindUnion, KindIntersection:
		return equalMemberSet(a.Kind, a.Members, b.Members, seen)
	case KindFunction, KindMethod, KindMethodSignature:
		return a.Name == b.Name && equalSlice(a.Parameters, b.Parameters, seen) && equal(a.Return, b.Return, seen)
	case KindClass:
		return a.ClassType == b.ClassType && a.Variant == b.Variant &&
			equalSlice(a.TypeArguments, b.TypeArguments, seen)
	case KindEnum:
		return a.Name == b.Name && equalSlice(a.Members, b.Members, seen)
	case KindEnumMember:
		return a.Name == b.Name && literalEqual(a.Default, b.Default)
	case KindTemplateLiteral:
		return equalSlice(a.TemplateParts, b.TemplateParts, seen)
	case KindTypeParameter:
		return a.Name == b.Name
	default:
		// primitives and other zero-payload kinds are equal by kind alone
		return true
	}
}

func literalEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func equalSlice(a, b []*Type, seen map[[2]*Type]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i], seen) {
			return false
		}
	}
	return true
}

// equalMemberSet compares the members of unions/intersections/tuples/
// objectLiterals position by position, avoiding O(n^2) set matching on
// every equality check. Union normalization deduplicates but keeps members
// in first-seen order, so two unions (or objectLiterals) holding the same
// members in a different order are not Equal.
func equalMemberSet(k Kind, a, b []*Type, seen map[[2]*Type]bool) bool {
	return equalSlice(a, b, seen)
}
