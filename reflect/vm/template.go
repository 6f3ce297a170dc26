package vm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/reflectype/reflect/helpers"
	"github.com/mna/reflectype/reflect/types"
)

// buildTemplateLiteral expands a templateLiteral's parts into the Cartesian
// product of each part's union members (a non-union part contributes a
// single atom), concatenates adjacent literal atoms of each combination into
// one string literal, and pushes the union of every combination's result.
// A combination that merges down to a single unconstrained `string` part
// collapses to that plain string type rather than a one-part template
// literal wrapper.
func buildTemplateLiteral(parts []*types.Type) *types.Type {
	expanded := make([][]*types.Type, len(parts))
	for i, p := range parts {
		expanded[i] = expandTemplatePart(p)
	}

	var combos [][]*types.Type
	var build func(i int, cur []*types.Type)
	build = func(i int, cur []*types.Type) {
		if i == len(expanded) {
			combos = append(combos, append([]*types.Type(nil), cur...))
			return
		}
		for _, atom := range expanded[i] {
			build(i+1, append(cur, atom))
		}
	}
	build(0, nil)

	results := make([]*types.Type, 0, len(combos))
	for _, combo := range combos {
		results = append(results, mergeTemplateCombo(combo))
	}
	return helpers.NormalizeUnion(results)
}

// expandTemplatePart returns the atoms a part contributes to the product: a
// union's members, or the part itself otherwise.
func expandTemplatePart(t *types.Type) []*types.Type {
	if t != nil && t.Kind == types.KindUnion {
		return t.Members
	}
	return []*types.Type{t}
}

// mergeTemplateCombo concatenates runs of literal atoms in combo into
// single string literals, leaving non-literal atoms (string, number, ...)
// as their own part, then builds the result: a bare literal or string when
// the merge collapsed to one part, a templateLiteral node otherwise.
func mergeTemplateCombo(combo []*types.Type) *types.Type {
	var merged []*types.Type
	var lit strings.Builder
	haveLit := false
	flush := func() {
		if haveLit {
			s := types.New(types.KindLiteral)
			s.Literal = lit.String()
			merged = append(merged, s)
			lit.Reset()
			haveLit = false
		}
	}
	for _, atom := range combo {
		if atom != nil && atom.Kind == types.KindLiteral {
			lit.WriteString(literalString(atom.Literal))
			haveLit = true
			continue
		}
		flush()
		merged = append(merged, atom)
	}
	flush()

	if len(merged) == 1 {
		only := merged[0]
		if only == nil || only.Kind == types.KindLiteral || only.Kind == types.KindString {
			return only
		}
	}

	t := types.New(types.KindTemplateLiteral)
	t.TemplateParts = merged
	types.AdoptAll(t, merged)
	return t
}

// literalString renders a literal's payload the way a template literal type
// stringifies it: strings pass through, numbers use their shortest decimal
// form, booleans print "true"/"false", everything else falls back to Go's
// default formatting.
func literalString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
