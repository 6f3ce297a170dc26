package helpers

import "github.com/mna/reflectype/reflect/types"

// Merge structurally merges objectLiteral/class candidates for the
// intersection algorithm: members from later candidates override earlier
// ones by name, and index signatures concatenate. A merge failure (no
// candidate is an objectLiteral/class at all) falls back to candidates[0].
func Merge(candidates []*types.Type) *types.Type {
	if len(candidates) == 0 {
		return types.New(types.KindNever)
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	out := types.New(types.KindObjectLiteral)
	byName := make(map[string]int) // name -> index in out.Members
	var indexSigs []*types.Type
	var mergeable bool

	for _, c := range candidates {
		if c.Kind != types.KindObjectLiteral && c.Kind != types.KindClass {
			continue
		}
		mergeable = true
		for _, m := range c.Members {
			if m.Kind == types.KindIndexSignature {
				indexSigs = append(indexSigs, m)
				continue
			}
			if idx, ok := byName[m.Name]; ok {
				out.Members[idx] = m
			} else {
				byName[m.Name] = len(out.Members)
				out.Members = append(out.Members, m)
			}
		}
	}

	if !mergeable {
		return candidates[0]
	}

	out.Members = append(out.Members, indexSigs...)
	types.AdoptAll(out, out.Members)
	return out
}
