package helpers

import "github.com/mna/reflectype/reflect/types"

// GetMember returns the property/propertySignature/method/methodSignature
// member named name from an objectLiteral or class node, or nil if absent.
func GetMember(t *types.Type, name string) *types.Type {
	if t == nil {
		return nil
	}
	for _, m := range t.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// GetAnnotations returns the annotation payloads registered under name.
func GetAnnotations(t *types.Type, name string) []any {
	if t == nil || t.Annotations == nil {
		return nil
	}
	return t.Annotations[name]
}
