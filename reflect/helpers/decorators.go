package helpers

import "github.com/mna/reflectype/reflect/types"

// DecoratorPredicate classifies an objectLiteral candidate encountered
// while processing an intersection's member list. It returns the
// annotation key to record the literal under and whether it matched at
// all; a predicate that doesn't recognize the candidate returns ("", false).
type DecoratorPredicate func(candidate *types.Type) (key string, matched bool)

// TypeDecoratorRegistry holds the predicates consulted by the intersection
// algorithm when classifying a candidate member. Registration is plural so
// multiple concerns (validation, serialization hints, ...) can each
// contribute a classifier without the core needing to know how many there
// are.
type TypeDecoratorRegistry struct {
	predicates []DecoratorPredicate
}

// Register appends a classifier predicate.
func (r *TypeDecoratorRegistry) Register(p DecoratorPredicate) {
	r.predicates = append(r.predicates, p)
}

// Classify runs every registered predicate against candidate in
// registration order and returns the first match.
func (r *TypeDecoratorRegistry) Classify(candidate *types.Type) (key string, matched bool) {
	for _, p := range r.predicates {
		if key, ok := p(candidate); ok {
			return key, true
		}
	}
	return "", false
}

// DefaultDecoratorRegistry is empty; hosts register their own predicates
// (e.g. a validation library recognizing `{validate: ...}` object
// literals). An empty registry never classifies anything as a decorator,
// so intersections behave as pure structural merges until a host opts in.
var DefaultDecoratorRegistry TypeDecoratorRegistry
