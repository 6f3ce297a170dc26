// Package types defines the runtime type graph produced by the reflection
// VM: a single tagged-variant node (Type) plus the small set of enums
// (Kind, Visibility) that drive its interpretation.
//
// A node is deliberately a mutable struct accessed through a pointer, not a
// value type. The Processor relies on pointer identity to implement
// placeholder patching for cyclic (self-referential) types: a node handed
// out before its program has finished resolving is later mutated in place,
// and every previously-returned pointer observes the final shape.
package types

import "fmt"

// Kind tags the variant a Type node represents.
type Kind uint8

const (
	KindInvalid Kind = iota

	// primitives
	KindString
	KindNumber
	KindBoolean
	KindBigint
	KindSymbol
	KindNull
	KindUndefined
	KindAny
	KindUnknown
	KindVoid
	KindNever
	KindObject
	KindRegexp
	KindDate
	KindArrayBuffer
	KindTypedArray

	// literal
	KindLiteral

	// containers
	KindArray
	KindTuple
	KindTupleMember
	KindRest

	// aggregates
	KindObjectLiteral
	KindClass
	KindEnum
	KindEnumMember

	// callable
	KindFunction
	KindMethod
	KindMethodSignature

	// structural members
	KindProperty
	KindPropertySignature
	KindIndexSignature
	KindParameter

	// compound
	KindUnion
	KindIntersection
	KindPromise

	// type-expression internals
	KindTemplateLiteral
	KindTypeParameter
	KindInfer
)

var kindNames = [...]string{
	KindInvalid:           "invalid",
	KindString:            "string",
	KindNumber:            "number",
	KindBoolean:           "boolean",
	KindBigint:            "bigint",
	KindSymbol:            "symbol",
	KindNull:              "null",
	KindUndefined:         "undefined",
	KindAny:               "any",
	KindUnknown:           "unknown",
	KindVoid:              "void",
	KindNever:             "never",
	KindObject:            "object",
	KindRegexp:            "regexp",
	KindDate:              "date",
	KindArrayBuffer:       "arrayBuffer",
	KindTypedArray:        "typedArray",
	KindLiteral:           "literal",
	KindArray:             "array",
	KindTuple:             "tuple",
	KindTupleMember:       "tupleMember",
	KindRest:              "rest",
	KindObjectLiteral:     "objectLiteral",
	KindClass:             "class",
	KindEnum:              "enum",
	KindEnumMember:        "enumMember",
	KindFunction:          "function",
	KindMethod:            "method",
	KindMethodSignature:   "methodSignature",
	KindProperty:          "property",
	KindPropertySignature: "propertySignature",
	KindIndexSignature:    "indexSignature",
	KindParameter:         "parameter",
	KindUnion:             "union",
	KindIntersection:      "intersection",
	KindPromise:           "promise",
	KindTemplateLiteral:   "templateLiteral",
	KindTypeParameter:     "typeParameter",
	KindInfer:             "infer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Visibility is the member access modifier of a property, method or
// constructor-promoted parameter.
type Visibility uint8

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// ObjectPlaceholder is the provisional ClassType value of a class node
// whose encoded program has not yet finished running. It is overwritten in
// place with the host class reference once the owning program terminates.
var ObjectPlaceholder = &struct{ name string }{"Object"}

// Type is the single tagged-variant node of the resolved type graph. Only
// the fields relevant to Kind are meaningful; the rest are zero.
type Type struct {
	Kind Kind

	// Variant names a typed-array kind (e.g. "Int8Array", "Float64Array")
	// when Kind == KindTypedArray, or a built-in generic's name ("Set",
	// "Map") when Kind == KindClass and ClassType == nil.
	Variant string

	// Literal holds the payload of a KindLiteral node: string, float64,
	// bool, *big.Int or *regexp.Regexp.
	Literal any

	// Brand holds a numeric brand name attached by the numberBrand opcode.
	Brand string

	// Elem is the single wrapped child type: array element, rest payload,
	// tuple member type, property/propertySignature/parameter type,
	// indexSignature value type, or promise payload.
	Elem *Type

	// Index is the key type of an indexSignature node.
	Index *Type

	// Members holds tuple members, objectLiteral members (properties,
	// methods, index signatures), union/intersection participants, or enum
	// member nodes, depending on Kind.
	Members []*Type

	// Name is the identifier attached to a tupleMember, property,
	// parameter, function/method, enumMember, or typeParameter node.
	Name string

	Optional bool
	Readonly bool
	Abstract bool

	Visibility Visibility

	// Default holds a default value payload (property/parameter default,
	// or an enum member's explicit value).
	Default any

	Description string

	// Parameters and Return describe function/method/methodSignature
	// nodes.
	Parameters []*Type
	Return     *Type

	// ClassType is either ObjectPlaceholder (program still running),
	// a host.Class reference (patched in on completion), or nil for a
	// built-in generic instantiation identified by Variant.
	ClassType any

	TypeArguments    []*Type
	Arguments        []*Type
	ExtendsArguments []*Type

	// EnumMap is the name->value map of an enum node; Members holds the
	// ordered enumMember nodes.
	EnumMap map[string]any

	// TemplateParts holds the literal and type parts of a templateLiteral
	// node, in source order.
	TemplateParts []*Type

	// InferSet is the setter closure of an infer node: calling it writes
	// the inferred type into the variable slot the infer opcode named.
	InferSet func(*Type)

	// --- cross-cutting fields ---

	Parent            *Type
	Annotations       map[string][]any
	Decorators        []*Type
	TypeName          string
	IndexAccessOrigin *Type
}

// New returns a freshly allocated node of the given kind. Callers are
// responsible for setting kind-specific fields and calling Adopt on any
// children.
func New(k Kind) *Type { return &Type{Kind: k} }

// Adopt sets child.Parent = parent for every non-nil child. It is called by
// every constructor that inserts a node into a container, satisfying the
// "every non-root node has a parent" invariant.
func Adopt(parent *Type, children ...*Type) {
	for _, c := range children {
		if c != nil {
			c.Parent = parent
		}
	}
}

// AdoptAll is Adopt over a slice, convenient for Members/Parameters/etc.
func AdoptAll(parent *Type, children []*Type) {
	for _, c := range children {
		if c != nil {
			c.Parent = parent
		}
	}
}

// Annotate appends a payload to the named annotation sequence.
func (t *Type) Annotate(name string, payload any) {
	if t.Annotations == nil {
		t.Annotations = make(map[string][]any)
	}
	t.Annotations[name] = append(t.Annotations[name], payload)
}

// CopyInto overwrites the receiver's fields with src's, preserving the
// receiver's pointer identity. This is the mechanism behind placeholder
// patching: every reference handed out while src's program was
// still resolving observes the final shape once CopyInto runs.
func (t *Type) CopyInto(src *Type) {
	parent := t.Parent // preserve parent assigned at the handout site
	*t = *src
	t.Parent = parent
}

func (t *Type) String() string {
	switch t.Kind {
	case KindLiteral:
		return fmt.Sprintf("literal(%v)", t.Literal)
	case KindTypedArray:
		return t.Variant
	default:
		return t.Kind.String()
	}
}
