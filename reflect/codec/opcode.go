package codec

import "fmt"

// Op is a VM opcode. Values are small (kept under ~120, per the packed
// format's single-code-point-per-value encoding) and are dispatched
// through a single switch in reflect/vm.
type Op uint8

const (
	OpInvalid Op = iota

	// primitive builders: arg is a types.Kind value cast directly from the
	// operand, except OpTypedArray which names its variant via a stack index.
	OpPrimitive
	OpTypedArray // arg: stack index of the variant name (e.g. "Int8Array")

	OpLiteral     // arg: stack index of the literal payload
	OpNumberBrand // arg: stack index of the brand name

	OpTemplateLiteral // pops current frame
	OpArray            // wraps TOS
	OpTuple            // pops current frame
	OpTupleMember      // pops TOS (anonymous tuple member)
	OpNamedTupleMember // arg: stack index of the name; pops TOS
	OpRest             // pops TOS

	OpSetType     // pops current frame, builds Set<...>
	OpMapType     // pops current frame, builds Map<...>
	OpPromiseType // wraps TOS

	OpProperty          // arg: stack index of the name
	OpPropertySignature // arg: stack index of the name
	OpMethod            // arg: stack index of the name; pops current frame
	OpMethodSignature   // arg: stack index of the name; pops current frame
	OpParameter         // arg: stack index of the name

	OpOptional  // mutate TOS
	OpReadonly  // mutate TOS
	OpPublic    // mutate TOS
	OpProtected // mutate TOS
	OpPrivate   // mutate TOS
	OpAbstract  // mutate TOS

	OpDefaultValue // arg: stack index of the default value
	OpDescription  // arg: stack index of the description string

	OpIndexSignature // pops type then index
	OpObjectLiteral   // pops current frame

	OpClass          // pops current frame
	OpClassExtends   // arg: N types popped, attached as extends-arguments of TOS
	OpClassReference // arg: stack index of the class thunk

	OpEnum            // arg: stack index of the name; pops current frame of enumMembers
	OpEnumMember      // arg: stack index of the name (auto-valued)
	OpEnumMemberValue // arg: stack index of the name; pops an explicit value

	OpUnion        // pops current frame
	OpIntersection // pops current frame

	OpFunction // arg: stack index of the name plus one, or 0 for anonymous; pops current frame

	OpTypeParameter        // arg: stack index of the type parameter's name
	OpTypeParameterDefault // arg: stack index of the name; pops a default value

	OpVar // pushes never, reserves a local slot

	OpLoads // args: F (ancestor frame depth), I (variable index)
	OpArg   // arg: N (argument offset below current frame)

	OpInfer // args: F, I (variable slot to write on inference)

	OpExtends       // pops right, left; pushes literal(isExtendable)
	OpCondition     // pops right, left, condition; pops frame
	OpJumpCondition // args: L, R (two callable targets)

	OpDistribute // arg: P (conditional body target)
	OpMappedType // args: F (value-expression target), M (modifier bitmask)

	OpIndexAccess // pops index then container
	OpKeyof       // pops TOS

	OpTypeOf // arg: stack index of the value thunk

	OpWiden // replaces TOS if literal

	OpJump // arg: N (target PC)
	OpCall // arg: N (target PC)

	OpInline     // arg: P (stack index of Packed/thunk plus one, or 0 for self-reference)
	OpInlineCall // args: P, N (target encoded as for OpInline, arg count)

	OpFrame     // opens a new frame at current SP
	OpMoveFrame // pops a value, discards frame, re-pushes the value

	OpReturn // pops TOS, unwinds the current call frame, resumes at its return address

	opMax
)

// arity gives the number of operand values (each a small non-negative
// integer) following an opcode in the encoded stream.
var arity = [opMax]int{
	OpPrimitive:            1,
	OpTypedArray:           1,
	OpLiteral:              1,
	OpNumberBrand:          1,
	OpNamedTupleMember:     1,
	OpProperty:             1,
	OpPropertySignature:    1,
	OpMethod:               1,
	OpMethodSignature:      1,
	OpParameter:            1,
	OpDefaultValue:         1,
	OpDescription:          1,
	OpClassExtends:         1,
	OpClassReference:       1,
	OpEnum:                 1,
	OpEnumMember:           1,
	OpEnumMemberValue:      1,
	OpFunction:             1,
	OpTypeParameter:        1,
	OpTypeParameterDefault: 1,
	OpArg:                  1,
	OpDistribute:           1,
	OpTypeOf:               1,
	OpJump:                 1,
	OpCall:                 1,
	OpInline:               1,
	OpLoads:                2,
	OpInfer:                2,
	OpJumpCondition:        2,
	OpMappedType:           2,
	OpInlineCall:           2,
}

// Arity returns the number of operand integers that follow op in the
// encoded stream.
func Arity(op Op) int {
	if int(op) < len(arity) {
		return arity[op]
	}
	return 0
}

var opNames = [opMax]string{
	OpPrimitive:            "primitive",
	OpTypedArray:           "typedArray",
	OpLiteral:              "literal",
	OpNumberBrand:          "numberBrand",
	OpTemplateLiteral:      "templateLiteral",
	OpArray:                "array",
	OpTuple:                "tuple",
	OpTupleMember:          "tupleMember",
	OpNamedTupleMember:     "namedTupleMember",
	OpRest:                 "rest",
	OpSetType:              "set",
	OpMapType:              "map",
	OpPromiseType:          "promise",
	OpProperty:             "property",
	OpPropertySignature:    "propertySignature",
	OpMethod:               "method",
	OpMethodSignature:      "methodSignature",
	OpParameter:            "parameter",
	OpOptional:             "optional",
	OpReadonly:             "readonly",
	OpPublic:               "public",
	OpProtected:            "protected",
	OpPrivate:              "private",
	OpAbstract:             "abstract",
	OpDefaultValue:         "defaultValue",
	OpDescription:          "description",
	OpIndexSignature:       "indexSignature",
	OpObjectLiteral:        "objectLiteral",
	OpClass:                "class",
	OpClassExtends:         "classExtends",
	OpClassReference:       "classReference",
	OpEnum:                 "enum",
	OpEnumMember:           "enumMember",
	OpEnumMemberValue:      "enumMemberValue",
	OpUnion:                "union",
	OpIntersection:         "intersection",
	OpFunction:             "function",
	OpTypeParameter:        "typeParameter",
	OpTypeParameterDefault: "typeParameterDefault",
	OpVar:                  "var",
	OpLoads:                "loads",
	OpArg:                  "arg",
	OpInfer:                "infer",
	OpExtends:              "extends",
	OpCondition:            "condition",
	OpJumpCondition:        "jumpCondition",
	OpDistribute:           "distribute",
	OpMappedType:           "mappedType",
	OpIndexAccess:          "indexAccess",
	OpKeyof:                "keyof",
	OpTypeOf:               "typeof",
	OpWiden:                "widen",
	OpJump:                 "jump",
	OpCall:                 "call",
	OpInline:               "inline",
	OpInlineCall:           "inlineCall",
	OpFrame:                "frame",
	OpMoveFrame:            "moveFrame",
	OpReturn:               "return",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

var reverseOpNames = func() map[string]Op {
	m := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		if name != "" {
			m[name] = Op(op)
		}
	}
	return m
}()

// ParseOp resolves an opcode mnemonic, used by the assembler (asm.go)
// and the "asm"/"dump" CLI commands.
func ParseOp(name string) (Op, bool) {
	op, ok := reverseOpNames[name]
	return op, ok
}

// MappedType modifier bits.
const (
	ModOptionalSet uint32 = 1 << iota
	ModOptionalClear
	ModReadonlySet
	ModReadonlyClear
)
