package vm

import (
	"fmt"

	"github.com/mna/reflectype/reflect/codec"
	"github.com/mna/reflectype/reflect/helpers"
	"github.com/mna/reflectype/reflect/types"
)

// dispatch executes one instruction against cur. A non-nil returned
// *program means the caller should chain execution into it (push cur as
// its previous and continue the outer loop there); a nil program with a
// nil error means the instruction was handled entirely in place.
func (s *session) dispatch(cur *program, ins codec.Instruction) (*program, error) {
	switch ins.Op {

	case codec.OpPrimitive:
		cur.pushType(types.New(types.Kind(ins.Args[0])))
		return nil, nil

	case codec.OpTypedArray:
		t := types.New(types.KindTypedArray)
		t.Variant = cur.constString(int(ins.Args[0]))
		cur.pushType(t)
		return nil, nil

	case codec.OpLiteral:
		t := types.New(types.KindLiteral)
		t.Literal = cur.constAt(int(ins.Args[0]))
		cur.pushType(t)
		return nil, nil

	case codec.OpNumberBrand:
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.Brand = cur.constString(int(ins.Args[0]))
		return nil, nil

	case codec.OpTemplateLiteral:
		parts, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		cur.pushType(buildTemplateLiteral(parts))
		return nil, nil

	case codec.OpArray:
		elem, err := cur.popType()
		if err != nil {
			return nil, err
		}
		t := types.New(types.KindArray)
		t.Elem = elem
		types.Adopt(t, elem)
		cur.pushType(t)
		return nil, nil

	case codec.OpTuple:
		members, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		t := types.New(types.KindTuple)
		t.Members = members
		types.AdoptAll(t, members)
		cur.pushType(t)
		return nil, nil

	case codec.OpTupleMember:
		elem, err := cur.popType()
		if err != nil {
			return nil, err
		}
		m := types.New(types.KindTupleMember)
		m.Elem = elem
		types.Adopt(m, elem)
		cur.pushType(m)
		return nil, nil

	case codec.OpNamedTupleMember:
		elem, err := cur.popType()
		if err != nil {
			return nil, err
		}
		m := types.New(types.KindTupleMember)
		m.Name = cur.constString(int(ins.Args[0]))
		m.Elem = elem
		types.Adopt(m, elem)
		cur.pushType(m)
		return nil, nil

	case codec.OpRest:
		elem, err := cur.popType()
		if err != nil {
			return nil, err
		}
		m := types.New(types.KindRest)
		m.Elem = elem
		types.Adopt(m, elem)
		cur.pushType(m)
		return nil, nil

	case codec.OpSetType:
		args, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		t := types.New(types.KindClass)
		t.Variant = "Set"
		t.TypeArguments = args
		types.AdoptAll(t, args)
		cur.pushType(t)
		return nil, nil

	case codec.OpMapType:
		args, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		t := types.New(types.KindClass)
		t.Variant = "Map"
		t.TypeArguments = args
		types.AdoptAll(t, args)
		cur.pushType(t)
		return nil, nil

	case codec.OpPromiseType:
		elem, err := cur.popType()
		if err != nil {
			return nil, err
		}
		t := types.New(types.KindPromise)
		t.Elem = elem
		types.Adopt(t, elem)
		cur.pushType(t)
		return nil, nil

	case codec.OpProperty, codec.OpPropertySignature:
		elem, err := cur.popType()
		if err != nil {
			return nil, err
		}
		kind := types.KindProperty
		if ins.Op == codec.OpPropertySignature {
			kind = types.KindPropertySignature
		}
		m := types.New(kind)
		m.Name = cur.constString(int(ins.Args[0]))
		m.Elem = elem
		types.Adopt(m, elem)
		cur.pushType(m)
		return nil, nil

	case codec.OpMethod, codec.OpMethodSignature:
		members, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		kind := types.KindMethod
		if ins.Op == codec.OpMethodSignature {
			kind = types.KindMethodSignature
		}
		m := types.New(kind)
		m.Name = cur.constString(int(ins.Args[0]))
		if len(members) > 0 {
			m.Return = members[len(members)-1]
			m.Parameters = members[:len(members)-1]
		}
		types.Adopt(m, m.Return)
		types.AdoptAll(m, m.Parameters)
		cur.pushType(m)
		return nil, nil

	case codec.OpParameter:
		elem, err := cur.popType()
		if err != nil {
			return nil, err
		}
		m := types.New(types.KindParameter)
		m.Name = cur.constString(int(ins.Args[0]))
		m.Elem = elem
		types.Adopt(m, elem)
		cur.pushType(m)
		return nil, nil

	case codec.OpOptional:
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.Optional = true
		return nil, nil

	case codec.OpReadonly:
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.Readonly = true
		return nil, nil

	case codec.OpPublic:
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.Visibility = types.Public
		return nil, nil

	case codec.OpProtected:
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.Visibility = types.Protected
		return nil, nil

	case codec.OpPrivate:
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.Visibility = types.Private
		return nil, nil

	case codec.OpAbstract:
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.Abstract = true
		return nil, nil

	case codec.OpDefaultValue:
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.Default = cur.constAt(int(ins.Args[0]))
		return nil, nil

	case codec.OpDescription:
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.Description = cur.constString(int(ins.Args[0]))
		return nil, nil

	case codec.OpIndexSignature:
		elem, err := cur.popType()
		if err != nil {
			return nil, err
		}
		index, err := cur.popType()
		if err != nil {
			return nil, err
		}
		m := types.New(types.KindIndexSignature)
		m.Index = index
		m.Elem = elem
		types.Adopt(m, index, elem)
		cur.pushType(m)
		return nil, nil

	case codec.OpObjectLiteral:
		members, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		t := types.New(types.KindObjectLiteral)
		t.Members = members
		types.AdoptAll(t, members)
		cur.pushType(t)
		return nil, nil

	case codec.OpClass:
		members, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		t := types.New(types.KindClass)
		t.Members = members
		t.ClassType = types.ObjectPlaceholder
		types.AdoptAll(t, members)
		cur.pushType(t)
		return nil, nil

	case codec.OpClassExtends:
		args, err := cur.popN(int(ins.Args[0]))
		if err != nil {
			return nil, err
		}
		t, err := cur.peekType()
		if err != nil {
			return nil, err
		}
		t.ExtendsArguments = args
		types.AdoptAll(t, args)
		return nil, nil

	case codec.OpClassReference:
		args, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		t, np, err := s.resolveClassReference(cur, cur.constAt(int(ins.Args[0])), args)
		if err != nil {
			return nil, err
		}
		if np != nil {
			return np, nil
		}
		cur.pushType(t)
		return nil, nil

	case codec.OpEnum:
		return nil, s.execEnum(cur, ins)

	case codec.OpEnumMember:
		m := types.New(types.KindEnumMember)
		m.Name = cur.constString(int(ins.Args[0]))
		cur.pushType(m)
		return nil, nil

	case codec.OpEnumMemberValue:
		val, err := cur.popType()
		if err != nil {
			return nil, err
		}
		m := types.New(types.KindEnumMember)
		m.Name = cur.constString(int(ins.Args[0]))
		if val != nil {
			m.Default = val.Literal
		}
		cur.pushType(m)
		return nil, nil

	case codec.OpUnion:
		members, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		cur.pushType(helpers.NormalizeUnion(members))
		return nil, nil

	case codec.OpIntersection:
		members, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		result := s.intersect(members)
		cur.pushType(result)
		return nil, nil

	case codec.OpFunction:
		members, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		t := types.New(types.KindFunction)
		if idx := ins.Args[0]; idx > 0 {
			t.Name = cur.constString(int(idx) - 1)
		}
		if len(members) > 0 {
			t.Return = members[len(members)-1]
			t.Parameters = members[:len(members)-1]
		}
		types.Adopt(t, t.Return)
		types.AdoptAll(t, t.Parameters)
		cur.pushType(t)
		return nil, nil

	case codec.OpTypeParameter:
		cur.pushType(cur.consumeInput(cur.constString(int(ins.Args[0])), nil))
		return nil, nil

	case codec.OpTypeParameterDefault:
		def, err := cur.popType()
		if err != nil {
			return nil, err
		}
		cur.pushType(cur.consumeInput(cur.constString(int(ins.Args[0])), def))
		return nil, nil

	case codec.OpVar:
		cur.pushType(types.New(types.KindNever))
		cur.frame.variables++
		return nil, nil

	case codec.OpLoads:
		fr := cur.ancestorFrame(int(ins.Args[0]))
		if fr == nil {
			return nil, ErrStackUnderflow
		}
		slot := fr.startIndex + 1 + int(ins.Args[1])
		t, _ := cur.stack[slot].(*types.Type)
		cur.pushType(t)
		return nil, nil

	case codec.OpArg:
		slot := cur.frame.startIndex - int(ins.Args[0])
		if slot < 0 {
			return nil, ErrStackUnderflow
		}
		t, _ := cur.stack[slot].(*types.Type)
		cur.pushType(t)
		return nil, nil

	case codec.OpInfer:
		fr := cur.ancestorFrame(int(ins.Args[0]))
		if fr == nil {
			return nil, ErrStackUnderflow
		}
		slot := fr.startIndex + 1 + int(ins.Args[1])
		infNode := types.New(types.KindInfer)
		infNode.InferSet = func(t *types.Type) {
			cur.stack[slot] = t
		}
		cur.pushType(infNode)
		return nil, nil

	case codec.OpExtends:
		right, err := cur.popType()
		if err != nil {
			return nil, err
		}
		left, err := cur.popType()
		if err != nil {
			return nil, err
		}
		t := types.New(types.KindLiteral)
		t.Literal = helpers.IsExtendable(left, right)
		cur.pushType(t)
		return nil, nil

	case codec.OpCondition:
		members, err := cur.popFrame()
		if err != nil {
			return nil, err
		}
		if len(members) != 3 {
			return nil, fmt.Errorf("vm: condition expects 3 bracketed operands, got %d", len(members))
		}
		cond, left, right := members[0], members[1], members[2]
		if truthy(cond) {
			cur.pushType(left)
		} else {
			cur.pushType(right)
		}
		return nil, nil

	case codec.OpJumpCondition:
		cond, err := cur.popType()
		if err != nil {
			return nil, err
		}
		target := ins.Args[1]
		if truthy(cond) {
			target = ins.Args[0]
		}
		cur.call(int(target), 0)
		return nil, nil

	case codec.OpDistribute:
		return nil, s.execDistribute(cur, int(ins.Args[0]))

	case codec.OpMappedType:
		return nil, s.execMappedType(cur, int(ins.Args[0]), ins.Args[1])

	case codec.OpIndexAccess:
		key, err := cur.popType()
		if err != nil {
			return nil, err
		}
		container, err := cur.popType()
		if err != nil {
			return nil, err
		}
		result, err := helpers.IndexAccess(container, key)
		if err != nil {
			return nil, err
		}
		result.IndexAccessOrigin = container
		cur.pushType(result)
		return nil, nil

	case codec.OpKeyof:
		t, err := cur.popType()
		if err != nil {
			return nil, err
		}
		cur.pushType(keyofType(t))
		return nil, nil

	case codec.OpTypeOf:
		thunk, _ := cur.constAt(int(ins.Args[0])).(func() any)
		if thunk == nil {
			return nil, fmt.Errorf("vm: typeof: constant pool entry is not a value thunk")
		}
		result, err := s.inferValue(thunk())
		if err != nil {
			return nil, err
		}
		cur.pushType(result)
		return nil, nil

	case codec.OpWiden:
		t, err := cur.popType()
		if err != nil {
			return nil, err
		}
		cur.pushType(helpers.WidenLiteral(t))
		return nil, nil

	case codec.OpJump:
		cur.pc = int(ins.Args[0])
		return nil, nil

	case codec.OpCall:
		cur.call(int(ins.Args[0]), 0)
		return nil, nil

	case codec.OpReturn:
		return nil, cur.ret()

	case codec.OpInline:
		return s.execInline(cur, int(ins.Args[0]))

	case codec.OpInlineCall:
		return s.execInlineCall(cur, int(ins.Args[0]), int(ins.Args[1]))

	case codec.OpFrame:
		cur.openFrame()
		return nil, nil

	case codec.OpMoveFrame:
		return nil, cur.moveFrame()

	default:
		return nil, fmt.Errorf("vm: unimplemented opcode %s", ins.Op)
	}
}

func truthy(t *types.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind == types.KindNever {
		return false
	}
	if t.Kind == types.KindLiteral {
		if b, ok := t.Literal.(bool); ok {
			return b
		}
	}
	return true
}

// consumeInput resolves a typeParameter/typeParameterDefault read against
// the program's instantiation inputs, falling back to def (nil for a bare
// typeParameter) or a fresh unbound typeParameter placeholder.
func (cur *program) consumeInput(name string, def *types.Type) *types.Type {
	var v *types.Type
	if cur.frame.variables < len(cur.inputs) {
		v = cur.inputs[cur.frame.variables]
	} else if def != nil {
		v = def
	} else {
		v = types.New(types.KindTypeParameter)
		v.Name = name
	}
	cur.frame.variables++
	return v
}

func (cur *program) constAt(i int) any {
	return cur.packed.At(i)
}

func (cur *program) constString(i int) string {
	s, _ := cur.packed.At(i).(string)
	return s
}

func keyofType(t *types.Type) *types.Type {
	if t == nil {
		return types.New(types.KindNever)
	}
	switch t.Kind {
	case types.KindObjectLiteral, types.KindClass:
		var names []*types.Type
		for _, m := range t.Members {
			if m.Kind == types.KindIndexSignature {
				names = append(names, m.Index)
				continue
			}
			lit := types.New(types.KindLiteral)
			lit.Literal = m.Name
			names = append(names, lit)
		}
		return helpers.NormalizeUnion(names)
	case types.KindArray:
		return types.New(types.KindNumber)
	case types.KindTuple:
		var names []*types.Type
		for i := range t.Members {
			lit := types.New(types.KindLiteral)
			lit.Literal = float64(i)
			names = append(names, lit)
		}
		return helpers.NormalizeUnion(names)
	default:
		return types.New(types.KindNever)
	}
}

func (s *session) execEnum(cur *program, ins codec.Instruction) error {
	members, err := cur.popFrame()
	if err != nil {
		return err
	}
	auto := 0
	enumMap := make(map[string]any, len(members))
	for _, m := range members {
		if m.Default == nil {
			m.Default = float64(auto)
			auto++
		} else if f, ok := m.Default.(float64); ok {
			auto = int(f) + 1
		}
		enumMap[m.Name] = m.Default
	}
	t := types.New(types.KindEnum)
	t.Name = cur.constString(int(ins.Args[0]))
	t.Members = members
	t.EnumMap = enumMap
	types.AdoptAll(t, members)
	cur.pushType(t)
	return nil
}
