package vm

import (
	"fmt"

	"github.com/mna/reflectype/reflect/codec"
	"github.com/mna/reflectype/reflect/helpers"
	"github.com/mna/reflectype/reflect/host"
	"github.com/mna/reflectype/reflect/types"
)

// resolvePackedThunk accepts either a directly-stored *codec.Packed or a
// lazy func() (*codec.Packed, bool) thunk in the constant pool, the two
// shapes `inline`/`inlineCall`/`classReference` constant-pool entries take.
func resolvePackedThunk(v any) (*codec.Packed, error) {
	switch p := v.(type) {
	case *codec.Packed:
		return p, nil
	case func() (*codec.Packed, bool):
		packed, ok := p()
		if !ok || packed == nil {
			return nil, fmt.Errorf("vm: inline: thunk did not resolve a program")
		}
		return packed, nil
	default:
		return nil, fmt.Errorf("vm: inline: constant pool entry %T is not a program reference", v)
	}
}

// execInline resolves the `inline` opcode: P == 0 is the
// self-reference overload, used for a type alias that refers to itself
// (chainInto pushes the current program's in-flight placeholder when it has
// one, and otherwise re-runs the current program with no inputs); any other P
// indexes the constant pool at P-1, since the 0 slot is reserved for the
// self-reference sentinel and legitimate references are shifted by one.
func (s *session) execInline(cur *program, p int) (*program, error) {
	var target *codec.Packed
	if p == 0 {
		target = cur.packed
	} else {
		var err error
		target, err = resolvePackedThunk(cur.constAt(p - 1))
		if err != nil {
			return nil, err
		}
	}
	return s.chainInto(cur, target, nil)
}

// execInlineCall resolves `inlineCall P, N`: pops N arguments and
// instantiates the referenced program with them as its inputs. Generic
// instantiations are never cached.
func (s *session) execInlineCall(cur *program, p, n int) (*program, error) {
	args, err := cur.popN(n)
	if err != nil {
		return nil, err
	}
	var target *codec.Packed
	if p == 0 {
		target = cur.packed
	} else {
		target, err = resolvePackedThunk(cur.constAt(p - 1))
		if err != nil {
			return nil, err
		}
	}
	return s.chainInto(cur, target, args)
}

// chainInto builds (or reuses the cached/in-flight result of) a nested
// program for target and arranges for the outer loop to chain into it,
// short-circuiting by pushing directly when a cached or cyclic-placeholder
// result is already available.
func (s *session) chainInto(cur *program, target *codec.Packed, inputs []*types.Type) (*program, error) {
	generic := len(inputs) > 0

	if placeholder, ok := s.inflight.Get(target); ok && !generic {
		cur.pushType(placeholder)
		return nil, nil
	}
	if !generic {
		if cached, ok := target.CachedType(); ok {
			if t, ok2 := cached.(*types.Type); ok2 {
				cur.pushType(t)
				return nil, nil
			}
		}
	}

	ops, err := target.Unpack()
	if err != nil {
		return nil, err
	}

	s.callDepth++
	if s.limits.MaxCallDepth > 0 && s.callDepth > s.limits.MaxCallDepth {
		return nil, ErrCallDepthExceeded
	}

	np := newProgram(target, ops, inputs)
	np.reuseCache = !generic

	if !generic {
		placeholder := types.New(types.KindInvalid)
		s.inflight.Put(target, placeholder)
		np.resultSlot = placeholder
	}

	return np, nil
}

// resolveClassReference resolves `classReference`'s constant-pool thunk to
// a host class and either returns its already-resolved type directly or
// chains into its program instantiated with inputs (the instantiation
// arguments popped from the frame the classReference opcode closes), per
// the same caching/placeholder rules as inline/inlineCall: a generic
// reference (len(inputs) > 0) never consults or populates the cache/
// in-flight table, since its result depends on the supplied arguments.
func (s *session) resolveClassReference(cur *program, v any, inputs []*types.Type) (*types.Type, *program, error) {
	thunk, ok := v.(host.ClassThunk)
	if !ok {
		return nil, nil, fmt.Errorf("vm: classReference: constant pool entry %T is not a class thunk", v)
	}
	cls, ok := thunk()
	if !ok || cls == nil {
		return nil, nil, ErrUnresolvedClassThunk
	}

	packed, hasProgram := cls.Program()
	if !hasProgram || packed == nil {
		t := types.New(types.KindClass)
		t.Name = cls.Name()
		t.ClassType = cls
		return t, nil, nil
	}

	generic := len(inputs) > 0

	if !generic {
		if placeholder, ok := s.inflight.Get(packed); ok {
			return placeholder, nil, nil
		}
		if cached, ok := packed.CachedType(); ok {
			if t, ok2 := cached.(*types.Type); ok2 {
				return t, nil, nil
			}
		}
	}

	ops, err := packed.Unpack()
	if err != nil {
		return nil, nil, err
	}
	s.callDepth++
	if s.limits.MaxCallDepth > 0 && s.callDepth > s.limits.MaxCallDepth {
		return nil, nil, ErrCallDepthExceeded
	}

	np := newProgram(packed, ops, inputs)
	np.reuseCache = !generic
	np.object = cls

	if !generic {
		placeholder := types.New(types.KindClass)
		placeholder.ClassType = types.ObjectPlaceholder
		placeholder.Name = cls.Name()
		s.inflight.Put(packed, placeholder)
		np.resultSlot = placeholder
	}

	return nil, np, nil
}

// applyDecorators attaches a class's deferred decorator records to
// the resolved type graph as annotations. Go has no runtime decorator
// mechanism to re-enter, so "applying" a decorator means recording its
// payload on the member (or the class itself) it targets, for a downstream
// consumer (e.g. a validation library reading Annotations) to act on.
func applyDecorators(result *types.Type, object host.Value) {
	const annotationKey = "decorator"
	for _, d := range object.Decorators() {
		target := result
		if d.Property != "" {
			target = helpers.GetMember(result, d.Property)
			if target == nil {
				continue
			}
		}
		if d.ParameterIndex >= 0 && d.ParameterIndex < len(target.Parameters) {
			target.Parameters[d.ParameterIndex].Annotate(annotationKey, d.Data)
			continue
		}
		target.Annotate(annotationKey, d.Data)
	}
}
