// Package vm implements the Processor: the stack-based bytecode
// interpreter that walks a Packed program and reconstructs the
// structural type graph it encodes. Its dispatch loop, resource limits and
// call-frame chain are adapted from lang/machine's (machine.go's dispatch
// loop, thread.go's resource limits, frame.go's call-frame chain),
// generalized from a general-purpose language VM to this narrower,
// single-purpose type-graph interpreter.
package vm

import (
	"github.com/dolthub/swiss"
	"github.com/mna/reflectype/reflect/codec"
	"github.com/mna/reflectype/reflect/config"
	"github.com/mna/reflectype/reflect/helpers"
	"github.com/mna/reflectype/reflect/host"
	"github.com/mna/reflectype/reflect/types"
)

// inflightInitialCapacity seeds the in-flight placeholder table; most
// Reflect calls resolve a handful of nested/self-referential programs at
// once, so a small initial bucket count avoids a first-insert resize
// without over-allocating for the common shallow case.
const inflightInitialCapacity = 8

// Processor reflects host values and Packed programs into Type graphs. A
// zero-value Processor is ready to use; Limits and Decorators (both
// optional) customize resource bounds and intersection decorator
// classification respectively. OnOpcode, also optional, is a debugging/
// step-tracing hook invoked before every instruction dispatch.
type Processor struct {
	Limits     config.Limits
	Decorators *helpers.TypeDecoratorRegistry

	// OnOpcode, when set, is called with the Processor and the opcode about
	// to be dispatched, once per instruction across every program the
	// current Reflect/ResolveRuntimeType call chains into.
	OnOpcode func(*Processor, codec.Op)
}

// session is the per-Reflect-call mutable state: step/call-depth counters
// and the in-flight placeholder map that implements cycle handling.
// Keeping it out of Processor means concurrent Reflect calls on the same
// Processor never share mutable state.
type session struct {
	proc       *Processor
	limits     config.Limits
	decorators *helpers.TypeDecoratorRegistry
	steps      int
	callDepth  int
	inflight   *swiss.Map[*codec.Packed, *types.Type]
}

func (p *Processor) newSession() *session {
	reg := p.Decorators
	if reg == nil {
		reg = &helpers.DefaultDecoratorRegistry
	}
	return &session{
		proc:       p,
		limits:     p.Limits,
		decorators: reg,
		inflight:   swiss.NewMap[*codec.Packed, *types.Type](inflightInitialCapacity),
	}
}

// Reflect resolves object's attached program into a Type graph,
// instantiating it with inputs as top-level generic type arguments.
func (p *Processor) Reflect(object host.Value, inputs []*types.Type) (*types.Type, error) {
	packed, ok := object.Program()
	if !ok || packed == nil {
		return nil, ErrMissingProgram
	}
	s := p.newSession()
	return s.reflectPacked(packed, inputs, object)
}

// ResolveRuntimeType synthesizes a Type graph describing an arbitrary host
// value, using the encoded program attached to its constructor/class when
// present and the value inferer otherwise.
func (p *Processor) ResolveRuntimeType(value any, inputs []*types.Type) (*types.Type, error) {
	s := p.newSession()
	if obj, ok := value.(host.Value); ok {
		if packed, hasProgram := obj.Program(); hasProgram && packed != nil {
			return s.reflectPacked(packed, inputs, obj)
		}
	}
	return s.inferValue(value)
}

func (s *session) reflectPacked(packed *codec.Packed, inputs []*types.Type, object host.Value) (*types.Type, error) {
	ops, err := packed.Unpack()
	if err != nil {
		return nil, err
	}
	generic := len(inputs) > 0
	if !generic {
		if cached, ok := packed.CachedType(); ok {
			if t, ok2 := cached.(*types.Type); ok2 {
				return t, nil
			}
		}
	}
	root := newProgram(packed, ops, inputs)
	root.reuseCache = !generic
	root.object = object
	if !generic {
		placeholder := types.New(types.KindInvalid)
		s.inflight.Put(packed, placeholder)
		root.resultSlot = placeholder
	}
	return s.exec(root)
}

// exec runs the dispatch loop across a (possibly chained) sequence of
// programs until the root program terminates: when a program's PC reaches
// its end, its terminal result is pushed onto whatever program chained
// into it (or returned directly, for the root).
func (s *session) exec(root *program) (*types.Type, error) {
	cur := root
	for {
		if cur.pc >= cur.end {
			result, err := s.finish(cur)
			if err != nil {
				return nil, err
			}
			if cur.previous == nil {
				return result, nil
			}
			prev := cur.previous
			s.callDepth--
			prev.pushType(result)
			cur = prev
			continue
		}

		s.steps++
		if s.limits.MaxSteps > 0 && s.steps > s.limits.MaxSteps {
			return nil, &EvalError{Err: ErrStepLimitExceeded, PC: cur.pc}
		}

		ins := cur.ops[cur.pc]
		pc := cur.pc
		cur.pc++

		if s.proc.OnOpcode != nil {
			s.proc.OnOpcode(s.proc, ins.Op)
		}

		next, err := s.dispatch(cur, ins)
		if err != nil {
			return nil, &EvalError{Err: err, Op: ins.Op.String(), PC: pc}
		}
		if next != nil {
			next.previous = cur
			cur = next
		}
	}
}

// finish finalizes a terminated program: narrows a widened literal back to
// its original form, patches any placeholder handed out for a cyclic
// reference, applies class-decorator annotations, and writes the
// non-generic cache.
func (s *session) finish(cur *program) (*types.Type, error) {
	result, err := cur.popType()
	if err != nil {
		return nil, err
	}
	result = helpers.NarrowOriginalLiteral(result)

	if result != nil && result.Kind == types.KindClass && cur.object != nil {
		result.ClassType = cur.object
		applyDecorators(result, cur.object)
	}

	if cur.resultSlot != nil {
		cur.resultSlot.CopyInto(result)
		result = cur.resultSlot
	}

	if cur.reuseCache && cur.packed != nil {
		cur.packed.SetCachedType(result)
	}
	if cur.packed != nil {
		s.inflight.Delete(cur.packed)
	}

	return result, nil
}
