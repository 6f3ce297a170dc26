package vm

import (
	"github.com/mna/reflectype/reflect/codec"
	"github.com/mna/reflectype/reflect/host"
	"github.com/mna/reflectype/reflect/types"
)

// callFrame is one entry of a program's frame chain, opened by call/frame
// and closed by return/moveFrame/popFrame. It never crosses a program
// boundary: a chained program (inline, classReference, a nested Reflect for
// a plain-object member) starts its own frame chain from scratch.
type callFrame struct {
	startIndex int // stack index of the pushed return address/sentinel
	variables  int // count of leading local slots (var/typeParameter) in this frame
	previous   *callFrame

	distribLoop *distributeLoop
	mappedLoop  *mappedLoop
}

// distributeLoop is the iterator state the `distribute` opcode installs in
// the enclosing frame on its first dispatch and drives to completion across
// repeated re-dispatches.
type distributeLoop struct {
	members []*types.Type
	i       int
	results []*types.Type
}

// mappedLoop is the iterator state the `mappedType` opcode installs on its
// first dispatch.
type mappedLoop struct {
	keys    []*types.Type
	i       int
	members []*types.Type
}

// program is one Packed's execution state: a decoded instruction stream, a
// constant pool, an operand stack and a call-frame chain, plus the
// bookkeeping needed to chain into and resume from other programs
// (classReference, inline and inlineCall). The value inferer builds
// plain-object types directly and does not chain into a program for them.
type program struct {
	packed *codec.Packed
	ops    []codec.Instruction
	stack  []any // *types.Type operand entries, or int return addresses
	sp     int
	pc     int
	end    int

	frame *callFrame

	// inputs are the type arguments this invocation was instantiated with
	// (top-level generic parameters); consumed in order by typeParameter and
	// typeParameterDefault against the current frame's variables counter.
	inputs []*types.Type

	// resultSlot, when non-nil, is a placeholder node handed out before this
	// program ran; CopyInto patches it with the terminal result.
	resultSlot *types.Type

	// object is the host artefact (class/function) this program reflects,
	// if any; used by classReference/class-decorator wiring.
	object host.Value

	// previous is the program that chained into this one (nil for a root
	// invocation), resumed by pushing this program's terminal result onto
	// its stack.
	previous *program

	// reuseCache controls whether a non-generic terminal result is stored
	// back onto packed via SetCachedType.
	reuseCache bool
}

func newProgram(p *codec.Packed, ops []codec.Instruction, inputs []*types.Type) *program {
	return &program{
		packed: p,
		ops:    ops,
		end:    len(ops),
		frame:  &callFrame{startIndex: -1},
		inputs: inputs,
	}
}

func (p *program) pushType(t *types.Type) {
	if p.sp < len(p.stack) {
		p.stack[p.sp] = t
	} else {
		p.stack = append(p.stack, t)
	}
	p.sp++
}

func (p *program) pushAddr(addr int) {
	if p.sp < len(p.stack) {
		p.stack[p.sp] = addr
	} else {
		p.stack = append(p.stack, addr)
	}
	p.sp++
}

func (p *program) popType() (*types.Type, error) {
	if p.sp == 0 {
		return nil, ErrStackUnderflow
	}
	p.sp--
	t, _ := p.stack[p.sp].(*types.Type)
	return t, nil
}

func (p *program) peekType() (*types.Type, error) {
	if p.sp == 0 {
		return nil, ErrStackUnderflow
	}
	t, _ := p.stack[p.sp-1].(*types.Type)
	return t, nil
}

// popN pops n types in source (push) order.
func (p *program) popN(n int) ([]*types.Type, error) {
	if p.sp < n {
		return nil, ErrStackUnderflow
	}
	out := make([]*types.Type, n)
	for i := n - 1; i >= 0; i-- {
		t, err := p.popType()
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (p *program) ancestorFrame(depth int) *callFrame {
	fr := p.frame
	for i := 0; i < depth && fr != nil; i++ {
		fr = fr.previous
	}
	return fr
}

// call opens a new frame for an intra-program jump to target, pushing a
// return address computed as the current PC (already advanced past this
// instruction by the dispatch loop) plus jumpBack: 0 for a normal
// call/return pair, -1 for the distribute/mappedType loop re-entry trick,
// which must land back on the loop opcode itself rather than the
// instruction after it.
func (p *program) call(target, jumpBack int) {
	ret := p.pc + jumpBack
	idx := p.sp
	p.pushAddr(ret)
	p.frame = &callFrame{startIndex: idx, previous: p.frame}
	p.pc = target
}

// ret pops the call frame opened by call, resuming at its return address.
func (p *program) ret() error {
	val, err := p.popType()
	if err != nil {
		return err
	}
	fr := p.frame
	if fr == nil || fr.startIndex < 0 {
		return ErrStackUnderflow
	}
	addr, ok := p.stack[fr.startIndex].(int)
	if !ok {
		return ErrStackUnderflow
	}
	p.sp = fr.startIndex
	p.pushType(val)
	p.frame = fr.previous
	p.pc = addr
	return nil
}

// openFrame opens a plain marker frame (no PC jump): used by the
// multi-value container opcodes (tuple, objectLiteral, union, ...) to
// bracket the members pushed before the matching popFrame/moveFrame.
func (p *program) openFrame() {
	idx := p.sp
	p.pushAddr(0) // sentinel, never read
	p.frame = &callFrame{startIndex: idx, previous: p.frame}
}

// popFrame collects every value pushed since the matching openFrame/call,
// excluding the sentinel/return-address slot and any local var/typeParameter
// slots, and closes the frame.
func (p *program) popFrame() ([]*types.Type, error) {
	fr := p.frame
	if fr == nil {
		return nil, ErrStackUnderflow
	}
	lo := fr.startIndex + fr.variables + 1
	if lo > p.sp {
		return nil, ErrStackUnderflow
	}
	out := make([]*types.Type, 0, p.sp-lo)
	for i := lo; i < p.sp; i++ {
		t, _ := p.stack[i].(*types.Type)
		out = append(out, t)
	}
	p.sp = fr.startIndex
	p.frame = fr.previous
	return out, nil
}

// moveFrame pops the top value, discards everything else the frame
// bracketed, and re-pushes that single value.
func (p *program) moveFrame() error {
	val, err := p.popType()
	if err != nil {
		return err
	}
	fr := p.frame
	if fr == nil {
		return ErrStackUnderflow
	}
	p.sp = fr.startIndex
	p.pushType(val)
	p.frame = fr.previous
	return nil
}

// writeLoopVar overwrites the current frame's first local slot (the
// conditional/mapped-type body's bound variable), declared earlier in the
// same frame by a `var` opcode.
func (p *program) writeLoopVar(t *types.Type) {
	slot := p.frame.startIndex + 1
	if slot < len(p.stack) {
		p.stack[slot] = t
	}
}
