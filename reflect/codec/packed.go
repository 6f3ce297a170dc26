// Package codec implements the Packed on-value representation: a
// constant pool plus a compact opcode stream, and the decode/encode
// functions that translate between the two and a slice of Instructions the
// Processor can execute.
package codec

import (
	"fmt"
	"strings"
	"sync"
)

// codePointBase is subtracted from (added to, when encoding) each rune of
// the opcode stream to recover (produce) the small integer value it
// encodes: each character's code point minus 33 is one opcode.
const codePointBase = 33

// Instruction is one decoded opcode plus its operand values, in source
// order within a program.
type Instruction struct {
	Op   Op
	Args []uint32
}

// Packed is the carrier described in: an ordered sequence whose last
// element is the encoded opcode string; every preceding element is the
// constant pool (names, thunks, literal payloads, default-value thunks).
type Packed struct {
	Elems []any // Elems[len(Elems)-1] must be a string

	once       sync.Once
	decodedOps []Instruction
	decodedErr error

	cacheOnce   sync.Once
	cachedReady bool
	cached      any // *types.Type, stored as any to avoid an import cycle with reflect/types
}

// New builds a Packed from a constant-pool stack and an already-encoded
// opcode string.
func New(stack []any, opcodes string) *Packed {
	return &Packed{Elems: append(append([]any(nil), stack...), opcodes)}
}

// Stack returns the constant pool (every element but the trailing opcode
// string).
func (p *Packed) Stack() []any {
	if len(p.Elems) == 0 {
		return nil
	}
	return p.Elems[:len(p.Elems)-1]
}

// At returns the constant-pool entry at index i. It panics on an
// out-of-range index, mirroring the VM's "encoder/VM contract violation"
// fail-fast stance — a bad index is a codec/encoder bug, not a
// recoverable runtime condition.
func (p *Packed) At(i int) any {
	return p.Stack()[i]
}

// OpString returns the trailing encoded opcode string.
func (p *Packed) OpString() string {
	if len(p.Elems) == 0 {
		return ""
	}
	s, _ := p.Elems[len(p.Elems)-1].(string)
	return s
}

// Unpack decodes the opcode string into a slice of Instructions. The result
// is memoized on the Packed carrier per ("the unpacked (ops, stack)
// is memoized ... first unpack call; thereafter reused").
func (p *Packed) Unpack() ([]Instruction, error) {
	p.once.Do(func() {
		p.decodedOps, p.decodedErr = UnpackOps(p.OpString())
	})
	return p.decodedOps, p.decodedErr
}

// CachedType returns the memoized non-generic resolution, if any, and
// whether one is present. Stored as `any` here to keep this package free of
// a dependency on reflect/types; reflect/vm performs the type assertion.
func (p *Packed) CachedType() (any, bool) {
	return p.cached, p.cachedReady
}

// SetCachedType stores the non-generic resolution for reuse (only for
// reuseCached requests with no generic inputs). Subsequent calls are
// no-ops: the first cache write wins, mirroring the memoize-once pattern
// used for decoded bytecode.
func (p *Packed) SetCachedType(t any) {
	p.cacheOnce.Do(func() {
		p.cached = t
		p.cachedReady = true
	})
}

// UnpackOps decodes a raw opcode string into Instructions.
func UnpackOps(s string) ([]Instruction, error) {
	runes := []rune(s)
	var out []Instruction
	i := 0
	for i < len(runes) {
		v := int(runes[i]) - codePointBase
		if v < 0 {
			return nil, fmt.Errorf("codec: invalid opcode char at offset %d: %q", i, runes[i])
		}
		op := Op(v)
		i++
		n := Arity(op)
		if i+n > len(runes) {
			return nil, fmt.Errorf("codec: truncated operands for %s at offset %d", op, i)
		}
		var args []uint32
		if n > 0 {
			args = make([]uint32, n)
		}
		for k := 0; k < n; k++ {
			av := int(runes[i]) - codePointBase
			if av < 0 {
				return nil, fmt.Errorf("codec: invalid operand char at offset %d: %q", i, runes[i])
			}
			args[k] = uint32(av)
			i++
		}
		out = append(out, Instruction{Op: op, Args: args})
	}
	return out, nil
}

// EncodeOps is the inverse of UnpackOps: it serializes a slice of
// Instructions back into the packed opcode string.
func EncodeOps(ops []Instruction) (string, error) {
	var sb strings.Builder
	for _, ins := range ops {
		if int(ins.Op) < 0 {
			return "", fmt.Errorf("codec: invalid opcode %v", ins.Op)
		}
		if want := Arity(ins.Op); want != len(ins.Args) {
			return "", fmt.Errorf("codec: %s expects %d operands, got %d", ins.Op, want, len(ins.Args))
		}
		sb.WriteRune(rune(int(ins.Op) + codePointBase))
		for _, a := range ins.Args {
			sb.WriteRune(rune(int(a) + codePointBase))
		}
	}
	return sb.String(), nil
}

// Pack builds a Packed carrier from a constant-pool stack and a decoded
// instruction slice, encoding the instructions to their opcode-string form.
// This is the `pack` entry point of; together with Unpack it satisfies
// the round-trip property of.
func Pack(stack []any, ops []Instruction) (*Packed, error) {
	s, err := EncodeOps(ops)
	if err != nil {
		return nil, err
	}
	return New(stack, s), nil
}
