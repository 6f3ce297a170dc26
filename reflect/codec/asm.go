package codec

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

// This file implements a human-readable assembly form of a Packed program,
// used by tests to build fixtures without going through an encoder (which
// is out of scope for this module). It covers constant-pool entries
// representable as literals (strings, ints, floats, bools); stack entries
// that must be Go closures (class thunks, typeof thunks) are out of reach
// of this format and are built programmatically in tests that need them.
//
// Grammar:
//
//	stack:
//		string "abc"
//		int    42
//		float  3.14
//		bool   true
//	ops:
//		literal 0
//		widen
//		property 1
//
// Both sections are optional, but at least one must produce a valid
// program. Order of stack entries determines their index.

// Asm assembles the textual form into a Packed.
func Asm(src string) (*Packed, error) {
	sc := bufio.NewScanner(strings.NewReader(src))
	var (
		stack   []any
		ops     []Instruction
		section string
	)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "stack:" {
			section = "stack"
			continue
		}
		if line == "ops:" {
			section = "ops"
			continue
		}
		fields := strings.Fields(line)
		switch section {
		case "stack":
			v, err := parseStackEntry(fields)
			if err != nil {
				return nil, fmt.Errorf("codec: asm line %d: %w", lineNo, err)
			}
			stack = append(stack, v)
		case "ops":
			ins, err := parseInstruction(fields)
			if err != nil {
				return nil, fmt.Errorf("codec: asm line %d: %w", lineNo, err)
			}
			ops = append(ops, ins)
		default:
			return nil, fmt.Errorf("codec: asm line %d: statement outside of a section: %q", lineNo, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return Pack(stack, ops)
}

func parseStackEntry(fields []string) (any, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("invalid stack entry: %q", strings.Join(fields, " "))
	}
	rest := strings.Join(fields[1:], " ")
	switch fields[0] {
	case "string", "name":
		s, err := strconv.Unquote(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid quoted string %q: %w", rest, err)
		}
		return s, nil
	case "int":
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return nil, err
		}
		return float64(n), nil
	case "float":
		f, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "bool":
		b, err := strconv.ParseBool(rest)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown stack entry kind: %s", fields[0])
	}
}

func parseInstruction(fields []string) (Instruction, error) {
	if len(fields) == 0 {
		return Instruction{}, fmt.Errorf("empty instruction")
	}
	op, ok := ParseOp(fields[0])
	if !ok {
		return Instruction{}, fmt.Errorf("unknown opcode mnemonic: %s", fields[0])
	}
	want := Arity(op)
	if len(fields)-1 != want {
		return Instruction{}, fmt.Errorf("%s expects %d operands, got %d", op, want, len(fields)-1)
	}
	args := make([]uint32, want)
	for i, f := range fields[1:] {
		n, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return Instruction{}, fmt.Errorf("invalid operand %q for %s: %w", f, op, err)
		}
		args[i] = uint32(n)
	}
	return Instruction{Op: op, Args: args}, nil
}

// Disasm renders a Packed's decoded instructions back to the textual
// mnemonic form (without the stack section), for the "dump" CLI command.
func Disasm(p *Packed) (string, error) {
	ops, err := p.Unpack()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, ins := range ops {
		fmt.Fprintf(&sb, "%4d: %s", i, ins.Op)
		for _, a := range ins.Args {
			fmt.Fprintf(&sb, " %d", a)
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
