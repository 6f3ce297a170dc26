package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/reflectype/reflect/codec"
)

func (c *Cmd) Asm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return AsmFile(ctx, stdio, args[0])
}

// AsmFile assembles the textual program at path and prints its constant
// pool followed by the raw encoded opcode string.
func AsmFile(ctx context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return printError(stdio, err)
	}
	p, err := codec.Asm(string(src))
	if err != nil {
		return printError(stdio, err)
	}
	for i, v := range p.Stack() {
		fmt.Fprintf(stdio.Stdout, "stack[%d]: %v\n", i, v)
	}
	fmt.Fprintf(stdio.Stdout, "ops: %s\n", p.OpString())
	return nil
}
