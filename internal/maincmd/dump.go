package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/mna/reflectype/reflect/codec"
)

func (c *Cmd) Dump(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DumpFile(ctx, stdio, args[0])
}

// DumpFile assembles the textual program at path and prints its decoded,
// indexed instruction listing.
func DumpFile(ctx context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return printError(stdio, err)
	}
	p, err := codec.Asm(string(src))
	if err != nil {
		return printError(stdio, err)
	}
	out, err := codec.Disasm(p)
	if err != nil {
		return printError(stdio, err)
	}
	fmt.Fprint(stdio.Stdout, out)
	return nil
}
