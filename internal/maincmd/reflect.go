package maincmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mna/mainer"
	"github.com/mna/reflectype/reflect/codec"
	"github.com/mna/reflectype/reflect/host"
	"github.com/mna/reflectype/reflect/types"
	"github.com/mna/reflectype/reflect/vm"
)

// fileProgram is the host.Value a CLI-assembled program is wrapped in: it
// has no decorators and is named after its source file.
type fileProgram struct {
	name   string
	packed *codec.Packed
}

func (f *fileProgram) Program() (*codec.Packed, bool) { return f.packed, f.packed != nil }
func (f *fileProgram) Name() string                   { return f.name }
func (f *fileProgram) Decorators() []host.DecoratorRecord { return nil }

func (c *Cmd) Reflect(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ReflectFile(ctx, stdio, args[0])
}

// ReflectFile assembles the textual program at path, executes it through a
// zero-value Processor, and prints the resulting type graph.
func ReflectFile(ctx context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return printError(stdio, err)
	}
	p, err := codec.Asm(string(src))
	if err != nil {
		return printError(stdio, err)
	}

	obj := &fileProgram{name: filepath.Base(path), packed: p}
	proc := &vm.Processor{}
	t, err := proc.Reflect(obj, nil)
	if err != nil {
		return printError(stdio, err)
	}
	if err := types.Print(stdio.Stdout, t); err != nil {
		return printError(stdio, err)
	}
	return nil
}
