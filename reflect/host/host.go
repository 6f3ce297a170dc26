// Package host defines the narrow interface the Processor uses to interop
// with host classes and functions: reflection logic stays host-agnostic by
// depending only on this interface rather than a concrete class/function
// representation, the same narrowing lang/machine/value.go applies to its
// Callable/HasAttrs interfaces.
package host

import "github.com/mna/reflectype/reflect/codec"

// Value is any host artefact the VM can be asked to reflect: a class, a
// function, or a raw Packed program.
type Value interface {
	// Program returns the artefact's attached encoded type program, if any.
	Program() (*codec.Packed, bool)
	// Name returns a diagnostic name, or "" if anonymous.
	Name() string
	// Decorators returns the deferred decorator records attached to this
	// artefact by the host's decorator application machinery.
	Decorators() []DecoratorRecord
}

// DecoratorRecord is one deferred decorator application, attached to a host
// class after a `class` program terminates.
type DecoratorRecord struct {
	// Data is the decorator payload. Only validator functions are supported
	// at this stage.
	Data any
	// Property names the target member; empty for a class-level decorator.
	Property string
	// ParameterIndex, when >= 0, targets a constructor/method parameter
	// instead of the member itself.
	ParameterIndex int
}

// Class is a host class: a Value whose reflection produces a `class` node,
// and which can be instantiated with type arguments by `classReference`.
type Class interface {
	Value
}

// ClassThunk resolves a deferred reference to a host class, as stored in a
// Packed's constant pool for the `classReference` opcode. A thunk
// returning (nil, false) or a nil Class is an unresolved-class-thunk error.
type ClassThunk func() (Class, bool)
