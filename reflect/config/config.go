// Package config carries the ambient resource limits for a Processor,
// loadable from the process environment via github.com/caarlos0/env/v6,
// mirroring lang/machine/thread.go's Thread.MaxSteps/MaxCallStackDepth/
// MaxCompareDepth fields.
package config

import "github.com/caarlos0/env/v6"

// Limits bounds the Processor's resource usage. A zero value means "no
// limit" for every field, matching Thread's "<= 0 means no limit"
// convention.
type Limits struct {
	// MaxSteps is the maximum number of opcode dispatches across a single
	// Reflect call before it fails fast.
	MaxSteps int `env:"REFLECTYPE_MAX_STEPS" envDefault:"0"`
	// MaxCallDepth limits the nesting of program() calls (recursive
	// generics, recursive classReference resolution).
	MaxCallDepth int `env:"REFLECTYPE_MAX_CALL_DEPTH" envDefault:"0"`
	// MaxCompareDepth is loaded with the other limits, but nothing reads
	// it: neither the Processor nor types.Equal bounds the depth of a
	// structural comparison.
	MaxCompareDepth int `env:"REFLECTYPE_MAX_COMPARE_DEPTH" envDefault:"0"`
}

// FromEnv loads Limits from environment variables, applying the struct
// tag defaults above for anything unset.
func FromEnv() (Limits, error) {
	var l Limits
	if err := env.Parse(&l); err != nil {
		return Limits{}, err
	}
	return l, nil
}
