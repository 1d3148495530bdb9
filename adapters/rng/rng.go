// Package rng provides deterministic random streams derived from a base seed.
package rng

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"gouncertain/domain/core"
)

// Adapter implements ports.RNGPort over PCG streams.
type Adapter struct{}

// NewAdapter creates a seeded stream adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s1, s2 := core.DeriveSeed(seed, name)
	return rand.New(rand.NewPCG(s1, s2)), nil
}

// Stream creates a deterministic RNG stream for one decision. Run identity is
// not an input, so replaying a seed in a later run draws the same samples.
func (a *Adapter) Stream(ctx context.Context, stageName, key string, baseSeed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s1, s2 := core.DeriveSeed(baseSeed, stageName, key)
	return rand.New(rand.NewPCG(s1, s2)), nil
}

// NewSeed generates a random base seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
