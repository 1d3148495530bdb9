package ports

import (
	"context"
	"math/rand/v2"
)

// RNGPort provides seeded random streams for deterministic evaluations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for one decision.
	// The same stage, key and base seed always yield the same stream.
	Stream(ctx context.Context, stageName, key string, baseSeed int64) (*rand.Rand, error)
}
