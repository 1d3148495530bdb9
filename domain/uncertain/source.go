package uncertain

import (
	"math/rand/v2"

	"gouncertain/domain/core"
)

type memoKey struct {
	node  core.NodeID
	epoch uint64
}

// Source is the randomness shared by every node sampled during one evaluation
// session. Besides the random stream it holds the per-epoch memo that keeps a
// shared sub-expression consistent within an epoch.
//
// A Source is not safe for concurrent use. Concurrent evaluations must each
// own a private Source.
type Source struct {
	rng   *rand.Rand
	memo  map[memoKey]any
	draws int
}

// NewSource wraps rng, which must not be nil.
func NewSource(rng *rand.Rand) *Source {
	return &Source{
		rng:  rng,
		memo: make(map[memoKey]any),
	}
}

// NewSeededSource returns a Source over a PCG stream with the given seed words.
func NewSeededSource(seed1, seed2 uint64) *Source {
	return NewSource(rand.New(rand.NewPCG(seed1, seed2)))
}

// Rand exposes the underlying random stream.
func (s *Source) Rand() *rand.Rand {
	return s.rng
}

// Draws returns how many fresh leaf samples were taken since the last Reset.
func (s *Source) Draws() int {
	return s.draws
}

// Reset discards every memoized sample, ending the current session. The random
// stream itself is not rewound.
func (s *Source) Reset() {
	clear(s.memo)
	s.draws = 0
}

// Memoize returns the sample of node at epoch, calling draw only on the first
// request. Leaf implementations outside this package use it to honor the
// per-epoch idempotence invariant.
func Memoize[T any](s *Source, node core.NodeID, epoch uint64, draw func(*rand.Rand) (T, error)) (T, error) {
	key := memoKey{node: node, epoch: epoch}
	if cached, ok := s.memo[key]; ok {
		v, ok := cached.(T)
		if !ok {
			var zero T
			return zero, core.ErrTypeMismatch
		}
		return v, nil
	}

	v, err := draw(s.rng)
	if err != nil {
		var zero T
		return zero, err
	}
	s.memo[key] = v
	s.draws++
	return v, nil
}
