// Package uncertain models values known only through a sampling procedure.
//
// A value is a node in a lazily evaluated graph. Sampling a node at an epoch
// yields one realization; asking again within the same epoch and Source yields
// the same realization, so composite values built over shared sub-expressions
// keep their statistical dependence.
package uncertain

import (
	"math/rand/v2"

	"gouncertain/domain/core"
)

// Uncertain is a probabilistic value of type T.
type Uncertain[T any] interface {
	// Sample returns the realization of the value at epoch. Leaves consume
	// randomness from src on the first request per epoch; errors from upstream
	// nodes or transform functions propagate unchanged.
	Sample(src *Source, epoch uint64) (T, error)
}

// Leaf is a primitive value backed by a draw function.
type Leaf[T any] struct {
	id   core.NodeID
	draw func(*rand.Rand) T
}

// FromFunc builds a leaf whose realizations come from draw. Parameter checks
// belong in the caller, before FromFunc is reached.
func FromFunc[T any](draw func(*rand.Rand) T) *Leaf[T] {
	return &Leaf[T]{id: core.NewNodeID(), draw: draw}
}

// ID returns the node identity used as memo key.
func (l *Leaf[T]) ID() core.NodeID {
	return l.id
}

func (l *Leaf[T]) Sample(src *Source, epoch uint64) (T, error) {
	return Memoize(src, l.id, epoch, func(r *rand.Rand) (T, error) {
		return l.draw(r), nil
	})
}

// Constant is a value with no uncertainty.
type Constant[T any] struct {
	value T
}

// Point wraps v as a probabilistic value that always samples to v.
func Point[T any](v T) Constant[T] {
	return Constant[T]{value: v}
}

func (c Constant[T]) Sample(*Source, uint64) (T, error) {
	return c.value, nil
}

// Samples draws n consecutive epochs of u starting at from.
func Samples[T any](u Uncertain[T], src *Source, from uint64, n int) ([]T, error) {
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		epoch := from + uint64(i)
		v, err := u.Sample(src, epoch)
		if err != nil {
			return out, core.NewSamplingError(epoch, err)
		}
		out = append(out, v)
	}
	return out, nil
}
