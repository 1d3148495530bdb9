package testkit

import (
	"context"
	"fmt"
	"sync"

	"gouncertain/adapters/rng"
	"gouncertain/adapters/stats/distributions"
	"gouncertain/adapters/stats/sprt"
	"gouncertain/domain/uncertain"
	"gouncertain/ports"
)

// TestKit provides testing utilities and fixtures
type TestKit struct {
	rng       *rng.Adapter
	evaluator *sprt.Evaluator
}

// NewTestKit creates a test kit with the default stopping rule
func NewTestKit() (*TestKit, error) {
	return NewTestKitWithConfig(sprt.DefaultConfig())
}

// NewTestKitWithConfig creates a test kit evaluating with config
func NewTestKitWithConfig(config sprt.Config) (*TestKit, error) {
	evaluator, err := sprt.NewEvaluator(config)
	if err != nil {
		return nil, fmt.Errorf("testkit evaluator: %w", err)
	}
	return &TestKit{rng: rng.NewAdapter(), evaluator: evaluator}, nil
}

// RNGAdapter returns the seeded stream adapter
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return t.rng
}

// Evaluator returns the sequential evaluator
func (t *TestKit) Evaluator() ports.HypothesisEvaluator {
	return t.evaluator
}

// Source returns a fresh session over the stream named name
func (t *TestKit) Source(name string, seed int64) *uncertain.Source {
	r, err := t.rng.SeededStream(context.Background(), name, seed)
	if err != nil {
		panic(fmt.Sprintf("testkit: seeded stream: %v", err))
	}
	return uncertain.NewSource(r)
}

// Coin returns a Bernoulli fixture, panicking on an invalid p
func (t *TestKit) Coin(p float64) uncertain.Uncertain[bool] {
	coin, err := distributions.Bernoulli(p)
	if err != nil {
		panic(fmt.Sprintf("testkit: coin: %v", err))
	}
	return coin
}

// CountingValue wraps a boolean value and records every epoch requested from it.
// It is safe for use by concurrent decisions.
type CountingValue struct {
	inner uncertain.Uncertain[bool]

	mu    sync.Mutex
	calls map[uint64]int
	total int
}

// NewCountingValue wraps inner
func NewCountingValue(inner uncertain.Uncertain[bool]) *CountingValue {
	return &CountingValue{inner: inner, calls: make(map[uint64]int)}
}

func (c *CountingValue) Sample(src *uncertain.Source, epoch uint64) (bool, error) {
	c.mu.Lock()
	c.calls[epoch]++
	c.total++
	c.mu.Unlock()
	return c.inner.Sample(src, epoch)
}

// Total returns the number of Sample calls
func (c *CountingValue) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// MaxRepeats returns the highest number of requests for a single epoch
func (c *CountingValue) MaxRepeats() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	most := 0
	for _, n := range c.calls {
		if n > most {
			most = n
		}
	}
	return most
}

// FailingValue returns err from every epoch at or after FailAt.
type FailingValue struct {
	FailAt uint64
	Err    error
}

func (f FailingValue) Sample(src *uncertain.Source, epoch uint64) (bool, error) {
	if epoch >= f.FailAt {
		return false, f.Err
	}
	return epoch%2 == 0, nil
}
