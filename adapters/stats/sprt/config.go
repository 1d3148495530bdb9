package sprt

import (
	"fmt"
	"math"

	"gouncertain/domain/core"
)

// Config holds the stopping rule of a sequential probability ratio test.
type Config struct {
	// ReliabilityHigh is the probability of correctly rejecting; it sets the upper bound.
	ReliabilityHigh float64 `json:"reliability_high"`
	// ReliabilityLow is the probability of correctly accepting; it sets the lower bound.
	ReliabilityLow float64 `json:"reliability_low"`
	BatchSize      int     `json:"batch_size"`
	MaxBatches     int     `json:"max_batches"`
}

// DefaultConfig returns the stopping rule with error rate 0.001 in each direction
// and a budget of 10,000 samples.
func DefaultConfig() Config {
	return Config{
		ReliabilityHigh: 0.999,
		ReliabilityLow:  0.999,
		BatchSize:       10,
		MaxBatches:      1000,
	}
}

// Validate checks that the bounds are finite and the budget is positive.
func (c Config) Validate() error {
	if r := c.ReliabilityHigh; math.IsNaN(r) || r <= 0 || r >= 1 {
		return fmt.Errorf("%w: reliability_high=%v", core.ErrInvalidReliability, r)
	}
	if r := c.ReliabilityLow; math.IsNaN(r) || r <= 0 || r >= 1 {
		return fmt.Errorf("%w: reliability_low=%v", core.ErrInvalidReliability, r)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size=%d", core.ErrInvalidBudget, c.BatchSize)
	}
	if c.MaxBatches <= 0 {
		return fmt.Errorf("%w: max_batches=%d", core.ErrInvalidBudget, c.MaxBatches)
	}
	return nil
}

// Bounds returns the stopping bounds on the accumulated log-likelihood ratio.
func (c Config) Bounds() (lower, upper float64) {
	upper = math.Log(c.ReliabilityHigh / (1 - c.ReliabilityHigh))
	lower = math.Log((1 - c.ReliabilityLow) / c.ReliabilityLow)
	return lower, upper
}

// Budget is the maximum number of samples a single test may draw.
func (c Config) Budget() int {
	return c.BatchSize * c.MaxBatches
}
