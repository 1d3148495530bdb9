package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrTargetOutOfRange     = fmt.Errorf("%w: target offset outside (-1, 1)", ErrInvalidConfig)
	ErrDegenerateHypothesis = fmt.Errorf("%w: hypothesis yields non-finite log-likelihood", ErrInvalidConfig)
	ErrInvalidReliability   = fmt.Errorf("%w: reliability outside (0, 1)", ErrInvalidConfig)
	ErrInvalidBudget        = fmt.Errorf("%w: sample budget must be positive", ErrInvalidConfig)

	// Leaf construction errors
	ErrInvalidParameter = errors.New("invalid distribution parameter")

	// Sampling errors
	ErrSamplingFailed = errors.New("sampling failed")
	ErrTypeMismatch   = fmt.Errorf("%w: memoized sample has unexpected type", ErrSamplingFailed)

	// Ledger errors
	ErrNotFound = errors.New("not found")
)

// NewParameterError reports a distribution parameter rejected at construction.
func NewParameterError(dist, param string, value float64) error {
	return fmt.Errorf("%w: %s %s=%v", ErrInvalidParameter, dist, param, value)
}

// NewSamplingError wraps an upstream failure observed at epoch.
func NewSamplingError(epoch uint64, err error) error {
	return fmt.Errorf("%w at epoch %d: %w", ErrSamplingFailed, epoch, err)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrInvalidParameter)
}

func IsSamplingError(err error) bool {
	return errors.Is(err, ErrSamplingFailed)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
