package distributions

import (
	"fmt"
	"strings"

	"gouncertain/domain/core"
	"gouncertain/domain/uncertain"
)

// Supported distribution kinds
const (
	KindBernoulli   = "bernoulli"
	KindNormal      = "normal"
	KindUniform     = "uniform"
	KindExponential = "exponential"
	KindPoisson     = "poisson"
)

// Spec describes a boolean question about one named distribution. A Bernoulli
// spec is its own answer; every other kind asks whether a draw exceeds Threshold.
type Spec struct {
	Kind      string  `json:"kind"`
	P         float64 `json:"p,omitempty"`
	Mean      float64 `json:"mean,omitempty"`
	StdDev    float64 `json:"stddev,omitempty"`
	Min       float64 `json:"min,omitempty"`
	Max       float64 `json:"max,omitempty"`
	Rate      float64 `json:"rate,omitempty"`
	Lambda    float64 `json:"lambda,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// Boolean builds the probabilistic value the spec describes
func (s Spec) Boolean() (uncertain.Uncertain[bool], error) {
	kind := strings.ToLower(strings.TrimSpace(s.Kind))
	if kind == KindBernoulli {
		return Bernoulli(s.P)
	}

	leaf, err := s.continuous(kind)
	if err != nil {
		return nil, err
	}
	threshold := s.Threshold
	return uncertain.Map(leaf, func(x float64) bool { return x > threshold }), nil
}

func (s Spec) continuous(kind string) (*uncertain.Leaf[float64], error) {
	switch kind {
	case KindNormal:
		return Normal(s.Mean, s.StdDev)
	case KindUniform:
		return Uniform(s.Min, s.Max)
	case KindExponential:
		return Exponential(s.Rate)
	case KindPoisson:
		return Poisson(s.Lambda)
	default:
		return nil, fmt.Errorf("%w: unknown distribution %q", core.ErrInvalidParameter, s.Kind)
	}
}

// String renders the spec for logs and CLI output
func (s Spec) String() string {
	switch strings.ToLower(s.Kind) {
	case KindBernoulli:
		return fmt.Sprintf("Bernoulli(%g)", s.P)
	case KindNormal:
		return fmt.Sprintf("Normal(%g, %g) > %g", s.Mean, s.StdDev, s.Threshold)
	case KindUniform:
		return fmt.Sprintf("Uniform(%g, %g) > %g", s.Min, s.Max, s.Threshold)
	case KindExponential:
		return fmt.Sprintf("Exponential(%g) > %g", s.Rate, s.Threshold)
	case KindPoisson:
		return fmt.Sprintf("Poisson(%g) > %g", s.Lambda, s.Threshold)
	default:
		return s.Kind
	}
}
