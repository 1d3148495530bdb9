package sprt

import (
	"fmt"
	"math"

	"gouncertain/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// The two simple hypotheses compared for a target offset p:
//
//	H_high: success probability 0.5*(1+p)
//	H_low:  success probability 0.5*p
func highHypothesis(target float64) distuv.Bernoulli {
	return distuv.Bernoulli{P: 0.5 * (1 + target)}
}

func lowHypothesis(target float64) distuv.Bernoulli {
	return distuv.Bernoulli{P: 0.5 * target}
}

func outcome(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// AcceptLikelihood is the probability H_high assigns to observing v.
func AcceptLikelihood(target float64, v bool) float64 {
	return highHypothesis(target).Prob(outcome(v))
}

// RejectLikelihood is the probability H_low assigns to observing v.
func RejectLikelihood(target float64, v bool) float64 {
	return lowHypothesis(target).Prob(outcome(v))
}

// LogLikelihoodRatio is the contribution of one observation to the test
// statistic: ln L_low(v) - ln L_high(v).
func LogLikelihoodRatio(target float64, v bool) float64 {
	x := outcome(v)
	return lowHypothesis(target).LogProb(x) - highHypothesis(target).LogProb(x)
}

// contributions caches the two possible per-sample terms for one target.
type contributions [2]float64

func (c contributions) of(v bool) float64 {
	if v {
		return c[1]
	}
	return c[0]
}

// newContributions rejects targets for which either hypothesis is not a
// proper probability or assigns zero mass to an outcome.
func newContributions(target float64) (contributions, error) {
	if math.IsNaN(target) || target <= -1 || target >= 1 {
		return contributions{}, fmt.Errorf("%w: %v", core.ErrTargetOutOfRange, target)
	}
	c := contributions{
		LogLikelihoodRatio(target, false),
		LogLikelihoodRatio(target, true),
	}
	for i, term := range c {
		if math.IsNaN(term) || math.IsInf(term, 0) {
			return contributions{}, fmt.Errorf("%w: target=%v observation=%t", core.ErrDegenerateHypothesis, target, i == 1)
		}
	}
	return c, nil
}
