// Package sprt decides boolean questions about probabilistic values with
// Wald's sequential probability ratio test.
//
// The evaluator draws samples in fixed-size batches and stops as soon as the
// accumulated log-likelihood ratio leaves the interval set by the configured
// reliabilities, or when the sample budget runs out. A run that exhausts its
// budget returns false; callers evaluating values whose success probability
// sits between the two hypotheses should inspect the outcome's Reason.
package sprt

import (
	"fmt"

	"gouncertain/domain/core"
	"gouncertain/domain/uncertain"
	"gouncertain/domain/verdict"
)

// Evaluator runs sequential probability ratio tests with a fixed stopping rule.
type Evaluator struct {
	config Config
	lower  float64
	upper  float64
}

// NewEvaluator validates config and precomputes its bounds.
func NewEvaluator(config Config) (*Evaluator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	lower, upper := config.Bounds()
	return &Evaluator{config: config, lower: lower, upper: upper}, nil
}

// Config returns the stopping rule in use.
func (e *Evaluator) Config() Config {
	return e.config
}

// Evaluate decides whether the success probability of pv clears the target
// offset. The target is validated before any sample is drawn. src starts a
// fresh session: memoized samples are discarded on entry and on return.
//
// Epoch 0 is observed once and counts as the first member of the first batch,
// so a test never draws more than Config.Budget samples.
func (e *Evaluator) Evaluate(target float64, pv uncertain.Uncertain[bool], src *uncertain.Source) (verdict.Outcome, error) {
	terms, err := newContributions(target)
	if err != nil {
		return verdict.Outcome{}, err
	}

	src.Reset()
	defer src.Reset()

	observe := func(epoch uint64) (float64, error) {
		v, err := pv.Sample(src, epoch)
		if err != nil {
			return 0, core.NewSamplingError(epoch, err)
		}
		return terms.of(v), nil
	}

	ratio, err := observe(0)
	if err != nil {
		return verdict.Outcome{}, err
	}

	out := verdict.Outcome{
		Target:     target,
		LowerBound: e.lower,
		UpperBound: e.upper,
		Samples:    1,
	}

	for batch := 1; batch <= e.config.MaxBatches; batch++ {
		end := batch * e.config.BatchSize
		var sum float64
		for ; out.Samples < end; out.Samples++ {
			term, err := observe(uint64(out.Samples))
			if err != nil {
				return verdict.Outcome{}, err
			}
			sum += term
		}
		ratio += sum
		out.Batches = batch

		if ratio > e.upper || ratio < e.lower {
			break
		}
	}

	out.LogLikelihoodRatio = ratio
	out.Verdict = e.classify(ratio)
	return out, nil
}

func (e *Evaluator) classify(ratio float64) verdict.Verdict {
	switch {
	case ratio < e.lower:
		return verdict.Verdict{Decision: verdict.DecisionAccepted, Reason: verdict.ReasonCrossedLower}
	case ratio > e.upper:
		return verdict.Verdict{Decision: verdict.DecisionRejected, Reason: verdict.ReasonCrossedUpper}
	default:
		return verdict.Verdict{Decision: verdict.DecisionRejected, Reason: verdict.ReasonBudgetExhausted}
	}
}

var defaultEvaluator = mustEvaluator(DefaultConfig())

func mustEvaluator(config Config) *Evaluator {
	e, err := NewEvaluator(config)
	if err != nil {
		panic(fmt.Sprintf("sprt: invalid evaluator config: %v", err))
	}
	return e
}

// SequentialProbabilityRatioTest runs a test with DefaultConfig and reports
// only the decision.
func SequentialProbabilityRatioTest(target float64, pv uncertain.Uncertain[bool], src *uncertain.Source) (bool, error) {
	out, err := defaultEvaluator.Evaluate(target, pv, src)
	if err != nil {
		return false, err
	}
	return out.Accepted(), nil
}
