package ports

import (
	"gouncertain/domain/uncertain"
	"gouncertain/domain/verdict"
)

// HypothesisEvaluator decides boolean questions about probabilistic values
type HypothesisEvaluator interface {
	Evaluate(target float64, pv uncertain.Uncertain[bool], src *uncertain.Source) (verdict.Outcome, error)
}
