package verdict

// Decision is the answer of a sequential test.
type Decision string

const (
	// DecisionAccepted means the evidence favors the high hypothesis: the
	// log-likelihood ratio ended strictly below the lower stopping bound.
	DecisionAccepted Decision = "accepted"
	// DecisionRejected covers both a crossing of the upper bound and a run that
	// exhausted its sample budget without crossing either bound.
	DecisionRejected Decision = "rejected"
)

// Reason explains how a sequential test stopped
type Reason string

const (
	ReasonCrossedLower    Reason = "crossed_lower"
	ReasonCrossedUpper    Reason = "crossed_upper"
	ReasonBudgetExhausted Reason = "budget_exhausted"
)

// Forced reports whether the decision was taken without crossing a bound.
// Forced decisions always resolve to DecisionRejected.
func (r Reason) Forced() bool {
	return r == ReasonBudgetExhausted
}

// Verdict represents a judgment on a boolean hypothesis
type Verdict struct {
	Decision Decision `json:"decision"`
	Reason   Reason   `json:"reason"`
}

// Accepted reports whether the verdict is the boolean true answer.
func (v Verdict) Accepted() bool {
	return v.Decision == DecisionAccepted
}

// Outcome is the full result of one sequential test
type Outcome struct {
	Verdict
	Target             float64 `json:"target"`
	LogLikelihoodRatio float64 `json:"log_likelihood_ratio"`
	LowerBound         float64 `json:"lower_bound"`
	UpperBound         float64 `json:"upper_bound"`
	Samples            int     `json:"samples"`
	Batches            int     `json:"batches"`
}
