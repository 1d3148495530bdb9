package run

import (
	"fmt"

	"gouncertain/domain/core"
	"gouncertain/domain/verdict"
)

// Record is the audit trail of one decision. It is what the ledger stores and
// what the API returns.
type Record struct {
	RunID        core.RunID        `json:"run_id"`
	HypothesisID core.HypothesisID `json:"hypothesis_id"`
	Seed         int64             `json:"seed"`
	Outcome      verdict.Outcome   `json:"outcome"`
	Fingerprint  core.Hash         `json:"fingerprint"`
	DecidedAt    core.Timestamp    `json:"decided_at"`
	RuntimeMs    int64             `json:"runtime_ms"`
}

// NewFingerprint identifies a decision by its inputs and result. Replaying the
// same run, hypothesis, target and seed reproduces it. The final ratio and the
// bounds are included, so two different values decided under one hypothesis ID
// only collide if every sample contributed identically.
func NewFingerprint(runID core.RunID, hypothesisID core.HypothesisID, seed int64, out verdict.Outcome) core.Hash {
	data := fmt.Sprintf("run:%s|hypothesis:%s|target:%g|seed:%d|decision:%s|samples:%d|llr:%g|bounds:%g,%g",
		runID, hypothesisID, out.Target, seed, out.Decision, out.Samples,
		out.LogLikelihoodRatio, out.LowerBound, out.UpperBound)
	return core.NewHash([]byte(data))
}
