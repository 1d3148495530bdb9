package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"gouncertain/domain/core"
	"gouncertain/domain/run"
	"gouncertain/domain/uncertain"
	"gouncertain/domain/verdict"
	"gouncertain/internal"
	"gouncertain/internal/errors"
	"gouncertain/ports"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"
)

const (
	stageDecision    = "sprt"
	stageReliability = "reliability"
)

// DecisionService runs sequential decisions over boolean probabilistic values.
// Every decision gets a private Source derived from its hypothesis and seed, so
// replaying a seed reproduces the outcome in any run and decisions may run
// concurrently. The run only groups decisions in the ledger.
type DecisionService struct {
	evaluator     ports.HypothesisEvaluator
	rngPort       ports.RNGPort
	ledger        ports.LedgerWriterPort
	logger        *internal.Logger
	maxConcurrent int64
}

// DecisionRequest defines one boolean question
type DecisionRequest struct {
	HypothesisID core.HypothesisID
	Target       float64
	Value        uncertain.Uncertain[bool]
	Seed         int64
}

// DecisionReport contains a decision with its audit trail
type DecisionReport = run.Record

// ReliabilitySummary describes repeated decisions of one hypothesis over
// independent streams
type ReliabilitySummary struct {
	HypothesisID  core.HypothesisID `json:"hypothesis_id"`
	Runs          int               `json:"runs"`
	AcceptedRate  float64           `json:"accepted_rate"`
	ForcedRate    float64           `json:"forced_rate"`
	MeanSamples   float64           `json:"mean_samples"`
	MedianSamples float64           `json:"median_samples"`
	StdDevSamples float64           `json:"stddev_samples"`
	P95Samples    float64           `json:"p95_samples"`
	MaxSamples    float64           `json:"max_samples"`
}

// NewDecisionService creates a decision service. maxConcurrent bounds DecideAll.
func NewDecisionService(evaluator ports.HypothesisEvaluator, rngPort ports.RNGPort, logger *internal.Logger, maxConcurrent int) *DecisionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &DecisionService{
		evaluator:     evaluator,
		rngPort:       rngPort,
		logger:        logger.With("decision"),
		maxConcurrent: int64(maxConcurrent),
	}
}

// WithLedger records every successful decision in ledger
func (s *DecisionService) WithLedger(ledger ports.LedgerWriterPort) *DecisionService {
	s.ledger = ledger
	return s
}

// Decide evaluates one request and records it under runID
func (s *DecisionService) Decide(ctx context.Context, runID core.RunID, req DecisionRequest) (*DecisionReport, error) {
	if req.Value == nil {
		return nil, errors.InvalidInput("decision request has no value to sample")
	}
	if req.HypothesisID == "" {
		req.HypothesisID = core.HypothesisID(core.NewID())
	}

	startTime := time.Now()
	out, err := s.evaluate(ctx, stageDecision, req.HypothesisID.String(), req)
	if err != nil {
		s.logger.Error("hypothesis %s: %v", req.HypothesisID, err)
		return nil, errors.FromDomain(err, fmt.Sprintf("decision for hypothesis %s failed", req.HypothesisID))
	}

	if out.Reason.Forced() {
		s.logger.Warn("hypothesis %s: budget exhausted after %d samples (llr=%.3f); forced %s",
			req.HypothesisID, out.Samples, out.LogLikelihoodRatio, out.Decision)
	} else {
		s.logger.Info("hypothesis %s: %s (%s) after %d samples",
			req.HypothesisID, out.Decision, out.Reason, out.Samples)
	}

	report := &DecisionReport{
		RunID:        runID,
		HypothesisID: req.HypothesisID,
		Seed:         req.Seed,
		Outcome:      out,
		Fingerprint:  run.NewFingerprint(runID, req.HypothesisID, req.Seed, out),
		DecidedAt:    core.Now(),
		RuntimeMs:    time.Since(startTime).Milliseconds(),
	}

	if s.ledger != nil {
		if err := s.ledger.StoreRecord(ctx, report); err != nil {
			s.logger.Error("hypothesis %s: failed to record decision %s: %v", req.HypothesisID, report.Fingerprint, err)
			return nil, errors.Wrapf(err, "failed to record decision %s", report.Fingerprint)
		}
	}

	return report, nil
}

// DecisionResult pairs one batched request with its report or the error that
// prevented it
type DecisionResult struct {
	Report *DecisionReport
	Err    error
}

// DecideAll evaluates independent requests concurrently under one run.
// Results keep the order of reqs. The returned error joins every item error;
// requests skipped after ctx is done carry the context error. A hypothesis ID
// may appear once per run; later repeats fail with INVALID_INPUT.
func (s *DecisionService) DecideAll(ctx context.Context, reqs []DecisionRequest) ([]DecisionResult, error) {
	runID := core.NewRunID()
	s.logger.Debug("run %s: %d decisions, at most %d concurrent", runID, len(reqs), s.maxConcurrent)

	sem := semaphore.NewWeighted(s.maxConcurrent)
	results := make([]DecisionResult, len(reqs))
	seen := make(map[core.HypothesisID]int, len(reqs))
	var wg sync.WaitGroup

	for i, req := range reqs {
		if req.HypothesisID != "" {
			if first, dup := seen[req.HypothesisID]; dup {
				results[i].Err = errors.InvalidInput(fmt.Sprintf(
					"hypothesis %s already decided by request %d of this run", req.HypothesisID, first))
				continue
			}
			seen[req.HypothesisID] = i
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(reqs); j++ {
				results[j].Err = fmt.Errorf("decision %d not started: %w", j, err)
			}
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			results[i].Report, results[i].Err = s.Decide(ctx, runID, req)
		}()
	}
	wg.Wait()

	errs := make([]error, 0, len(results))
	for _, r := range results {
		errs = append(errs, r.Err)
	}
	return results, stderrors.Join(errs...)
}

// Reliability repeats the decision of req over runs independent streams and
// summarizes how often it accepts and how many samples it needs.
func (s *DecisionService) Reliability(ctx context.Context, req DecisionRequest, runs int) (*ReliabilitySummary, error) {
	if runs <= 0 {
		return nil, errors.InvalidInput("reliability needs at least one run")
	}
	if req.Value == nil {
		return nil, errors.InvalidInput("decision request has no value to sample")
	}
	if req.HypothesisID == "" {
		req.HypothesisID = core.HypothesisID(core.NewID())
	}

	samples := make([]float64, 0, runs)
	accepted, forced := 0, 0

	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "reliability interrupted after %d runs", i)
		}
		key := fmt.Sprintf("%s/%d", req.HypothesisID, i)
		out, err := s.evaluate(ctx, stageReliability, key, req)
		if err != nil {
			return nil, errors.FromDomain(err, fmt.Sprintf("reliability run %d failed", i))
		}
		if out.Accepted() {
			accepted++
		}
		if out.Reason.Forced() {
			forced++
		}
		samples = append(samples, float64(out.Samples))
	}

	summary, err := summarizeSamples(samples)
	if err != nil {
		return nil, errors.Wrap(err, "failed to summarize sample counts")
	}
	summary.HypothesisID = req.HypothesisID
	summary.Runs = runs
	summary.AcceptedRate = float64(accepted) / float64(runs)
	summary.ForcedRate = float64(forced) / float64(runs)

	s.logger.Info("hypothesis %s: accepted %.1f%% of %d runs, mean %.1f samples",
		req.HypothesisID, 100*summary.AcceptedRate, runs, summary.MeanSamples)
	return summary, nil
}

func (s *DecisionService) evaluate(ctx context.Context, stage, key string, req DecisionRequest) (verdict.Outcome, error) {
	r, err := s.rngPort.Stream(ctx, stage, key, req.Seed)
	if err != nil {
		return verdict.Outcome{}, err
	}
	return s.evaluator.Evaluate(req.Target, req.Value, uncertain.NewSource(r))
}

func summarizeSamples(samples []float64) (*ReliabilitySummary, error) {
	data := stats.Float64Data(samples)

	mean, err := data.Mean()
	if err != nil {
		return nil, err
	}
	median, err := data.Median()
	if err != nil {
		return nil, err
	}
	stddev, err := data.StandardDeviation()
	if err != nil {
		return nil, err
	}
	p95, err := data.Percentile(95)
	if err != nil {
		return nil, err
	}
	maxSamples, err := data.Max()
	if err != nil {
		return nil, err
	}

	return &ReliabilitySummary{
		MeanSamples:   mean,
		MedianSamples: median,
		StdDevSamples: stddev,
		P95Samples:    p95,
		MaxSamples:    maxSamples,
	}, nil
}
