package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gouncertain/adapters/rng"
	"gouncertain/adapters/stats/distributions"
	"gouncertain/app"
	"gouncertain/domain/core"
	"gouncertain/domain/run"
	"gouncertain/domain/uncertain"
	"gouncertain/internal/container"

	"github.com/spf13/cobra"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "gouncertain",
		Short: "Sequential decisions over uncertain boolean values",
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Optional .env file with SPRT_* and LOG_LEVEL settings")

	rootCmd.AddCommand(
		newDecideCmd(&envFile),
		newReliabilityCmd(&envFile),
		newSampleCmd(),
		newHistoryCmd(&envFile),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// questionFlags are shared by every command that builds a boolean value
type questionFlags struct {
	spec         distributions.Spec
	target       float64
	seed         int64
	hypothesisID string
	asJSON       bool
}

func (q *questionFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&q.spec.Kind, "kind", distributions.KindBernoulli, "Distribution: bernoulli|normal|uniform|exponential|poisson")
	f.Float64Var(&q.spec.P, "p", 0.5, "Bernoulli success probability")
	f.Float64Var(&q.spec.Mean, "mean", 0, "Normal mean")
	f.Float64Var(&q.spec.StdDev, "stddev", 1, "Normal standard deviation")
	f.Float64Var(&q.spec.Min, "min", 0, "Uniform lower bound")
	f.Float64Var(&q.spec.Max, "max", 1, "Uniform upper bound")
	f.Float64Var(&q.spec.Rate, "rate", 1, "Exponential rate")
	f.Float64Var(&q.spec.Lambda, "lambda", 1, "Poisson mean")
	f.Float64Var(&q.spec.Threshold, "threshold", 0, "Non-Bernoulli kinds ask whether a draw exceeds this value")
	f.Float64Var(&q.target, "target", 0.1, "Offset in (0, 1); accepts when P(true) > 1/2 + target/2")
	f.Int64Var(&q.seed, "seed", 42, "Random seed for deterministic operations")
	f.StringVar(&q.hypothesisID, "hypothesis", "", "Hypothesis identifier (generated when empty)")
	f.BoolVar(&q.asJSON, "json", false, "Print the result as JSON")
}

func (q *questionFlags) request() (app.DecisionRequest, error) {
	value, err := q.spec.Boolean()
	if err != nil {
		return app.DecisionRequest{}, fmt.Errorf("invalid value %s: %w", q.spec, err)
	}
	var id core.HypothesisID
	if q.hypothesisID != "" {
		if id, err = core.ParseHypothesisID(q.hypothesisID); err != nil {
			return app.DecisionRequest{}, err
		}
	}
	return app.DecisionRequest{
		HypothesisID: id,
		Target:       q.target,
		Value:        value,
		Seed:         q.seed,
	}, nil
}

func newDecideCmd(envFile *string) *cobra.Command {
	var q questionFlags

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Decide whether a boolean value is true more often than 1/2 + target/2",
		Long: `Run one sequential probability ratio test and print the verdict with its diagnostics.

Example: gouncertain decide --kind normal --mean 0.3 --threshold 0 --target 0.1 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecide(cmd.Context(), *envFile, &q)
		},
	}
	q.register(cmd)
	return cmd
}

func newReliabilityCmd(envFile *string) *cobra.Command {
	var q questionFlags
	var runs int

	cmd := &cobra.Command{
		Use:   "reliability",
		Short: "Repeat a decision over independent streams and summarize it",
		Long: `Repeat one decision over --runs derived seeds and report how often it accepts,
how often the sample budget was exhausted, and the sample-count distribution.

Example: gouncertain reliability --p 0.5 --target 0.4 --runs 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReliability(cmd.Context(), *envFile, &q, runs)
		},
	}
	q.register(cmd)
	cmd.Flags().IntVar(&runs, "runs", 100, "Number of independent decisions")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var q questionFlags
	var epochs int

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print one boolean sample per epoch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(cmd.Context(), &q, epochs)
		},
	}
	q.register(cmd)
	cmd.Flags().IntVar(&epochs, "epochs", 20, "Number of epochs to sample")
	return cmd
}

func newHistoryCmd(envFile *string) *cobra.Command {
	var hypothesisID, runID string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded decisions from the ledger (requires DATABASE_URL)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), *envFile, hypothesisID, runID, limit, asJSON)
		},
	}
	cmd.Flags().StringVar(&hypothesisID, "hypothesis", "", "List the latest decisions of this hypothesis")
	cmd.Flags().StringVar(&runID, "run", "", "List every decision of this run")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum decisions to list per hypothesis")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("hypothesis", "run")
	cmd.MarkFlagsOneRequired("hypothesis", "run")
	return cmd
}

func newService(envFile string) (*app.DecisionService, error) {
	c, err := container.Load(envFile)
	if err != nil {
		return nil, err
	}
	return c.Decisions, nil
}

func runDecide(ctx context.Context, envFile string, q *questionFlags) error {
	svc, err := newService(envFile)
	if err != nil {
		return err
	}
	req, err := q.request()
	if err != nil {
		return err
	}

	report, err := svc.Decide(ctx, core.NewRunID(), req)
	if err != nil {
		return fmt.Errorf("decision failed: %w", err)
	}
	if q.asJSON {
		return printJSON(report)
	}

	out := report.Outcome
	fmt.Printf("Hypothesis: %s\n", report.HypothesisID)
	fmt.Printf("Question:   P(%s) > %.4f\n", q.spec, 0.5+out.Target/2)
	fmt.Printf("Verdict:    %s (%s)\n", strings.ToUpper(string(out.Decision)), out.Reason)
	fmt.Printf("Samples:    %d in %d batches\n", out.Samples, out.Batches)
	fmt.Printf("LLR:        %.4f within [%.4f, %.4f]\n", out.LogLikelihoodRatio, out.LowerBound, out.UpperBound)
	fmt.Printf("Seed:       %d (run %s)\n", report.Seed, report.RunID)
	if out.Reason.Forced() {
		fmt.Println("Warning:    sample budget exhausted; the verdict is the forced default")
	}
	return nil
}

func runReliability(ctx context.Context, envFile string, q *questionFlags, runs int) error {
	svc, err := newService(envFile)
	if err != nil {
		return err
	}
	req, err := q.request()
	if err != nil {
		return err
	}

	summary, err := svc.Reliability(ctx, req, runs)
	if err != nil {
		return fmt.Errorf("reliability failed: %w", err)
	}
	if q.asJSON {
		return printJSON(summary)
	}

	fmt.Printf("Question: P(%s) > %.4f over %d runs\n", q.spec, 0.5+q.target/2, summary.Runs)
	fmt.Printf("Accepted: %.1f%%\n", 100*summary.AcceptedRate)
	fmt.Printf("Forced:   %.1f%%\n", 100*summary.ForcedRate)
	fmt.Printf("Samples:  mean %.1f, median %.1f, sd %.1f, p95 %.1f, max %.0f\n",
		summary.MeanSamples, summary.MedianSamples, summary.StdDevSamples, summary.P95Samples, summary.MaxSamples)
	return nil
}

func runSample(ctx context.Context, q *questionFlags, epochs int) error {
	if epochs <= 0 {
		return fmt.Errorf("--epochs must be positive")
	}
	req, err := q.request()
	if err != nil {
		return err
	}

	r, err := rng.NewAdapter().SeededStream(ctx, "sample", q.seed)
	if err != nil {
		return err
	}
	values, err := uncertain.Samples(req.Value, uncertain.NewSource(r), 0, epochs)
	if err != nil {
		return err
	}
	if q.asJSON {
		return printJSON(values)
	}

	hits := 0
	for epoch, v := range values {
		if v {
			hits++
		}
		fmt.Printf("%4d  %t\n", epoch, v)
	}
	fmt.Printf("true in %d of %d epochs (%.3f)\n", hits, epochs, float64(hits)/float64(epochs))
	return nil
}

func runHistory(ctx context.Context, envFile, hypothesisID, runID string, limit int, asJSON bool) error {
	c, err := container.Load(envFile)
	if err != nil {
		return err
	}
	defer c.Close()
	if c.Ledger == nil {
		return fmt.Errorf("history needs DATABASE_URL")
	}

	var records []*run.Record
	if runID != "" {
		records, err = c.Ledger.ListByRun(ctx, core.RunID(runID))
	} else {
		var id core.HypothesisID
		if id, err = core.ParseHypothesisID(hypothesisID); err != nil {
			return err
		}
		records, err = c.Ledger.ListByHypothesis(ctx, id, limit)
	}
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}
	if asJSON {
		return printJSON(records)
	}

	for _, r := range records {
		out := r.Outcome
		fmt.Printf("%s  %-12s %-8s %-16s target %.3g  %d samples  seed %d  %s\n",
			r.DecidedAt, r.HypothesisID, out.Decision, out.Reason, out.Target, out.Samples, r.Seed, r.Fingerprint)
	}
	fmt.Printf("%d decisions\n", len(records))
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
