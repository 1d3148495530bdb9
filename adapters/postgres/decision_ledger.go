package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"gouncertain/domain/core"
	"gouncertain/domain/run"
	"gouncertain/domain/verdict"
	"gouncertain/ports"

	"github.com/jmoiron/sqlx"
)

const recordColumns = `fingerprint, run_id, hypothesis_id, seed, target, decision, reason,
	log_likelihood_ratio, lower_bound, upper_bound, samples, batches, runtime_ms, decided_at`

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DecisionLedger implements ports.LedgerPort over decision_records. Queries use
// sqlx bind rebinding, so the same ledger runs on PostgreSQL and SQLite.
type DecisionLedger struct {
	db *sqlx.DB
}

// NewDecisionLedger creates a new decision ledger
func NewDecisionLedger(db *sqlx.DB) ports.LedgerPort {
	return &DecisionLedger{db: db}
}

type recordRow struct {
	Fingerprint        string    `db:"fingerprint"`
	RunID              string    `db:"run_id"`
	HypothesisID       string    `db:"hypothesis_id"`
	Seed               int64     `db:"seed"`
	Target             float64   `db:"target"`
	Decision           string    `db:"decision"`
	Reason             string    `db:"reason"`
	LogLikelihoodRatio float64   `db:"log_likelihood_ratio"`
	LowerBound         float64   `db:"lower_bound"`
	UpperBound         float64   `db:"upper_bound"`
	Samples            int       `db:"samples"`
	Batches            int       `db:"batches"`
	RuntimeMs          int64     `db:"runtime_ms"`
	DecidedAt          time.Time `db:"decided_at"`
}

func newRecordRow(r *run.Record) recordRow {
	return recordRow{
		Fingerprint:        r.Fingerprint.String(),
		RunID:              r.RunID.String(),
		HypothesisID:       r.HypothesisID.String(),
		Seed:               r.Seed,
		Target:             r.Outcome.Target,
		Decision:           string(r.Outcome.Decision),
		Reason:             string(r.Outcome.Reason),
		LogLikelihoodRatio: r.Outcome.LogLikelihoodRatio,
		LowerBound:         r.Outcome.LowerBound,
		UpperBound:         r.Outcome.UpperBound,
		Samples:            r.Outcome.Samples,
		Batches:            r.Outcome.Batches,
		RuntimeMs:          r.RuntimeMs,
		DecidedAt:          r.DecidedAt.UTC().Time(),
	}
}

func (row recordRow) record() *run.Record {
	return &run.Record{
		RunID:        core.RunID(row.RunID),
		HypothesisID: core.HypothesisID(row.HypothesisID),
		Seed:         row.Seed,
		Outcome: verdict.Outcome{
			Verdict: verdict.Verdict{
				Decision: verdict.Decision(row.Decision),
				Reason:   verdict.Reason(row.Reason),
			},
			Target:             row.Target,
			LogLikelihoodRatio: row.LogLikelihoodRatio,
			LowerBound:         row.LowerBound,
			UpperBound:         row.UpperBound,
			Samples:            row.Samples,
			Batches:            row.Batches,
		},
		Fingerprint: core.Hash(row.Fingerprint),
		DecidedAt:   core.Timestamp(row.DecidedAt).UTC(),
		RuntimeMs:   row.RuntimeMs,
	}
}

// StoreRecord appends a record. Storing the same fingerprint twice is a no-op.
func (l *DecisionLedger) StoreRecord(ctx context.Context, record *run.Record) error {
	if record == nil || record.Fingerprint == "" {
		return fmt.Errorf("decision record needs a fingerprint")
	}
	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO decision_records (`+recordColumns+`)
		VALUES (:fingerprint, :run_id, :hypothesis_id, :seed, :target, :decision, :reason,
			:log_likelihood_ratio, :lower_bound, :upper_bound, :samples, :batches, :runtime_ms, :decided_at)
		ON CONFLICT (fingerprint) DO NOTHING`, newRecordRow(record))
	return err
}

// GetRecord retrieves a record by fingerprint
func (l *DecisionLedger) GetRecord(ctx context.Context, fingerprint core.Hash) (*run.Record, error) {
	var row recordRow
	err := l.db.GetContext(ctx, &row, l.db.Rebind(`
		SELECT `+recordColumns+`
		FROM decision_records
		WHERE fingerprint = ?`), fingerprint.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("decision %s: %w", fingerprint, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row.record(), nil
}

// ListByRun returns every record of a run in decision order
func (l *DecisionLedger) ListByRun(ctx context.Context, runID core.RunID) ([]*run.Record, error) {
	var rows []recordRow
	err := l.db.SelectContext(ctx, &rows, l.db.Rebind(`
		SELECT `+recordColumns+`
		FROM decision_records
		WHERE run_id = ?
		ORDER BY decided_at, fingerprint`), runID.String())
	if err != nil {
		return nil, err
	}
	return records(rows), nil
}

// ListByHypothesis returns the most recent records of a hypothesis
func (l *DecisionLedger) ListByHypothesis(ctx context.Context, hypothesisID core.HypothesisID, limit int) ([]*run.Record, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []recordRow
	err := l.db.SelectContext(ctx, &rows, l.db.Rebind(`
		SELECT `+recordColumns+`
		FROM decision_records
		WHERE hypothesis_id = ?
		ORDER BY decided_at DESC, fingerprint
		LIMIT ?`), hypothesisID.String(), limit)
	if err != nil {
		return nil, err
	}
	return records(rows), nil
}

func records(rows []recordRow) []*run.Record {
	out := make([]*run.Record, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out
}
