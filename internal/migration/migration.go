package migration

import (
	"context"

	"gouncertain/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the decision ledger schema. Statements are written
// for both PostgreSQL and SQLite and are safe to repeat.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDecisionRecordsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create decision_records table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createDecisionRecordsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS decision_records (
			fingerprint VARCHAR(64) PRIMARY KEY,
			run_id VARCHAR(64) NOT NULL,
			hypothesis_id VARCHAR(255) NOT NULL,
			seed BIGINT NOT NULL,
			target DOUBLE PRECISION NOT NULL,
			decision VARCHAR(16) NOT NULL,
			reason VARCHAR(32) NOT NULL,
			log_likelihood_ratio DOUBLE PRECISION NOT NULL,
			lower_bound DOUBLE PRECISION NOT NULL,
			upper_bound DOUBLE PRECISION NOT NULL,
			samples INTEGER NOT NULL,
			batches INTEGER NOT NULL,
			runtime_ms BIGINT NOT NULL,
			decided_at TIMESTAMP NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_decisions_run_id ON decision_records(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_decisions_hypothesis ON decision_records(hypothesis_id, decided_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_decisions_decided_at ON decision_records(decided_at DESC)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			return errors.Wrapf(err, "index statement %q", idxSQL)
		}
	}

	return nil
}
