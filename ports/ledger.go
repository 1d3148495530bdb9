package ports

import (
	"context"

	"gouncertain/domain/core"
	"gouncertain/domain/run"
)

// LedgerWriterPort provides append-only write access to decision records
type LedgerWriterPort interface {
	StoreRecord(ctx context.Context, record *run.Record) error
}

// LedgerReaderPort provides read-only access to stored decision records
type LedgerReaderPort interface {
	GetRecord(ctx context.Context, fingerprint core.Hash) (*run.Record, error)
	ListByRun(ctx context.Context, runID core.RunID) ([]*run.Record, error)
	ListByHypothesis(ctx context.Context, hypothesisID core.HypothesisID, limit int) ([]*run.Record, error)
}

// LedgerPort combines read and write access
type LedgerPort interface {
	LedgerWriterPort
	LedgerReaderPort
}
