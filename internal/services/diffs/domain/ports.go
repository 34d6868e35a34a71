package domain

import (
	"context"

	"pricebook/internal/core/diff"

	booksdom "pricebook/internal/services/books/domain"
	changesdom "pricebook/internal/services/changes/domain"
	reviewdom "pricebook/internal/services/review/domain"
)

// RunnerPort is the external port for the diff job
type RunnerPort interface {
	// Run executes one diff and returns the run record plus the full
	// in-memory result for callers that serialize it
	Run(ctx context.Context, in RunInput) (Run, *diff.Result, error)
}

// QueryPort reads persisted run records
type QueryPort interface {
	Get(ctx context.Context, runID string) (Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
}

// Ports are dependencies injected into the diffs module
type Ports struct {
	Books   booksdom.ReaderPort   // required
	Changes changesdom.WriterPort // required
	Review  reviewdom.WriterPort  // required
}
