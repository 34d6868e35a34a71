package domain

import (
	"context"

	"pricebook/internal/core/catalog"
)

// ReaderPort loads stored books for diff runs and listings
type ReaderPort interface {
	// Snapshot materializes the full catalog for a diff run
	Snapshot(ctx context.Context, bookID string) (catalog.Catalog, error)
	Get(ctx context.Context, bookID string) (Book, error)
	List(ctx context.Context, limit int) ([]Book, error)
}

// WriterPort stores uploaded snapshots
type WriterPort interface {
	Create(ctx context.Context, in CreateInput) (Book, error)
}
