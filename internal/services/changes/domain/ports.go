package domain

import "context"

// WriterPort persists change-log rows
type WriterPort interface {
	// WriteBatch writes rows idempotently and returns how many were new
	WriteBatch(ctx context.Context, xs []Row) (int, error)
}

// QueryPort reads change-log rows and aggregations
type QueryPort interface {
	ListByRun(ctx context.Context, runID string, limit int) ([]Row, error)
	SummaryByRun(ctx context.Context, runID string) ([]RunSummaryRow, error)

	// AggByKind rolls up mirrored change events per day and kind over
	// an inclusive date window (2006-01-02 bounds)
	AggByKind(ctx context.Context, start, end string) ([]AggKindRow, error)
}
