package domain

import "context"

// WriterPort enqueues flagged items
type WriterPort interface {
	// EnqueueBatch writes items idempotently and returns how many were new
	EnqueueBatch(ctx context.Context, xs []Item) (int, error)
}

// QueryPort lists queue items
type QueryPort interface {
	// List returns items for a run; status "" means all
	List(ctx context.Context, runID, status string, limit int) ([]Item, error)
	// CountOpen reports how many items for a run still await a verdict
	CountOpen(ctx context.Context, runID string) (int64, error)
}

// DecidePort records verdicts on open items
type DecidePort interface {
	Decide(ctx context.Context, in DecisionInput) (Item, error)
}
