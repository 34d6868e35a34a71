// Package domain defines the types and interfaces for the changes service
package domain

import (
	"time"

	"pricebook/internal/core/diff"
)

// Row is one persisted change-log row, the flattened form of an engine
// change. ID is the engine's stable change uuid, so re-applying the same
// diff result writes nothing new
type Row struct {
	ID         string
	RunID      string
	OldBookID  string
	NewBookID  string
	Kind       string
	Key        string
	Confidence float64
	Tier       string
	Review     bool

	Description string

	// payload columns, null when the kind does not carry them
	OldPrice  *float64
	NewPrice  *float64
	ChangePct *float64

	OldModel string
	NewModel string

	OptionCode string
	OldAdder   *float64
	NewAdder   *float64

	CreatedAt time.Time
}

// AggKindRow is a per-day per-kind rollup from the mirror
type AggKindRow struct {
	Day   string
	Kind  string
	Count int64
}

// RunSummaryRow is a per-kind count for one run
type RunSummaryRow struct {
	Kind  string
	Count int64
}

// FromDiff flattens a diff result into change-log rows for runID
func FromDiff(runID string, res *diff.Result) []Row {
	out := make([]Row, 0, len(res.Changes))
	for _, c := range res.Changes {
		row := Row{
			ID:          c.ID.String(),
			RunID:       runID,
			OldBookID:   res.OldBookID,
			NewBookID:   res.NewBookID,
			Kind:        c.Kind.String(),
			Key:         c.Key,
			Confidence:  c.Confidence,
			Tier:        string(c.Tier),
			Review:      c.Review,
			Description: c.Description,
			CreatedAt:   res.GeneratedAt,
		}
		if c.Price != nil {
			op, np, pct := c.Price.OldPrice, c.Price.NewPrice, c.Price.ChangePct
			row.OldPrice, row.NewPrice, row.ChangePct = &op, &np, &pct
		}
		if c.Rename != nil {
			row.OldModel = c.Rename.OldModel
			row.NewModel = c.Rename.NewModel
		}
		if c.Option != nil {
			row.OptionCode = c.Option.Code
			row.OldAdder = c.Option.OldAdder
			row.NewAdder = c.Option.NewAdder
		}
		out = append(out, row)
	}
	return out
}
