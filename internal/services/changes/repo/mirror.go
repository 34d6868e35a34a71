package repo

import (
	"context"

	"pricebook/internal/platform/store"
	"pricebook/internal/services/changes/domain"
)

// Mirror copies change rows into the clickhouse change_events table and
// answers aggregation queries from it. The PG change log stays the
// source of truth; the mirror only serves rollups
type Mirror struct {
	ch store.Clickhouse
}

// NewMirror wraps the clickhouse seam; a nil seam disables mirroring
func NewMirror(ch store.Clickhouse) *Mirror {
	if ch == nil {
		return nil
	}
	return &Mirror{ch: ch}
}

// WriteBatch appends rows to change_events. The table is keyed on the
// stable change id with a ReplacingMergeTree, so replays collapse
func (m *Mirror) WriteBatch(ctx context.Context, xs []domain.Row) error {
	if m == nil || len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, c := range xs {
		rows = append(rows, []any{
			c.ID, c.RunID, c.OldBookID, c.NewBookID,
			c.Kind, c.Key, c.Confidence, c.Tier, c.Review,
			c.CreatedAt,
		})
	}
	return m.ch.Insert(ctx, "change_events", rows)
}

// AggByKind rolls up mirrored events per day and kind over an inclusive
// date window
func (m *Mirror) AggByKind(ctx context.Context, start, end string) ([]domain.AggKindRow, error) {
	if m == nil {
		return nil, nil
	}
	const sql = `
SELECT toString(toDate(created_at)) AS day, kind, count() AS n
FROM change_events
WHERE toDate(created_at) >= toDate(?) AND toDate(created_at) <= toDate(?)
GROUP BY day, kind
ORDER BY day, kind
`
	rs, err := m.ch.Query(ctx, sql, start, end)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []domain.AggKindRow
	for rs.Next() {
		var (
			r domain.AggKindRow
			n uint64
		)
		if err := rs.Scan(&r.Day, &r.Kind, &n); err != nil {
			return nil, err
		}
		r.Count = int64(n)
		out = append(out, r)
	}
	return out, rs.Err()
}
