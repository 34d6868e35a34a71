// Package repo provides postgres access for the review queue
package repo

import (
	"context"
	"fmt"
	"strings"

	"pricebook/internal/modkit/repokit"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/platform/store"
	pstrings "pricebook/internal/platform/strings"
	"pricebook/internal/services/review/domain"
)

// Storage defines the review repository
type Storage interface {
	EnqueueBatch(ctx context.Context, xs []domain.Item) (int, error)
	List(ctx context.Context, runID, status string, limit int) ([]domain.Item, error)
	CountOpen(ctx context.Context, runID string) (int64, error)
	Get(ctx context.Context, id string) (domain.Item, error)
	Decide(ctx context.Context, in domain.DecisionInput) (int64, error)
}

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

const itemCols = 9

// EnqueueBatch implements Storage. Item ids are derived from run and
// flagged reference, so re-enqueueing a run writes nothing new
func (s *pg) EnqueueBatch(ctx context.Context, xs []domain.Item) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO review_items
		(id, run_id, match_id, change_id, confidence, reasons, detail, status, created_at) VALUES `)

	args := make([]any, 0, len(xs)*itemCols)
	for i, it := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*itemCols + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)
		args = append(args,
			it.ID, it.RunID, it.MatchID, it.ChangeID, it.Confidence,
			it.Reasons, it.Detail, it.Status, it.CreatedAt,
		)
	}
	sb.WriteString(` ON CONFLICT (id) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeDB, "enqueue %d review items", len(xs))
	}
	return int(tag.RowsAffected()), nil
}

const itemSelect = `
SELECT id::text, run_id::text, match_id::text, change_id::text, confidence,
	reasons, detail, status, COALESCE(note, ''), COALESCE(decided_by, ''), decided_at, created_at
FROM review_items
`

// List implements Storage
func (s *pg) List(ctx context.Context, runID, status string, limit int) ([]domain.Item, error) {
	sql := itemSelect + `
WHERE run_id = $1
AND ($2 = '' OR status = $2)
ORDER BY confidence ASC, created_at, id
LIMIT $3
`
	out, err := store.Many(ctx, s.q, func(row store.Row) (domain.Item, error) {
		return scanItem(row)
	}, sql, runID, status, limit)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "list review items for run %s", runID)
	}
	return out, nil
}

// CountOpen implements Storage
func (s *pg) CountOpen(ctx context.Context, runID string) (int64, error) {
	n, err := store.Scalar[int64](ctx, s.q,
		`SELECT count(1) FROM review_items WHERE run_id = $1 AND status = 'open'`, runID)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeDB, "count open review items for run %s", runID)
	}
	return n, nil
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id string) (domain.Item, error) {
	row := s.q.QueryRow(ctx, itemSelect+` WHERE id = $1`, id)
	it, err := scanItem(row)
	if err != nil {
		return domain.Item{}, perr.NotFoundf("review item %s", id)
	}
	return it, nil
}

// Decide implements Storage, touching only open items
func (s *pg) Decide(ctx context.Context, in domain.DecisionInput) (int64, error) {
	const sql = `
UPDATE review_items
SET status = $2, note = $3, decided_by = $4, decided_at = now()
WHERE id = $1 AND status = 'open'
`
	tag, err := s.q.Exec(ctx, sql, in.ItemID, in.Verdict, pstrings.SQLNull(in.Note), pstrings.SQLNull(in.DecidedBy))
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeDB, "decide review item %s", in.ItemID)
	}
	return tag.RowsAffected(), nil
}

type scanner interface{ Scan(dest ...any) error }

func scanItem(r scanner) (domain.Item, error) {
	var it domain.Item
	err := r.Scan(
		&it.ID, &it.RunID, &it.MatchID, &it.ChangeID, &it.Confidence,
		&it.Reasons, &it.Detail, &it.Status, &it.Note, &it.DecidedBy,
		&it.DecidedAt, &it.CreatedAt,
	)
	return it, err
}
