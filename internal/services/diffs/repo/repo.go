// Package repo provides postgres access for diff run records
package repo

import (
	"context"

	"pricebook/internal/modkit/repokit"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/platform/store"
	"pricebook/internal/services/diffs/domain"
)

// Storage defines the diff runs repository
type Storage interface {
	InsertRun(ctx context.Context, r domain.Run) error
	FinishRun(ctx context.Context, r domain.Run) error
	Get(ctx context.Context, id string) (domain.Run, error)
	List(ctx context.Context, limit int) ([]domain.Run, error)
}

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// InsertRun implements Storage
func (s *pg) InsertRun(ctx context.Context, r domain.Run) error {
	const sql = `
INSERT INTO diff_runs (id, old_book_id, new_book_id, status, dry_run, started_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := s.q.Exec(ctx, sql, r.ID, r.OldBookID, r.NewBookID, r.Status, r.DryRun, r.StartedAt)
	if err != nil {
		return perr.FromPostgresWithField(err, "insert diff run "+r.ID)
	}
	return nil
}

// FinishRun implements Storage
func (s *pg) FinishRun(ctx context.Context, r domain.Run) error {
	const sql = `
UPDATE diff_runs
SET status = $2, matches = $3, changes = $4, review_items = $5, unprocessed = $6,
	error = $7, finished_at = $8
WHERE id = $1
`
	tag, err := s.q.Exec(ctx, sql,
		r.ID, r.Status, r.Matches, r.Changes, r.ReviewItems, r.Unprocessed,
		r.Error, r.FinishedAt)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "finish diff run %s", r.ID)
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("diff run %s", r.ID)
	}
	return nil
}

const runSelect = `
SELECT id::text, old_book_id::text, new_book_id::text, status, dry_run,
	matches, changes, review_items, unprocessed, error, started_at, finished_at
FROM diff_runs
`

func scanRun(row store.Row) (domain.Run, error) {
	var r domain.Run
	err := row.Scan(
		&r.ID, &r.OldBookID, &r.NewBookID, &r.Status, &r.DryRun,
		&r.Matches, &r.Changes, &r.ReviewItems, &r.Unprocessed,
		&r.Error, &r.StartedAt, &r.FinishedAt,
	)
	return r, err
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id string) (domain.Run, error) {
	r, err := store.One(ctx, s.q, scanRun, runSelect+` WHERE id = $1`, id)
	if err != nil {
		return domain.Run{}, perr.NotFoundf("diff run %s", id)
	}
	return r, nil
}

// List implements Storage
func (s *pg) List(ctx context.Context, limit int) ([]domain.Run, error) {
	out, err := store.Many(ctx, s.q, scanRun, runSelect+` ORDER BY started_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "list diff runs")
	}
	return out, nil
}
