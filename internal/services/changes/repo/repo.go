// Package repo provides postgres and clickhouse access for the change log
package repo

import (
	"context"
	"fmt"
	"strings"

	"pricebook/internal/modkit/repokit"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/platform/store"
	"pricebook/internal/services/changes/domain"
)

// Storage defines the change-log repository
type Storage interface {
	WriteBatch(ctx context.Context, xs []domain.Row) (int, error)
	ListByRun(ctx context.Context, runID string, limit int) ([]domain.Row, error)
	SummaryByRun(ctx context.Context, runID string) ([]domain.RunSummaryRow, error)
}

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

const rowCols = 17

// WriteBatch implements Storage. Conflicts on the stable change id are
// skipped, so re-applying a diff result is a no-op
func (s *pg) WriteBatch(ctx context.Context, xs []domain.Row) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO change_log
		(id, run_id, old_book_id, new_book_id, kind, key, confidence, tier, review,
		description, old_price, new_price, change_pct, old_model, new_model,
		option_code, old_adder, new_adder, created_at) VALUES `)

	args := make([]any, 0, len(xs)*(rowCols+2))
	for i, c := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*(rowCols+2) + 1
		ph := make([]string, rowCols+2)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j)
		}
		sb.WriteString("(" + strings.Join(ph, ",") + ")")

		args = append(args,
			c.ID, c.RunID, c.OldBookID, c.NewBookID, c.Kind, c.Key, c.Confidence, c.Tier, c.Review,
			c.Description, c.OldPrice, c.NewPrice, c.ChangePct, c.OldModel, c.NewModel,
			c.OptionCode, c.OldAdder, c.NewAdder, c.CreatedAt,
		)
	}
	sb.WriteString(` ON CONFLICT (id) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeDB, "write %d change rows", len(xs))
	}
	return int(tag.RowsAffected()), nil
}

// ListByRun implements Storage
func (s *pg) ListByRun(ctx context.Context, runID string, limit int) ([]domain.Row, error) {
	const sql = `
SELECT id::text, run_id::text, old_book_id::text, new_book_id::text, kind, key,
	confidence, tier, review, description,
	old_price, new_price, change_pct, old_model, new_model,
	option_code, old_adder, new_adder, created_at
FROM change_log
WHERE run_id = $1
ORDER BY kind, key, option_code, description
LIMIT $2
`
	out, err := store.Many(ctx, s.q, scanChange, sql, runID, limit)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "list changes for run %s", runID)
	}
	return out, nil
}

func scanChange(row store.Row) (domain.Row, error) {
	var c domain.Row
	err := row.Scan(
		&c.ID, &c.RunID, &c.OldBookID, &c.NewBookID, &c.Kind, &c.Key,
		&c.Confidence, &c.Tier, &c.Review, &c.Description,
		&c.OldPrice, &c.NewPrice, &c.ChangePct, &c.OldModel, &c.NewModel,
		&c.OptionCode, &c.OldAdder, &c.NewAdder, &c.CreatedAt,
	)
	return c, err
}

// SummaryByRun implements Storage
func (s *pg) SummaryByRun(ctx context.Context, runID string) ([]domain.RunSummaryRow, error) {
	const sql = `
SELECT kind, count(1) AS n
FROM change_log
WHERE run_id = $1
GROUP BY kind
ORDER BY kind
`
	out, err := store.Many(ctx, s.q, func(row store.Row) (domain.RunSummaryRow, error) {
		var r domain.RunSummaryRow
		err := row.Scan(&r.Kind, &r.Count)
		return r, err
	}, sql, runID)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "summarize run %s", runID)
	}
	return out, nil
}
