// Package repo provides postgres access for book snapshots
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pricebook/internal/core/catalog"
	"pricebook/internal/modkit/repokit"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/platform/store"
	"pricebook/internal/services/books/domain"
)

// Storage defines the books repository
type Storage interface {
	InsertBook(ctx context.Context, id, name string, createdAt time.Time) error
	InsertRecords(ctx context.Context, bookID string, xs []catalog.ProductRecord) error
	GetBook(ctx context.Context, id string) (domain.Book, error)
	ListBooks(ctx context.Context, limit int) ([]domain.Book, error)
	LoadRecords(ctx context.Context, bookID string) ([]catalog.ProductRecord, error)
}

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// InsertBook implements Storage
func (s *pg) InsertBook(ctx context.Context, id, name string, createdAt time.Time) error {
	const sql = `
INSERT INTO books (id, name, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING
`
	tag, err := s.q.Exec(ctx, sql, id, name, createdAt)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "insert book %s", id)
	}
	if tag.RowsAffected() == 0 {
		return perr.DuplicateKeyf("book %s already exists", id)
	}
	return nil
}

// recordCols is the flat column set of book_records; options and meta
// are stored as jsonb
const recordCols = 11

// InsertRecords implements Storage. Rows keep their upload position so
// snapshots reload in the original order
func (s *pg) InsertRecords(ctx context.Context, bookID string, xs []catalog.ProductRecord) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO book_records
		(book_id, position, manufacturer, family, model, sku, finish, size,
		base_price, options, rule_text, meta) VALUES `)

	args := make([]any, 0, len(xs)*(recordCols+1))
	for i, r := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*(recordCols+1) + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base, base+1, base+2, base+3, base+4, base+5,
			base+6, base+7, base+8, base+9, base+10, base+11)

		opts, err := json.Marshal(r.Options)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "marshal options for %s", r.Model)
		}
		meta, err := json.Marshal(r.Meta)
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "marshal meta for %s", r.Model)
		}
		args = append(args,
			bookID, i, r.Manufacturer, r.Family, r.Model, r.SKU, r.Finish, r.Size,
			r.BasePrice, opts, r.RuleText, meta,
		)
	}
	if _, err := s.q.Exec(ctx, sb.String(), args...); err != nil {
		return perr.FromPostgresf(err, "insert %d records for book %s", len(xs), bookID)
	}
	return nil
}

// GetBook implements Storage
func (s *pg) GetBook(ctx context.Context, id string) (domain.Book, error) {
	const sql = `
SELECT b.id::text, b.name, b.created_at,
	(SELECT count(1) FROM book_records r WHERE r.book_id = b.id) AS records
FROM books b
WHERE b.id = $1
`
	b, err := store.One(ctx, s.q, scanBook, sql, id)
	if err != nil {
		return domain.Book{}, perr.NotFoundf("book %s", id)
	}
	return b, nil
}

func scanBook(r store.Row) (domain.Book, error) {
	var b domain.Book
	err := r.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.Records)
	return b, err
}

// ListBooks implements Storage
func (s *pg) ListBooks(ctx context.Context, limit int) ([]domain.Book, error) {
	const sql = `
SELECT b.id::text, b.name, b.created_at,
	(SELECT count(1) FROM book_records r WHERE r.book_id = b.id) AS records
FROM books b
ORDER BY b.created_at DESC, b.id
LIMIT $1
`
	out, err := store.Many(ctx, s.q, scanBook, sql, limit)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "list books")
	}
	return out, nil
}

// LoadRecords implements Storage
func (s *pg) LoadRecords(ctx context.Context, bookID string) ([]catalog.ProductRecord, error) {
	const sql = `
SELECT manufacturer, family, model, sku, finish, size, base_price, options, rule_text, meta
FROM book_records
WHERE book_id = $1
ORDER BY position
`
	out, err := store.Many(ctx, s.q, scanRecord, sql, bookID)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "load records for book %s", bookID)
	}
	return out, nil
}

func scanRecord(row store.Row) (catalog.ProductRecord, error) {
	var (
		r    catalog.ProductRecord
		opts []byte
		meta []byte
	)
	if err := row.Scan(
		&r.Manufacturer, &r.Family, &r.Model, &r.SKU, &r.Finish, &r.Size,
		&r.BasePrice, &opts, &r.RuleText, &meta,
	); err != nil {
		return catalog.ProductRecord{}, err
	}
	if len(opts) > 0 {
		if err := json.Unmarshal(opts, &r.Options); err != nil {
			return catalog.ProductRecord{}, perr.Wrapf(err, perr.ErrorCodeJSON, "unmarshal options for %s", r.Model)
		}
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &r.Meta); err != nil {
			return catalog.ProductRecord{}, perr.Wrapf(err, perr.ErrorCodeJSON, "unmarshal meta for %s", r.Model)
		}
	}
	return r, nil
}
