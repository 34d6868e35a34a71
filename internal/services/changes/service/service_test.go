package service

import (
	"context"
	"testing"

	perr "pricebook/internal/platform/errors"
	"pricebook/internal/platform/store"
	"pricebook/internal/services/changes/domain"
	"pricebook/internal/services/changes/repo"
)

type noopTx struct{}

func (noopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (noopTx) Query(context.Context, string, ...any) (store.Rows, error)     { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (noopTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(noopTx{})
}

type fakeStorage struct {
	rows      map[string]domain.Row
	lastLimit int
}

func newFakeStorage() *fakeStorage { return &fakeStorage{rows: map[string]domain.Row{}} }

func (f *fakeStorage) WriteBatch(_ context.Context, xs []domain.Row) (int, error) {
	n := 0
	for _, x := range xs {
		if _, ok := f.rows[x.ID]; ok {
			continue
		}
		f.rows[x.ID] = x
		n++
	}
	return n, nil
}

func (f *fakeStorage) ListByRun(_ context.Context, runID string, limit int) ([]domain.Row, error) {
	f.lastLimit = limit
	var out []domain.Row
	for _, x := range f.rows {
		if x.RunID == runID {
			out = append(out, x)
		}
	}
	return out, nil
}

func (f *fakeStorage) SummaryByRun(_ context.Context, runID string) ([]domain.RunSummaryRow, error) {
	counts := map[string]int64{}
	for _, x := range f.rows {
		if x.RunID == runID {
			counts[x.Kind]++
		}
	}
	out := make([]domain.RunSummaryRow, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.RunSummaryRow{Kind: k, Count: n})
	}
	return out, nil
}

type fakeBinder struct{ s *fakeStorage }

func (b fakeBinder) Bind(_ store.RowQuerier) repo.Storage { return b.s }

func TestWriteBatch_Idempotent(t *testing.T) {
	fs := newFakeStorage()
	svc := New(noopTx{}, fakeBinder{s: fs}, nil, Config{})

	xs := []domain.Row{
		{ID: "c1", RunID: "run-1", Kind: "ADDED"},
		{ID: "c2", RunID: "run-1", Kind: "PRICE_CHANGED"},
	}
	n, err := svc.WriteBatch(context.Background(), xs)
	if err != nil || n != 2 {
		t.Fatalf("first write: n=%d err=%v", n, err)
	}
	n, err = svc.WriteBatch(context.Background(), xs)
	if err != nil || n != 0 {
		t.Fatalf("rewrite: n=%d err=%v", n, err)
	}
}

func TestListByRun_ClampsLimit(t *testing.T) {
	fs := newFakeStorage()
	svc := New(noopTx{}, fakeBinder{s: fs}, nil, Config{HardLimit: 10})

	if _, err := svc.ListByRun(context.Background(), "run-1", 0); err != nil {
		t.Fatalf("ListByRun: %v", err)
	}
	if fs.lastLimit != 10 {
		t.Fatalf("zero limit clamps to %d, want 10", fs.lastLimit)
	}
	if _, err := svc.ListByRun(context.Background(), "run-1", 5000); err != nil {
		t.Fatalf("ListByRun: %v", err)
	}
	if fs.lastLimit != 10 {
		t.Fatalf("oversized limit clamps to %d, want 10", fs.lastLimit)
	}
}

func TestAggByKind_NeedsMirror(t *testing.T) {
	svc := New(noopTx{}, fakeBinder{s: newFakeStorage()}, nil, Config{})

	_, err := svc.AggByKind(context.Background(), "2026-08-01", "2026-08-29")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}
