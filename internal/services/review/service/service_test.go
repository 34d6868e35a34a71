package service

import (
	"context"
	"testing"
	"time"

	perr "pricebook/internal/platform/errors"
	"pricebook/internal/platform/store"
	"pricebook/internal/services/review/domain"
	"pricebook/internal/services/review/repo"
)

type noopTx struct{}

func (noopTx) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (noopTx) Query(context.Context, string, ...any) (store.Rows, error)     { return nil, nil }
func (noopTx) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (noopTx) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(noopTx{})
}

type fakeStorage struct {
	items map[string]domain.Item

	lastStatus string
	lastLimit  int
}

func newFakeStorage() *fakeStorage { return &fakeStorage{items: map[string]domain.Item{}} }

func (f *fakeStorage) EnqueueBatch(_ context.Context, xs []domain.Item) (int, error) {
	n := 0
	for _, it := range xs {
		if _, ok := f.items[it.ID]; ok {
			continue
		}
		f.items[it.ID] = it
		n++
	}
	return n, nil
}

func (f *fakeStorage) List(_ context.Context, runID, status string, limit int) ([]domain.Item, error) {
	f.lastStatus, f.lastLimit = status, limit
	var out []domain.Item
	for _, it := range f.items {
		if it.RunID != runID {
			continue
		}
		if status != "" && it.Status != status {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeStorage) CountOpen(_ context.Context, runID string) (int64, error) {
	var n int64
	for _, it := range f.items {
		if it.RunID == runID && it.Status == domain.StatusOpen {
			n++
		}
	}
	return n, nil
}

func (f *fakeStorage) Get(_ context.Context, id string) (domain.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return domain.Item{}, perr.NotFoundf("review item %s not found", id)
	}
	return it, nil
}

func (f *fakeStorage) Decide(_ context.Context, in domain.DecisionInput) (int64, error) {
	it, ok := f.items[in.ItemID]
	if !ok || it.Status != domain.StatusOpen {
		return 0, nil
	}
	now := time.Now().UTC()
	it.Status = in.Verdict
	it.Note = in.Note
	it.DecidedBy = in.DecidedBy
	it.DecidedAt = &now
	f.items[in.ItemID] = it
	return 1, nil
}

type fakeBinder struct{ s *fakeStorage }

func (b fakeBinder) Bind(_ store.RowQuerier) repo.Storage { return b.s }

func newService(cfg Config) (*Service, *fakeStorage) {
	fs := newFakeStorage()
	return New(noopTx{}, fakeBinder{s: fs}, cfg), fs
}

func seedOpen(fs *fakeStorage, id, runID string) {
	fs.items[id] = domain.Item{ID: id, RunID: runID, Status: domain.StatusOpen}
}

func TestEnqueueBatch_Idempotent(t *testing.T) {
	svc, _ := newService(Config{})

	xs := []domain.Item{
		{ID: "a", RunID: "run-1", Status: domain.StatusOpen},
		{ID: "b", RunID: "run-1", Status: domain.StatusOpen},
	}
	n, err := svc.EnqueueBatch(context.Background(), xs)
	if err != nil || n != 2 {
		t.Fatalf("first enqueue: n=%d err=%v", n, err)
	}
	n, err = svc.EnqueueBatch(context.Background(), xs)
	if err != nil || n != 0 {
		t.Fatalf("re-enqueue: n=%d err=%v", n, err)
	}
}

func TestList_StatusAndLimit(t *testing.T) {
	svc, fs := newService(Config{HardLimit: 5})
	seedOpen(fs, "a", "run-1")

	if _, err := svc.List(context.Background(), "run-1", "bogus", 10); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}

	if _, err := svc.List(context.Background(), "run-1", domain.StatusOpen, 0); err != nil {
		t.Fatalf("List: %v", err)
	}
	if fs.lastLimit != 5 {
		t.Fatalf("zero limit clamps to %d, want 5", fs.lastLimit)
	}

	if _, err := svc.List(context.Background(), "run-1", "", 99); err != nil {
		t.Fatalf("List: %v", err)
	}
	if fs.lastLimit != 5 {
		t.Fatalf("oversized limit clamps to %d, want 5", fs.lastLimit)
	}
}

func TestDecide(t *testing.T) {
	svc, fs := newService(Config{})
	seedOpen(fs, "a", "run-1")

	if _, err := svc.Decide(context.Background(), domain.DecisionInput{ItemID: "a", Verdict: "maybe"}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}

	it, err := svc.Decide(context.Background(), domain.DecisionInput{
		ItemID:    "a",
		Verdict:   domain.StatusAccepted,
		Note:      "same product, finish suffix drift",
		DecidedBy: "estimator",
	})
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if it.Status != domain.StatusAccepted || it.DecidedAt == nil {
		t.Fatalf("decided item = %+v", it)
	}

	// second verdict conflicts instead of flipping the decision
	_, err = svc.Decide(context.Background(), domain.DecisionInput{ItemID: "a", Verdict: domain.StatusRejected})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}

	_, err = svc.Decide(context.Background(), domain.DecisionInput{ItemID: "zzz", Verdict: domain.StatusAccepted})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestCountOpen_TracksVerdicts(t *testing.T) {
	svc, fs := newService(Config{})
	seedOpen(fs, "a", "run-1")
	seedOpen(fs, "b", "run-1")
	seedOpen(fs, "c", "run-2")

	n, err := svc.CountOpen(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("CountOpen: %v", err)
	}
	if n != 2 {
		t.Fatalf("open = %d, want 2", n)
	}

	if _, err := svc.Decide(context.Background(), domain.DecisionInput{ItemID: "a", Verdict: domain.StatusAccepted}); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	n, err = svc.CountOpen(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("CountOpen: %v", err)
	}
	if n != 1 {
		t.Fatalf("open after verdict = %d, want 1", n)
	}
}
