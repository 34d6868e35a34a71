package service

import (
	"context"
	"testing"

	"pricebook/internal/core/catalog"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/platform/logger"

	booksdom "pricebook/internal/services/books/domain"
	changesdom "pricebook/internal/services/changes/domain"
	"pricebook/internal/services/diffs/domain"
	reviewdom "pricebook/internal/services/review/domain"
)

type fakeBooks struct {
	snaps map[string]catalog.Catalog
}

func (f *fakeBooks) Snapshot(_ context.Context, id string) (catalog.Catalog, error) {
	c, ok := f.snaps[id]
	if !ok {
		return catalog.Catalog{}, perr.NotFoundf("book %s not found", id)
	}
	return c, nil
}

func (f *fakeBooks) Get(_ context.Context, id string) (booksdom.Book, error) {
	return booksdom.Book{ID: id}, nil
}

func (f *fakeBooks) List(_ context.Context, _ int) ([]booksdom.Book, error) { return nil, nil }

type fakeChanges struct {
	rows []changesdom.Row
}

func (f *fakeChanges) WriteBatch(_ context.Context, xs []changesdom.Row) (int, error) {
	f.rows = append(f.rows, xs...)
	return len(xs), nil
}

type fakeReview struct {
	items []reviewdom.Item
}

func (f *fakeReview) EnqueueBatch(_ context.Context, xs []reviewdom.Item) (int, error) {
	f.items = append(f.items, xs...)
	return len(xs), nil
}

func twoBooks() map[string]catalog.Catalog {
	oldID := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	newID := "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	return map[string]catalog.Catalog{
		oldID: {BookID: oldID, Records: []catalog.ProductRecord{
			{Manufacturer: "Acme", Family: "Basin", Model: "B100", BasePrice: 100},
			{Manufacturer: "Acme", Family: "Basin", Model: "B200", BasePrice: 150},
		}},
		newID: {BookID: newID, Records: []catalog.ProductRecord{
			{Manufacturer: "Acme", Family: "Basin", Model: "B100", BasePrice: 110},
			{Manufacturer: "Acme", Family: "Basin", Model: "ZX9000", BasePrice: 175},
		}},
	}
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	books := &fakeBooks{snaps: twoBooks()}
	ch := &fakeChanges{}
	rv := &fakeReview{}

	svc := New(nil, nil, domain.Ports{Books: books, Changes: ch, Review: rv}, Config{}, *logger.Get())

	run, res, err := svc.Run(context.Background(), domain.RunInput{
		OldBookID: "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
		NewBookID: "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb",
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if run.Status != domain.StatusDone {
		t.Fatalf("status = %q", run.Status)
	}
	if run.FinishedAt == nil {
		t.Fatalf("dry run has no finish time")
	}
	if len(ch.rows) != 0 || len(rv.items) != 0 {
		t.Fatalf("dry run persisted: %d rows, %d items", len(ch.rows), len(rv.items))
	}

	// one price change, one removal, one addition
	if run.Changes != 3 || res.CountsByKind["PRICE_CHANGED"] != 1 {
		t.Fatalf("changes = %d, counts = %v", run.Changes, res.CountsByKind)
	}
	if run.Matches != 1 {
		t.Fatalf("matches = %d", run.Matches)
	}
}

func TestRun_RequiresBookIDs(t *testing.T) {
	svc := New(nil, nil, domain.Ports{Books: &fakeBooks{}}, Config{}, *logger.Get())

	_, _, err := svc.Run(context.Background(), domain.RunInput{DryRun: true})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v, want invalid argument", err)
	}
}

func TestRun_PersistNeedsWiring(t *testing.T) {
	svc := New(nil, nil, domain.Ports{Books: &fakeBooks{snaps: twoBooks()}}, Config{}, *logger.Get())

	_, _, err := svc.Run(context.Background(), domain.RunInput{
		OldBookID: "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
		NewBookID: "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb",
	})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}

func TestRun_MissingBook(t *testing.T) {
	svc := New(nil, nil, domain.Ports{Books: &fakeBooks{snaps: twoBooks()}}, Config{}, *logger.Get())

	_, _, err := svc.Run(context.Background(), domain.RunInput{
		OldBookID: "cccccccc-cccc-cccc-cccc-cccccccccccc",
		NewBookID: "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb",
		DryRun:    true,
	})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestQueries_NeedStore(t *testing.T) {
	svc := New(nil, nil, domain.Ports{Books: &fakeBooks{}}, Config{}, *logger.Get())

	if _, err := svc.Get(context.Background(), "x"); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("Get err = %v, want unavailable", err)
	}
	if _, err := svc.List(context.Background(), 10); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("List err = %v, want unavailable", err)
	}
}
