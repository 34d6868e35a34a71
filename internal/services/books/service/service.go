// Package service contains book snapshot workflows
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pricebook/internal/core/catalog"
	"pricebook/internal/modkit/repokit"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/services/books/domain"
	"pricebook/internal/services/books/repo"
)

// Config for the books service
type Config struct {
	// ListLimit caps List results
	ListLimit int

	// MaxRecords caps snapshot size per upload, 0 = unlimited
	MaxRecords int
}

// Service implements domain.ReaderPort and domain.WriterPort
type Service struct {
	Repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	cfg    Config
}

// New constructs a books service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("books.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("books.Service requires a non nil Storage binder")
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 100
	}
	return &Service{Repo: binder.Bind(db), binder: binder, db: db, cfg: cfg}
}

// Create stores a snapshot and its records in one transaction
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (domain.Book, error) {
	if in.Name == "" {
		return domain.Book{}, perr.InvalidArgf("book name is required")
	}
	if len(in.Records) == 0 {
		return domain.Book{}, perr.InvalidArgf("book %q has no records", in.Name)
	}
	if s.cfg.MaxRecords > 0 && len(in.Records) > s.cfg.MaxRecords {
		return domain.Book{}, perr.InvalidArgf(
			"book %q has %d records, limit is %d", in.Name, len(in.Records), s.cfg.MaxRecords)
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	} else if _, err := uuid.Parse(id); err != nil {
		return domain.Book{}, perr.InvalidArgf("book id %q is not a uuid", id)
	}

	createdAt := time.Now().UTC()
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if err := r.InsertBook(ctx, id, in.Name, createdAt); err != nil {
			return err
		}
		return r.InsertRecords(ctx, id, in.Records)
	})
	if err != nil {
		return domain.Book{}, err
	}

	return domain.Book{ID: id, Name: in.Name, Records: len(in.Records), CreatedAt: createdAt}, nil
}

// Get implements domain.ReaderPort
func (s *Service) Get(ctx context.Context, bookID string) (domain.Book, error) {
	return s.Repo.GetBook(ctx, bookID)
}

// List implements domain.ReaderPort
func (s *Service) List(ctx context.Context, limit int) ([]domain.Book, error) {
	if limit <= 0 || limit > s.cfg.ListLimit {
		limit = s.cfg.ListLimit
	}
	return s.Repo.ListBooks(ctx, limit)
}

// Snapshot implements domain.ReaderPort
func (s *Service) Snapshot(ctx context.Context, bookID string) (catalog.Catalog, error) {
	if _, err := s.Repo.GetBook(ctx, bookID); err != nil {
		return catalog.Catalog{}, err
	}
	recs, err := s.Repo.LoadRecords(ctx, bookID)
	if err != nil {
		return catalog.Catalog{}, err
	}
	return catalog.Catalog{BookID: bookID, Records: recs}, nil
}
