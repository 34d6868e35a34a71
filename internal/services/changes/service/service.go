// Package service provides the change log service implementation
package service

import (
	"context"

	"pricebook/internal/modkit/repokit"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/services/changes/domain"
	"pricebook/internal/services/changes/repo"
)

// Config for the changes service
type Config struct {
	HardLimit int
}

// Service implements domain.WriterPort and domain.QueryPort
type Service struct {
	Repo   repo.Storage
	Mirror *repo.Mirror
	Cfg    Config
}

// New constructs a changes service. mirror may be nil when clickhouse
// is disabled; aggregation queries then report unavailable
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], mirror *repo.Mirror, cfg Config) *Service {
	if db == nil {
		panic("changes.Service requires a non nil TxRunner")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 500
	}
	return &Service{Repo: binder.Bind(db), Mirror: mirror, Cfg: cfg}
}

// WriteBatch implements domain.WriterPort. PG is written first; the
// mirror follows so the source of truth never trails the rollups
func (s *Service) WriteBatch(ctx context.Context, xs []domain.Row) (int, error) {
	n, err := s.Repo.WriteBatch(ctx, xs)
	if err != nil {
		return 0, err
	}
	if err := s.Mirror.WriteBatch(ctx, xs); err != nil {
		return n, perr.Wrap(err, perr.ErrorCodeDB, "mirror change events")
	}
	return n, nil
}

// ListByRun implements domain.QueryPort
func (s *Service) ListByRun(ctx context.Context, runID string, limit int) ([]domain.Row, error) {
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	return s.Repo.ListByRun(ctx, runID, limit)
}

// SummaryByRun implements domain.QueryPort
func (s *Service) SummaryByRun(ctx context.Context, runID string) ([]domain.RunSummaryRow, error) {
	return s.Repo.SummaryByRun(ctx, runID)
}

// AggByKind implements domain.QueryPort against the mirror
func (s *Service) AggByKind(ctx context.Context, start, end string) ([]domain.AggKindRow, error) {
	if s.Mirror == nil {
		return nil, perr.Unavailablef("change aggregations need clickhouse")
	}
	return s.Mirror.AggByKind(ctx, start, end)
}
