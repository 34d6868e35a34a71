// Package service contains review queue workflows
package service

import (
	"context"

	"pricebook/internal/modkit/repokit"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/services/review/domain"
	"pricebook/internal/services/review/repo"
)

// Config for the review service
type Config struct {
	HardLimit int
}

// Service implements domain.WriterPort, domain.QueryPort, and
// domain.DecidePort
type Service struct {
	Repo repo.Storage
	Cfg  Config
}

// New constructs a review service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("review.Service requires a non nil TxRunner")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 200
	}
	return &Service{Repo: binder.Bind(db), Cfg: cfg}
}

// EnqueueBatch implements domain.WriterPort
func (s *Service) EnqueueBatch(ctx context.Context, xs []domain.Item) (int, error) {
	return s.Repo.EnqueueBatch(ctx, xs)
}

// List implements domain.QueryPort
func (s *Service) List(ctx context.Context, runID, status string, limit int) ([]domain.Item, error) {
	switch status {
	case "", domain.StatusOpen, domain.StatusAccepted, domain.StatusRejected:
	default:
		return nil, perr.InvalidArgf("unknown review status %q", status)
	}
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	return s.Repo.List(ctx, runID, status, limit)
}

// CountOpen implements domain.QueryPort
func (s *Service) CountOpen(ctx context.Context, runID string) (int64, error) {
	return s.Repo.CountOpen(ctx, runID)
}

// Decide implements domain.DecidePort. A decision lands exactly once;
// deciding a non-open item reports a conflict
func (s *Service) Decide(ctx context.Context, in domain.DecisionInput) (domain.Item, error) {
	if in.Verdict != domain.StatusAccepted && in.Verdict != domain.StatusRejected {
		return domain.Item{}, perr.InvalidArgf("verdict must be accepted or rejected, got %q", in.Verdict)
	}

	n, err := s.Repo.Decide(ctx, in)
	if err != nil {
		return domain.Item{}, err
	}
	if n == 0 {
		// distinguish missing from already decided
		it, getErr := s.Repo.Get(ctx, in.ItemID)
		if getErr != nil {
			return domain.Item{}, getErr
		}
		return domain.Item{}, perr.Conflictf("review item %s already %s", in.ItemID, it.Status)
	}
	return s.Repo.Get(ctx, in.ItemID)
}
