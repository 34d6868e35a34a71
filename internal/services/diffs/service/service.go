// Package service implements the diff run orchestrator
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pricebook/internal/core/confidence"
	"pricebook/internal/core/diff"
	"pricebook/internal/modkit/repokit"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/platform/logger"
	tim "pricebook/internal/platform/time"

	changesdom "pricebook/internal/services/changes/domain"
	"pricebook/internal/services/diffs/domain"
	"pricebook/internal/services/diffs/repo"
	reviewdom "pricebook/internal/services/review/domain"
)

// Config for the diffs service; per-run input overrides these defaults
type Config struct {
	Workers        int
	FuzzyThreshold int
	EnableFuzzy    bool
	ListLimit      int
}

// Service implements domain.RunnerPort and domain.QueryPort
type Service struct {
	Ports domain.Ports
	Repo  repo.Storage

	db  repokit.TxRunner
	cfg Config
	log logger.Logger
}

// New constructs the orchestrator. db may be nil only together with
// DryRun-only use; Run fails fast when persistence is needed without it
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], ports domain.Ports, cfg Config, log logger.Logger) *Service {
	if ports.Books == nil {
		panic("diffs.Service requires the books reader port")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = 70
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 50
	}
	s := &Service{Ports: ports, db: db, cfg: cfg, log: log.With().Str("component", "diffs").Logger()}
	if db != nil {
		s.Repo = binder.Bind(db)
	}
	return s
}

// Run executes one diff: load both snapshots, run the engine, persist
// the change log, mirror, review queue, and the run record. Dry runs
// compute everything and write nothing
func (s *Service) Run(ctx context.Context, in domain.RunInput) (domain.Run, *diff.Result, error) {
	if in.OldBookID == "" || in.NewBookID == "" {
		return domain.Run{}, nil, perr.InvalidArgf("old and new book ids are required")
	}
	if !in.DryRun && (s.Repo == nil || s.Ports.Changes == nil || s.Ports.Review == nil) {
		return domain.Run{}, nil, perr.Unavailablef("diff persistence ports are not wired")
	}

	cfg := diff.DefaultConfig()
	cfg.Workers = s.cfg.Workers
	cfg.FuzzyThreshold = s.cfg.FuzzyThreshold
	cfg.EnableFuzzy = s.cfg.EnableFuzzy
	cfg.Thresholds = confidence.Default()
	if in.Workers > 0 {
		cfg.Workers = in.Workers
	}
	if in.FuzzyThreshold > 0 {
		cfg.FuzzyThreshold = in.FuzzyThreshold
	}
	if in.DisableFuzzy {
		cfg.EnableFuzzy = false
	}

	engine, err := diff.New(cfg)
	if err != nil {
		return domain.Run{}, nil, err
	}

	oldBook, err := s.Ports.Books.Snapshot(ctx, in.OldBookID)
	if err != nil {
		return domain.Run{}, nil, err
	}
	newBook, err := s.Ports.Books.Snapshot(ctx, in.NewBookID)
	if err != nil {
		return domain.Run{}, nil, err
	}

	run := domain.Run{
		ID:        uuid.NewString(),
		OldBookID: in.OldBookID,
		NewBookID: in.NewBookID,
		Status:    domain.StatusRunning,
		DryRun:    in.DryRun,
		StartedAt: time.Now().UTC(),
	}
	if !in.DryRun {
		if err := s.Repo.InsertRun(ctx, run); err != nil {
			return domain.Run{}, nil, err
		}
	}

	res := engine.Diff(oldBook, newBook)

	run.Matches = len(res.Matches)
	run.Changes = len(res.Changes)
	run.ReviewItems = len(res.ReviewQueue)
	run.Unprocessed = len(res.Unprocessed)

	if in.DryRun {
		run.Status = domain.StatusDone
		run.FinishedAt = tim.Ptr(time.Now().UTC())
		return run, res, nil
	}

	if err := s.persist(ctx, &run, res); err != nil {
		run.Status = domain.StatusFailed
		run.Error = err.Error()
		run.FinishedAt = tim.Ptr(time.Now().UTC())
		if perr.Retryable(err) {
			s.log.Warn().Err(err).Str("run_id", run.ID).Msg("persist hit transient db error; run can be resubmitted")
		}
		if ferr := s.Repo.FinishRun(ctx, run); ferr != nil {
			s.log.Error().Err(ferr).Str("run_id", run.ID).Msg("record failed run")
		}
		return run, res, err
	}

	run.Status = domain.StatusDone
	run.FinishedAt = tim.Ptr(time.Now().UTC())
	if err := s.Repo.FinishRun(ctx, run); err != nil {
		return run, res, err
	}

	s.log.Info().
		Str("run_id", run.ID).
		Int("matches", run.Matches).
		Int("changes", run.Changes).
		Int("review", run.ReviewItems).
		Msg("diff run complete")
	return run, res, nil
}

func (s *Service) persist(ctx context.Context, run *domain.Run, res *diff.Result) error {
	rows := changesdom.FromDiff(run.ID, res)
	if _, err := s.Ports.Changes.WriteBatch(ctx, rows); err != nil {
		return err
	}
	items := reviewdom.FromDiff(run.ID, res)
	if _, err := s.Ports.Review.EnqueueBatch(ctx, items); err != nil {
		return err
	}
	return nil
}

// Get implements domain.QueryPort
func (s *Service) Get(ctx context.Context, runID string) (domain.Run, error) {
	if s.Repo == nil {
		return domain.Run{}, perr.Unavailablef("diff run store is not wired")
	}
	return s.Repo.Get(ctx, runID)
}

// List implements domain.QueryPort
func (s *Service) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.Repo == nil {
		return nil, perr.Unavailablef("diff run store is not wired")
	}
	if limit <= 0 || limit > s.cfg.ListLimit {
		limit = s.cfg.ListLimit
	}
	return s.Repo.List(ctx, limit)
}
