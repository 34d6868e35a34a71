// Package http provides http transport for diff runs
package http

import (
	stdhttp "net/http"
	"time"

	"pricebook/internal/modkit/httpkit"
	"pricebook/internal/services/api/diffs/domain"
	changesdom "pricebook/internal/services/changes/domain"
	diffsdom "pricebook/internal/services/diffs/domain"
)

// Ports are the worker ports the handlers call
type Ports struct {
	Runner  diffsdom.RunnerPort
	Query   diffsdom.QueryPort
	Changes changesdom.QueryPort
}

// Register mounts diff endpoints on the given router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{p: p}

	httpkit.PostJSON[domain.RunInput](r, "/run", h.run)
	httpkit.PostJSON[domain.GetInput](r, "/get", h.get)
	httpkit.PostJSON[domain.ListInput](r, "/list", h.list)
	httpkit.PostJSON[domain.ChangesInput](r, "/changes", h.changes)
	httpkit.PostJSON[domain.SummaryInput](r, "/summary", h.summary)
}

type handlers struct{ p Ports }

// swagger:route POST /diffs/run Diffs diffsRun
// @Summary Diff two stored snapshots
// @Tags Diffs
// @Accept json
// @Produce json
// @Param payload body domain.RunInput true "Run request"
// @Success 200 {object} domain.RunResultOut "ok"
// @Router /diffs/run [post]
func (h *handlers) run(r *stdhttp.Request, in domain.RunInput) (any, error) {
	run, res, err := h.p.Runner.Run(r.Context(), diffsdom.RunInput{
		OldBookID:      in.OldBookID,
		NewBookID:      in.NewBookID,
		Workers:        in.Workers,
		FuzzyThreshold: in.FuzzyThreshold,
		DisableFuzzy:   in.DisableFuzzy,
		DryRun:         in.DryRun,
	})
	if err != nil {
		return nil, err
	}

	out := domain.RunResultOut{
		Run:          toRunOut(run),
		CountsByKind: res.CountsByKind,
	}
	if in.DryRun {
		for _, row := range changesdom.FromDiff(run.ID, res) {
			out.Changes = append(out.Changes, toChangeOut(row))
		}
	}
	return out, nil
}

// swagger:route POST /diffs/get Diffs diffsGet
// @Summary Fetch one run record
// @Tags Diffs
// @Accept json
// @Produce json
// @Param payload body domain.GetInput true "Query"
// @Success 200 {object} domain.RunOut "ok"
// @Router /diffs/get [post]
func (h *handlers) get(r *stdhttp.Request, in domain.GetInput) (any, error) {
	run, err := h.p.Query.Get(r.Context(), in.RunID)
	if err != nil {
		return nil, err
	}
	return toRunOut(run), nil
}

// swagger:route POST /diffs/list Diffs diffsList
// @Summary List recent runs, newest first
// @Tags Diffs
// @Accept json
// @Produce json
// @Param payload body domain.ListInput true "Query"
// @Success 200 {array} domain.RunOut "ok"
// @Router /diffs/list [post]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	runs, err := h.p.Query.List(r.Context(), in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RunOut, 0, len(runs))
	for _, run := range runs {
		out = append(out, toRunOut(run))
	}
	return out, nil
}

// swagger:route POST /diffs/changes Diffs diffsChanges
// @Summary List persisted changes for a run
// @Tags Diffs
// @Accept json
// @Produce json
// @Param payload body domain.ChangesInput true "Query"
// @Success 200 {array} domain.ChangeOut "ok"
// @Router /diffs/changes [post]
func (h *handlers) changes(r *stdhttp.Request, in domain.ChangesInput) (any, error) {
	rows, err := h.p.Changes.ListByRun(r.Context(), in.RunID, in.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ChangeOut, 0, len(rows))
	for _, row := range rows {
		out = append(out, toChangeOut(row))
	}
	return out, nil
}

// swagger:route POST /diffs/summary Diffs diffsSummary
// @Summary Per-kind change counts for a run
// @Tags Diffs
// @Accept json
// @Produce json
// @Param payload body domain.SummaryInput true "Query"
// @Success 200 {array} domain.KindCountOut "ok"
// @Router /diffs/summary [post]
func (h *handlers) summary(r *stdhttp.Request, in domain.SummaryInput) (any, error) {
	rows, err := h.p.Changes.SummaryByRun(r.Context(), in.RunID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.KindCountOut, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.KindCountOut{Kind: row.Kind, Count: row.Count})
	}
	return out, nil
}

func toRunOut(run diffsdom.Run) domain.RunOut {
	out := domain.RunOut{
		ID:          run.ID,
		OldBookID:   run.OldBookID,
		NewBookID:   run.NewBookID,
		Status:      run.Status,
		DryRun:      run.DryRun,
		Matches:     run.Matches,
		Changes:     run.Changes,
		ReviewItems: run.ReviewItems,
		Unprocessed: run.Unprocessed,
		Error:       run.Error,
		StartedAt:   run.StartedAt.UTC().Format(time.RFC3339),
	}
	if run.FinishedAt != nil {
		s := run.FinishedAt.UTC().Format(time.RFC3339)
		out.FinishedAt = &s
	}
	return out
}

func toChangeOut(row changesdom.Row) domain.ChangeOut {
	return domain.ChangeOut{
		ID:          row.ID,
		RunID:       row.RunID,
		Kind:        row.Kind,
		Key:         row.Key,
		Confidence:  row.Confidence,
		Tier:        row.Tier,
		Review:      row.Review,
		Description: row.Description,
		OldPrice:    row.OldPrice,
		NewPrice:    row.NewPrice,
		ChangePct:   row.ChangePct,
		OldModel:    row.OldModel,
		NewModel:    row.NewModel,
		OptionCode:  row.OptionCode,
		OldAdder:    row.OldAdder,
		NewAdder:    row.NewAdder,
	}
}
