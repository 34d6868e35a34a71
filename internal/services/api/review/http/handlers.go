// Package http provides http transport for the review queue
package http

import (
	stdhttp "net/http"
	"time"

	"pricebook/internal/modkit/httpkit"
	"pricebook/internal/services/api/review/domain"
	reviewdom "pricebook/internal/services/review/domain"
)

// Ports are the worker ports the handlers call
type Ports struct {
	Query  reviewdom.QueryPort
	Decide reviewdom.DecidePort
}

// Register mounts review endpoints on the given router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{p: p}

	httpkit.PostJSON[domain.QueueInput](r, "/queue", h.queue)
	httpkit.PostJSON[domain.DecideInput](r, "/decide", h.decide)
}

type handlers struct{ p Ports }

// swagger:route POST /review/queue Review reviewQueue
// @Summary List flagged items for a run, least confident first
// @Tags Review
// @Accept json
// @Produce json
// @Param payload body domain.QueueInput true "Query"
// @Success 200 {object} domain.QueueOut "ok"
// @Router /review/queue [post]
func (h *handlers) queue(r *stdhttp.Request, in domain.QueueInput) (any, error) {
	items, err := h.p.Query.List(r.Context(), in.RunID, in.Status, in.Limit)
	if err != nil {
		return nil, err
	}
	open, err := h.p.Query.CountOpen(r.Context(), in.RunID)
	if err != nil {
		return nil, err
	}
	out := domain.QueueOut{Open: open, Items: make([]domain.ItemOut, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, toItemOut(it))
	}
	return out, nil
}

// swagger:route POST /review/decide Review reviewDecide
// @Summary Record a verdict on an open item
// @Tags Review
// @Accept json
// @Produce json
// @Param payload body domain.DecideInput true "Decision"
// @Success 200 {object} domain.ItemOut "ok"
// @Router /review/decide [post]
func (h *handlers) decide(r *stdhttp.Request, in domain.DecideInput) (any, error) {
	it, err := h.p.Decide.Decide(r.Context(), reviewdom.DecisionInput{
		ItemID:    in.ItemID,
		Verdict:   in.Verdict,
		Note:      in.Note,
		DecidedBy: in.DecidedBy,
	})
	if err != nil {
		return nil, err
	}
	return toItemOut(it), nil
}

func toItemOut(it reviewdom.Item) domain.ItemOut {
	out := domain.ItemOut{
		ID:         it.ID,
		RunID:      it.RunID,
		MatchID:    it.MatchID,
		ChangeID:   it.ChangeID,
		Confidence: it.Confidence,
		Reasons:    it.Reasons,
		Detail:     it.Detail,
		Status:     it.Status,
		Note:       it.Note,
		DecidedBy:  it.DecidedBy,
		CreatedAt:  it.CreatedAt.UTC().Format(time.RFC3339),
	}
	if it.DecidedAt != nil {
		s := it.DecidedAt.UTC().Format(time.RFC3339)
		out.DecidedAt = &s
	}
	return out
}
