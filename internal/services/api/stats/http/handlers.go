// Package http provides http transport for stats rollups
package http

import (
	stdhttp "net/http"

	"pricebook/internal/modkit/httpkit"
	perr "pricebook/internal/platform/errors"
	"pricebook/internal/services/api/stats/domain"
	changesdom "pricebook/internal/services/changes/domain"
)

// Ports are the worker ports the handlers call
type Ports struct {
	Changes changesdom.QueryPort
}

// Register mounts stats endpoints on the given router
func Register(r httpkit.Router, p Ports) {
	h := &handlers{p: p}

	httpkit.PostJSON[domain.KindsInput](r, "/kinds", h.kinds)
}

type handlers struct{ p Ports }

// swagger:route POST /stats/kinds Stats statsKinds
// @Summary Per-day change counts by kind
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.KindsInput true "Window"
// @Success 200 {array} domain.DayKindOut "ok"
// @Router /stats/kinds [post]
func (h *handlers) kinds(r *stdhttp.Request, in domain.KindsInput) (any, error) {
	if in.Start > in.End {
		return nil, perr.InvalidArgf("start %q is after end %q", in.Start, in.End)
	}
	rows, err := h.p.Changes.AggByKind(r.Context(), in.Start, in.End)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DayKindOut, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DayKindOut{Day: row.Day, Kind: row.Kind, Count: row.Count})
	}
	return out, nil
}
