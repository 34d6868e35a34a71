// Package module implements the review service module
package module

import (
	"pricebook/internal/modkit"
	"pricebook/internal/modkit/httpkit"
	"pricebook/internal/modkit/repokit"
	"pricebook/internal/services/review/domain"
	"pricebook/internal/services/review/repo"
	"pricebook/internal/services/review/service"
)

// Ports exposed by the review module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
	Decide domain.DecidePort
}

// Module implements the review service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new review module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder, service.Config{
		HardLimit: opts.HardLimit,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Writer: svc,
		Query:  svc,
		Decide: svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "review" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
