// Package module implements the changes service module
package module

import (
	"pricebook/internal/modkit"
	"pricebook/internal/modkit/httpkit"
	"pricebook/internal/modkit/repokit"
	"pricebook/internal/services/changes/domain"
	"pricebook/internal/services/changes/repo"
	"pricebook/internal/services/changes/service"
)

// Ports exposed by the changes module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
}

// Module implements the changes service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new changes module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder, repo.NewMirror(deps.CH), service.Config{
		HardLimit: opts.HardLimit,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Writer: svc,
		Query:  svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "changes" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
