// Package module implements the books service module
package module

import (
	"pricebook/internal/modkit"
	"pricebook/internal/modkit/httpkit"
	"pricebook/internal/modkit/repokit"
	"pricebook/internal/services/books/domain"
	"pricebook/internal/services/books/repo"
	"pricebook/internal/services/books/service"
)

// Ports exposed by the books module
type Ports struct {
	Reader domain.ReaderPort
	Writer domain.WriterPort
}

// Module implements the books service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new books module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	svc := service.New(repokit.TxRunner(deps.PG), binder, service.Config{
		ListLimit:  opts.ListLimit,
		MaxRecords: opts.MaxRecords,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Reader: svc,
		Writer: svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "books" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
